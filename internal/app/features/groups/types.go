package groups

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dhanushkumarms/campusconnect/internal/app/system/inputval"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
)

// Request payloads. IDs arrive as hex strings and are parsed in the
// handlers so a malformed ID surfaces as a validation error, not a 500.

type createGroupRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	ParentID    string           `json:"parent_id,omitempty"`
	IsPublic    *bool            `json:"is_public,omitempty"`
	Criteria    *criteriaPayload `json:"access_criteria,omitempty"`
}

type updateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type setParentRequest struct {
	// Empty detaches the group from its parent.
	ParentID string `json:"parent_id"`
}

type setVisibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

type memberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

type memberRoleRequest struct {
	Role string `json:"role"`
}

type criteriaPayload struct {
	Roles       []string `json:"roles,omitempty"`
	Departments []string `json:"departments,omitempty"`
	Years       []string `json:"years,omitempty"`
}

func (p *criteriaPayload) toModel() (*models.AccessCriteria, bool) {
	if p == nil {
		return nil, true
	}
	roles, ok := inputval.ParseUserRoles(p.Roles)
	if !ok {
		return nil, false
	}
	return &models.AccessCriteria{
		Roles:       roles,
		Departments: inputval.CleanStrings(p.Departments),
		Years:       inputval.CleanStrings(p.Years),
	}, true
}

// Response payloads.

type memberView struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type groupView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Type        string           `json:"type"`
	ParentID    string           `json:"parent_id,omitempty"`
	CreatedBy   string           `json:"created_by"`
	Admins      []string         `json:"admins"`
	Members     []memberView     `json:"members"`
	IsPublic    bool             `json:"is_public"`
	Criteria    *criteriaPayload `json:"access_criteria,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type groupSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
	IsPublic bool   `json:"is_public"`
}

type accessView struct {
	UserID    string `json:"user_id"`
	GroupID   string `json:"group_id"`
	Level     string `json:"level"`
	Role      string `json:"role,omitempty"`
	CanManage bool   `json:"can_manage"`
}

func newGroupView(g *models.Group) groupView {
	v := groupView{
		ID:          g.ID.Hex(),
		Name:        g.Name,
		Description: g.Description,
		Type:        string(g.Type),
		CreatedBy:   g.CreatedBy.Hex(),
		Admins:      hexIDs(g.Admins),
		Members:     make([]memberView, 0, len(g.Members)),
		IsPublic:    g.IsPublic,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if g.ParentID != nil {
		v.ParentID = g.ParentID.Hex()
	}
	for _, m := range g.Members {
		v.Members = append(v.Members, memberView{
			UserID:   m.UserID.Hex(),
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}
	if g.AccessCriteria != nil {
		roles := make([]string, 0, len(g.AccessCriteria.Roles))
		for _, r := range g.AccessCriteria.Roles {
			roles = append(roles, string(r))
		}
		v.Criteria = &criteriaPayload{
			Roles:       roles,
			Departments: g.AccessCriteria.Departments,
			Years:       g.AccessCriteria.Years,
		}
	}
	return v
}

func newGroupSummary(g models.Group) groupSummary {
	s := groupSummary{
		ID:       g.ID.Hex(),
		Name:     g.Name,
		Type:     string(g.Type),
		IsPublic: g.IsPublic,
	}
	if g.ParentID != nil {
		s.ParentID = g.ParentID.Hex()
	}
	return s
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dhanushkumarms/campusconnect/internal/app/policy/accesspolicy"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/timeouts"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
)

func (h *Handler) HandleSetParent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	actor, ok := h.actor(ctx, w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, chi.URLParam(r, "id"), "group id")
	if !ok {
		return
	}
	var req setParentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireManage(ctx, w, id, actor); !ok {
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		pid, ok := parseID(w, req.ParentID, "parent_id")
		if !ok {
			return
		}
		parentID = &pid
	}

	if err := h.Groups.SetParent(ctx, id, parentID); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.GroupReparented(ctx, uuid.NewString(), id, actor.ID, req.ParentID)
	h.serveFresh(ctx, w, id)
}

func (h *Handler) ServeChildren(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	actor, ok := h.actor(ctx, w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, chi.URLParam(r, "id"), "group id")
	if !ok {
		return
	}
	children, err := h.Groups.ListChildren(ctx, id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeVisible(children, actor))
}

// ServeAncestors returns the chain from the group's parent up to the
// root, nearest first.
func (h *Handler) ServeAncestors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	actor, ok := h.actor(ctx, w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, chi.URLParam(r, "id"), "group id")
	if !ok {
		return
	}
	chain, err := h.Groups.ListAncestors(ctx, id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeVisible(chain, actor))
}

// summarizeVisible renders summaries for the groups the actor can see,
// applying the same hiding rule as ServeGroup so private groups do not
// leak through hierarchy listings.
func summarizeVisible(gs []models.Group, actor models.User) []groupSummary {
	out := make([]groupSummary, 0, len(gs))
	for _, g := range gs {
		if accesspolicy.EffectiveAccess(g, actor).Level == accesspolicy.LevelNone &&
			actor.Role != models.UserAdmin &&
			!accesspolicy.CanManage(g, actor.ID) {
			continue
		}
		out = append(out, newGroupSummary(g))
	}
	return out
}

package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dhanushkumarms/campusconnect/internal/app/policy/accesspolicy"
	groupstore "github.com/dhanushkumarms/campusconnect/internal/app/store/groups"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/inputval"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/timeouts"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
)

func parseID(w http.ResponseWriter, hex, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed "+label)
		return primitive.NilObjectID, false
	}
	return id, true
}

// requireManage loads the group and checks the actor may administer it.
// Failures are written to w; the bool reports whether to continue.
func (h *Handler) requireManage(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID, actor models.User) (models.Group, bool) {
	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, err)
		return models.Group{}, false
	}
	if actor.Role != models.UserAdmin && !accesspolicy.CanManage(g, actor.ID) {
		writeError(w, http.StatusForbidden, "not a group admin")
		return models.Group{}, false
	}
	return g, true
}

func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, ok := h.actor(ctx, w, r)
	if !ok {
		return
	}
	var req createGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	gt, ok := inputval.ParseGroupType(req.Type)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown group type")
		return
	}
	name := inputval.SanitizeText(req.Name)
	if !inputval.ValidName(name) {
		writeError(w, http.StatusUnprocessableEntity, "name is empty or too long")
		return
	}
	desc := inputval.SanitizeText(req.Description)
	if !inputval.ValidDescription(desc) {
		writeError(w, http.StatusUnprocessableEntity, "description too long")
		return
	}
	criteria, ok := req.Criteria.toModel()
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown role in access criteria")
		return
	}

	params := groupstore.CreateParams{
		Name:        name,
		Description: desc,
		Type:        gt,
		CreatedBy:   actor.ID,
		IsPublic:    req.IsPublic,
		Criteria:    criteria,
	}
	if req.ParentID != "" {
		pid, ok := parseID(w, req.ParentID, "parent_id")
		if !ok {
			return
		}
		params.ParentID = &pid
	}

	g, err := h.Groups.Create(ctx, params)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.GroupCreated(ctx, uuid.NewString(), g.ID, actor.ID, g.Name)
	writeJSON(w, http.StatusCreated, newGroupView(&g))
}

// ServeGroup returns a single group. Groups the actor has no access to
// are reported as missing rather than forbidden, so private groups do
// not leak their existence.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
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
	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	d := accesspolicy.EffectiveAccess(g, actor)
	if d.Level == accesspolicy.LevelNone &&
		actor.Role != models.UserAdmin &&
		!accesspolicy.CanManage(g, actor.ID) {
		writeError(w, http.StatusNotFound, "group not found")
		return
	}
	writeJSON(w, http.StatusOK, newGroupView(&g))
}

func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, ok := h.actor(ctx, w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, chi.URLParam(r, "id"), "group id")
	if !ok {
		return
	}
	var req updateGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	g, ok := h.requireManage(ctx, w, id, actor)
	if !ok {
		return
	}

	name := inputval.SanitizeText(req.Name)
	if name != "" && !inputval.ValidName(name) {
		writeError(w, http.StatusUnprocessableEntity, "name too long")
		return
	}
	desc := g.Description
	if req.Description != nil {
		desc = inputval.SanitizeText(*req.Description)
		if !inputval.ValidDescription(desc) {
			writeError(w, http.StatusUnprocessableEntity, "description too long")
			return
		}
	}
	if err := h.Groups.UpdateInfo(ctx, id, name, desc); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.GroupUpdated(ctx, uuid.NewString(), id, actor.ID)
	h.serveFresh(ctx, w, id)
}

func (h *Handler) HandleSetVisibility(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, ok := h.actor(ctx, w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, chi.URLParam(r, "id"), "group id")
	if !ok {
		return
	}
	var req setVisibilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireManage(ctx, w, id, actor); !ok {
		return
	}
	if err := h.Groups.SetVisibility(ctx, id, req.IsPublic); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.GroupUpdated(ctx, uuid.NewString(), id, actor.ID)
	h.serveFresh(ctx, w, id)
}

func (h *Handler) HandleSetCriteria(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, ok := h.actor(ctx, w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, chi.URLParam(r, "id"), "group id")
	if !ok {
		return
	}
	var req criteriaPayload
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireManage(ctx, w, id, actor); !ok {
		return
	}
	criteria, ok := (&req).toModel()
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown role in access criteria")
		return
	}
	if err := h.Groups.SetAccessCriteria(ctx, id, criteria); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.CriteriaChanged(ctx, uuid.NewString(), id, actor.ID)
	h.serveFresh(ctx, w, id)
}

func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
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
	if _, ok := h.requireManage(ctx, w, id, actor); !ok {
		return
	}
	if err := h.Groups.Delete(ctx, id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.GroupDeleted(ctx, uuid.NewString(), id, actor.ID)
	w.WriteHeader(http.StatusNoContent)
}

// serveFresh re-reads the group after a mutation and returns it, so the
// caller sees the committed state rather than an echo of the request.
func (h *Handler) serveFresh(ctx context.Context, w http.ResponseWriter, id primitive.ObjectID) {
	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGroupView(&g))
}

package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhanushkumarms/campusconnect/internal/app/policy/accesspolicy"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/inputval"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/timeouts"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
)

func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
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
	var req memberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	userID, ok := parseID(w, req.UserID, "user_id")
	if !ok {
		return
	}
	role, ok := inputval.ParseMemberRole(req.Role)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown member role")
		return
	}

	// Users may join an open or criteria-matched group themselves with
	// the default role; anything else needs a group admin.
	selfJoin := userID == actor.ID && role == models.RoleMember
	if selfJoin {
		g, err := h.Groups.GetByID(ctx, id)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
		d := accesspolicy.EffectiveAccess(g, actor)
		if d.Level == accesspolicy.LevelNone {
			writeError(w, http.StatusForbidden, "group is not open to you")
			return
		}
	} else if _, ok := h.requireManage(ctx, w, id, actor); !ok {
		return
	}

	if err := h.Groups.AddMember(ctx, id, userID, role); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.MemberAdded(ctx, uuid.NewString(), id, userID, actor.ID, string(role))
	h.serveFresh(ctx, w, id)
}

func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
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
	userID, ok := parseID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}

	// Leaving a group is always allowed; removing someone else is not.
	if userID != actor.ID {
		if _, ok := h.requireManage(ctx, w, id, actor); !ok {
			return
		}
	}

	if err := h.Groups.RemoveMember(ctx, id, userID); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.MemberRemoved(ctx, uuid.NewString(), id, userID, actor.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSetMemberRole(w http.ResponseWriter, r *http.Request) {
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
	userID, ok := parseID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}
	var req memberRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	role, ok := inputval.ParseMemberRole(req.Role)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown member role")
		return
	}
	if _, ok := h.requireManage(ctx, w, id, actor); !ok {
		return
	}

	if err := h.Groups.SetMemberRole(ctx, id, userID, role); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.MemberRoleChanged(ctx, uuid.NewString(), id, userID, actor.ID, string(role))
	h.serveFresh(ctx, w, id)
}

func (h *Handler) HandleGrantAdmin(w http.ResponseWriter, r *http.Request) {
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
	userID, ok := parseID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}
	if _, ok := h.requireManage(ctx, w, id, actor); !ok {
		return
	}
	if err := h.Groups.GrantAdmin(ctx, id, userID); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.MemberRoleChanged(ctx, uuid.NewString(), id, userID, actor.ID, "group_admin")
	h.serveFresh(ctx, w, id)
}

func (h *Handler) HandleRevokeAdmin(w http.ResponseWriter, r *http.Request) {
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
	userID, ok := parseID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}
	if _, ok := h.requireManage(ctx, w, id, actor); !ok {
		return
	}
	if err := h.Groups.RevokeAdmin(ctx, id, userID); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.Audit.MemberRoleChanged(ctx, uuid.NewString(), id, userID, actor.ID, "member")
	h.serveFresh(ctx, w, id)
}

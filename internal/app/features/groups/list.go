package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dhanushkumarms/campusconnect/internal/app/policy/accesspolicy"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/timeouts"
)

// ServeVisibleGroups lists every group the actor can see: public ones,
// groups they belong to or administer, and private groups whose access
// criteria match their profile.
func (h *Handler) ServeVisibleGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor, ok := h.actor(ctx, w, r)
	if !ok {
		return
	}
	visible, err := h.Groups.ListVisibleTo(ctx, actor)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	out := make([]groupSummary, 0, len(visible))
	for _, g := range visible {
		out = append(out, newGroupSummary(g))
	}
	writeJSON(w, http.StatusOK, out)
}

// ServeAccess reports the effective access of a user on a group. Group
// admins may query anyone; everyone else only themselves.
func (h *Handler) ServeAccess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	actor, ok := h.actor(ctx, w, r)
	if !ok {
		return
	}
	groupID, ok := parseID(w, chi.URLParam(r, "id"), "group id")
	if !ok {
		return
	}
	userID, ok := parseID(w, chi.URLParam(r, "userID"), "user id")
	if !ok {
		return
	}

	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if userID != actor.ID && !accesspolicy.CanManage(g, actor.ID) {
		writeError(w, http.StatusForbidden, "not a group admin")
		return
	}

	u := actor
	if userID != actor.ID {
		u, err = h.Users.GetByID(ctx, userID)
		if err != nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
	}

	d := accesspolicy.EffectiveAccess(g, u)
	view := accessView{
		UserID:    userID.Hex(),
		GroupID:   groupID.Hex(),
		Level:     d.Level.String(),
		CanManage: accesspolicy.CanManage(g, u.ID),
	}
	if d.Level >= accesspolicy.LevelImplicitMember {
		view.Role = string(d.Role)
	}
	writeJSON(w, http.StatusOK, view)
}

package groups

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dhanushkumarms/campusconnect/internal/app/store/audit"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/timeouts"
)

type auditEventView struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	EventType     string            `json:"event_type"`
	UserID        string            `json:"user_id,omitempty"`
	ActorID       string            `json:"actor_id,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Success       bool              `json:"success"`
	Details       map[string]string `json:"details,omitempty"`
}

// ServeAuditLog returns the group's administration history, most recent
// first. Group admins only; the events name users the caller may not
// otherwise see.
func (h *Handler) ServeAuditLog(w http.ResponseWriter, r *http.Request) {
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
	if _, ok := h.requireManage(ctx, w, id, actor); !ok {
		return
	}

	filter := audit.QueryFilter{GroupID: &id}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			writeError(w, http.StatusUnprocessableEntity, "malformed limit")
			return
		}
		filter.Limit = n
	}
	if et := r.URL.Query().Get("event_type"); et != "" {
		filter.EventType = et
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audit query", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]auditEventView, 0, len(events))
	for _, e := range events {
		v := auditEventView{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			EventType:     e.EventType,
			CorrelationID: e.CorrelationID,
			Success:       e.Success,
			Details:       e.Details,
		}
		if e.UserID != nil {
			v.UserID = e.UserID.Hex()
		}
		if e.ActorID != nil {
			v.ActorID = e.ActorID.Hex()
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

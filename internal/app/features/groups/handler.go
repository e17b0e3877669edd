// Package groups exposes the group subsystem over a small JSON API.
// Authentication happens upstream; callers identify the acting user
// with the X-User-ID header and this layer resolves it against the
// user store before touching anything.
package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	auditstore "github.com/dhanushkumarms/campusconnect/internal/app/store/audit"
	groupstore "github.com/dhanushkumarms/campusconnect/internal/app/store/groups"
	userstore "github.com/dhanushkumarms/campusconnect/internal/app/store/users"
	"github.com/dhanushkumarms/campusconnect/internal/app/system/auditlog"
	"github.com/dhanushkumarms/campusconnect/internal/domain/models"
)

const actorHeader = "X-User-ID"

type Handler struct {
	Groups *groupstore.Store
	Users  *userstore.Store
	Audit  *auditlog.Logger
	Events *auditstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups: groupstore.New(db),
		Users:  userstore.New(db),
		Audit:  audit,
		Events: auditstore.New(db),
		Log:    logger,
	}
}

// actor resolves the acting user from the request header. It writes the
// failure response itself so callers can bail with a bare return.
func (h *Handler) actor(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.User, bool) {
	hex := r.Header.Get(actorHeader)
	if hex == "" {
		writeError(w, http.StatusUnauthorized, "missing "+actorHeader+" header")
		return models.User{}, false
	}
	u, err := h.Users.GetByIDHex(ctx, hex)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return models.User{}, false
		}
		h.Log.Error("resolve actor", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return models.User{}, false
	}
	return u, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store sentinel errors onto HTTP status codes.
// Hierarchy corruption is deliberately a 500: it means the stored data
// violates its own invariants, not that the caller did anything wrong.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, groupstore.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, groupstore.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, groupstore.ErrCycle):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, groupstore.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.Log.Error("group store", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

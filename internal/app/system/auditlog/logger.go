// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dhanushkumarms/campusconnect/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Admin controls logging for group mutation events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.GroupID != nil {
		fields = append(fields, zap.String("group_id", event.GroupID.Hex()))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.CorrelationID != "" {
		fields = append(fields, zap.String("correlation_id", event.CorrelationID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.config.Admin
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" || setting == "" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" || setting == "" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// GroupCreated logs a successful group creation.
func (l *Logger) GroupCreated(ctx context.Context, correlationID string, groupID, actorID primitive.ObjectID, name string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventGroupCreated,
		GroupID:       &groupID,
		ActorID:       &actorID,
		CorrelationID: correlationID,
		Success:       true,
		Details:       map[string]string{"name": name},
	})
}

// GroupUpdated logs a name/description/visibility change.
func (l *Logger) GroupUpdated(ctx context.Context, correlationID string, groupID, actorID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventGroupUpdated,
		GroupID:       &groupID,
		ActorID:       &actorID,
		CorrelationID: correlationID,
		Success:       true,
	})
}

// GroupReparented logs a hierarchy move.
func (l *Logger) GroupReparented(ctx context.Context, correlationID string, groupID, actorID primitive.ObjectID, newParent string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventGroupReparented,
		GroupID:       &groupID,
		ActorID:       &actorID,
		CorrelationID: correlationID,
		Success:       true,
		Details:       map[string]string{"new_parent": newParent},
	})
}

// GroupDeleted logs a group removal.
func (l *Logger) GroupDeleted(ctx context.Context, correlationID string, groupID, actorID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventGroupDeleted,
		GroupID:       &groupID,
		ActorID:       &actorID,
		CorrelationID: correlationID,
		Success:       true,
	})
}

// MemberAdded logs a membership add or role upsert.
func (l *Logger) MemberAdded(ctx context.Context, correlationID string, groupID, userID, actorID primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventMemberAdded,
		GroupID:       &groupID,
		UserID:        &userID,
		ActorID:       &actorID,
		CorrelationID: correlationID,
		Success:       true,
		Details:       map[string]string{"role": role},
	})
}

// MemberRemoved logs a membership removal.
func (l *Logger) MemberRemoved(ctx context.Context, correlationID string, groupID, userID, actorID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventMemberRemoved,
		GroupID:       &groupID,
		UserID:        &userID,
		ActorID:       &actorID,
		CorrelationID: correlationID,
		Success:       true,
	})
}

// MemberRoleChanged logs a role transition on an existing membership.
func (l *Logger) MemberRoleChanged(ctx context.Context, correlationID string, groupID, userID, actorID primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventMemberRoleChanged,
		GroupID:       &groupID,
		UserID:        &userID,
		ActorID:       &actorID,
		CorrelationID: correlationID,
		Success:       true,
		Details:       map[string]string{"role": role},
	})
}

// CriteriaChanged logs an access-criteria replacement.
func (l *Logger) CriteriaChanged(ctx context.Context, correlationID string, groupID, actorID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventCriteriaChanged,
		GroupID:       &groupID,
		ActorID:       &actorID,
		CorrelationID: correlationID,
		Success:       true,
	})
}

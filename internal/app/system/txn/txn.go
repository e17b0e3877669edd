// internal/app/system/txn/txn.go
//
// Package txn runs multi-document mutations inside a MongoDB
// transaction when the deployment supports them. Standalone servers
// (dev boxes, most CI) reject sessions and transactions, so Run falls
// back to executing the callback directly rather than failing.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn, transactionally when possible. fn must use the
// context it is handed for every operation that should be covered.
func Run(ctx context.Context, db *mongo.Database, logger *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logger.Debug("sessions unsupported, running without transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logger.Debug("transactions unsupported, running without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the server cannot do
// transactions at all, as opposed to a transaction that failed.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 20 IllegalOperation, 51 (no such command / illegal op on
		// older servers), 263 OperationNotSupportedInTransaction.
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }
	switch {
	case has("transaction") && has("replica set"),
		has("transaction") && has("session"),
		has("transaction") && has("illegal operation"),
		has("session") && has("not supported"):
		return true
	}
	return false
}

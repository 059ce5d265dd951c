// Package txn wraps multi-document MongoDB transactions with a fallback
// for deployments that cannot support them (standalone servers, some
// hosted document stores).
//
// Request creation and cancellation touch a request record, two user
// documents, and a closet item in one batch; cascade cleanup deletes
// across collections. All of those call Run so the writes are atomic
// where the server allows it and still succeed (non-atomically) where
// it does not.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a MongoDB transaction. If the server does not
// support transactions, fn is executed directly without one and the
// downgrade is logged.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Debug("transactions not supported; running batch without one", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Debug("transactions not supported; running batch without one", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Server error codes that indicate the deployment cannot run
// multi-document transactions.
const (
	codeIllegalOperation      = 20
	codeCommandNotSupported   = 51
	codeOperationNotSupported = 263
)

// IsNotSupported reports whether err indicates the server rejected the
// transaction machinery itself (as opposed to the transaction failing).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeIllegalOperation, codeCommandNotSupported, codeOperationNotSupported:
			return true
		}
	}

	// Driver and server phrasing varies; require a transaction/session
	// keyword plus an indication that the capability is missing.
	s := strings.ToLower(err.Error())
	txnish := strings.Contains(s, "transaction") || strings.Contains(s, "session")
	if !txnish {
		return false
	}
	if strings.Contains(s, "replica set") ||
		strings.Contains(s, "not supported") ||
		strings.Contains(s, "illegal operation") {
		return true
	}
	return strings.Contains(s, "transaction") && strings.Contains(s, "session")
}

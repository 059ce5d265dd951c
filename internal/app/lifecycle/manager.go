// internal/app/lifecycle/manager.go
//
// Package lifecycle owns the borrow-request state machine and the
// membership cascade cleanup. Every edit to the denormalized
// back-reference arrays (user request lists, group member lists, event
// item lists) goes through this package; no other code path may create
// or remove a cross-document reference.
package lifecycle

import (
	"errors"

	"github.com/dalemusser/waffle/pantry/storage"
	closetstore "github.com/fittedapp/fitted/internal/app/store/closet"
	eventstore "github.com/fittedapp/fitted/internal/app/store/events"
	groupstore "github.com/fittedapp/fitted/internal/app/store/groups"
	requeststore "github.com/fittedapp/fitted/internal/app/store/requests"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Manager coordinates multi-document operations. All dependencies are
// injected; the manager holds no ambient globals.
type Manager struct {
	db       *mongo.Database
	users    *userstore.Store
	groups   *groupstore.Store
	events   *eventstore.Store
	closet   *closetstore.Store
	requests *requeststore.Store
	files    storage.Store
	log      *zap.Logger
}

// Deps lists what New needs. Files may be nil in tests that never touch
// blob cleanup.
type Deps struct {
	DB       *mongo.Database
	Users    *userstore.Store
	Groups   *groupstore.Store
	Events   *eventstore.Store
	Closet   *closetstore.Store
	Requests *requeststore.Store
	Files    storage.Store
	Log      *zap.Logger
}

func New(d Deps) *Manager {
	return &Manager{
		db:       d.DB,
		users:    d.Users,
		groups:   d.Groups,
		events:   d.Events,
		closet:   d.Closet,
		requests: d.Requests,
		files:    d.Files,
		log:      d.Log,
	}
}

// mapNotFound converts the driver's no-documents error to the domain
// sentinel and wraps anything else as a persistence failure.
func mapNotFound(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return persistErr(op, err)
}

// internal/app/lifecycle/requests.go
package lifecycle

import (
	"context"

	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/fittedapp/fitted/internal/app/system/txn"
	"github.com/fittedapp/fitted/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateRequest opens a borrow request for an item at an event.
//
// Self-requests fail with ErrInvalidOperation. On success the request
// document, both users' request arrays, and the item's pending status
// are written in one atomic batch; a failed attempt leaves no partial
// state.
func (m *Manager) CreateRequest(ctx context.Context, itemID, eventID, requesterID primitive.ObjectID) (models.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	item, err := m.closet.GetByID(ctx, itemID)
	if err != nil {
		return models.Request{}, mapNotFound("create request: load item", err)
	}
	if item.OwnerUID == requesterID {
		return models.Request{}, ErrInvalidOperation
	}

	// The event document carries no group pointer; resolve the owning
	// group through its events back-reference.
	group, err := m.groups.GetByEvent(ctx, eventID)
	if err != nil {
		return models.Request{}, mapNotFound("create request: resolve group", err)
	}

	var req models.Request
	err = txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		var err error
		req, err = m.requests.Create(ctx, models.Request{
			ItemID:      itemID,
			OwnerID:     item.OwnerUID,
			RequesterID: requesterID,
			EventID:     eventID,
			GroupID:     group.ID,
		})
		if err != nil {
			return err
		}
		if err := m.users.AddRequestRefs(ctx, req.ID, item.OwnerUID, requesterID); err != nil {
			return err
		}
		return m.closet.SetStatus(ctx, itemID, models.ItemStatusPending, &requesterID)
	})
	if err != nil {
		return models.Request{}, persistErr("create request", err)
	}

	m.log.Info("request created",
		zap.String("request_id", req.ID.Hex()),
		zap.String("item_id", itemID.Hex()),
		zap.String("event_id", eventID.Hex()),
		zap.String("requester_id", requesterID.Hex()))
	return req, nil
}

// ApproveRequest grants a pending request.
//
// The exclusivity check is a best-effort read-then-write: any other
// approved request for the same (item, event) pair fails the call with
// ErrAlreadyApproved and nothing is mutated. Two racing approvals can
// both pass the check before either writes; the window is accepted and
// matches the behavior callers already rely on.
func (m *Manager) ApproveRequest(ctx context.Context, requestID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	req, err := m.requests.GetByID(ctx, requestID)
	if err != nil {
		return mapNotFound("approve request: load", err)
	}

	approved, err := m.requests.FindApproved(ctx, req.ItemID, req.EventID)
	if err != nil {
		return persistErr("approve request: exclusivity check", err)
	}
	for _, other := range approved {
		if other.ID != requestID {
			return ErrAlreadyApproved
		}
	}

	if err := m.requests.UpdateStatus(ctx, requestID, models.RequestStatusApproved); err != nil {
		return persistErr("approve request: update", err)
	}

	m.log.Info("request approved",
		zap.String("request_id", requestID.Hex()),
		zap.String("item_id", req.ItemID.Hex()),
		zap.String("event_id", req.EventID.Hex()))
	return nil
}

// DenyRequest marks the request denied. Denial is terminal; the only
// exit from any state is cancellation, which deletes the record.
func (m *Manager) DenyRequest(ctx context.Context, requestID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	if _, err := m.requests.GetByID(ctx, requestID); err != nil {
		return mapNotFound("deny request: load", err)
	}
	if err := m.requests.UpdateStatus(ctx, requestID, models.RequestStatusDenied); err != nil {
		return persistErr("deny request", err)
	}
	m.log.Info("request denied", zap.String("request_id", requestID.Hex()))
	return nil
}

// CancelRequest unwinds a request completely: the record is deleted,
// its ID is pulled from both users' arrays, and the item returns to
// available with requestedBy cleared. All sub-writes are one atomic
// batch, so create-then-cancel restores the pre-creation state.
func (m *Manager) CancelRequest(ctx context.Context, requestID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	req, err := m.requests.GetByID(ctx, requestID)
	if err != nil {
		return mapNotFound("cancel request: load", err)
	}

	err = txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		if err := m.requests.Delete(ctx, requestID); err != nil {
			return err
		}
		if err := m.users.RemoveRequestRefs(ctx, requestID, req.OwnerID, req.RequesterID); err != nil {
			return err
		}
		return m.closet.SetStatus(ctx, req.ItemID, models.ItemStatusAvailable, nil)
	})
	if err != nil {
		return persistErr("cancel request", err)
	}

	m.log.Info("request cancelled",
		zap.String("request_id", requestID.Hex()),
		zap.String("item_id", req.ItemID.Hex()))
	return nil
}

// MarkRequestSeen clears the new-request marker on the owner's side.
func (m *Manager) MarkRequestSeen(ctx context.Context, requestID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	req, err := m.requests.GetByID(ctx, requestID)
	if err != nil {
		return mapNotFound("mark request seen: load", err)
	}
	if err := m.users.ClearNewRequest(ctx, req.OwnerID, requestID); err != nil {
		return persistErr("mark request seen", err)
	}
	return nil
}

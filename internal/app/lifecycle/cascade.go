// internal/app/lifecycle/cascade.go
//
// Membership and group cascade cleanup. The per-event branches fan out
// concurrently and are joined before the operation reports; there is no
// global transaction across a cascade, so a failed branch leaves its
// siblings' work in place and the caller retries the whole operation
// (every branch edit is idempotent).
package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/fittedapp/fitted/internal/app/system/txn"
	"github.com/fittedapp/fitted/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RemoveMember takes a member out of a group and unwinds everything the
// membership implied: the two membership array entries, the member's
// items staged on the group's events, and any request on those events
// where the member is owner or requester.
//
// The membership pull is atomic. Event cleanup then fans out per event;
// branch failures are logged, aggregated, and fail the overall call
// after every branch has finished.
func (m *Manager) RemoveMember(ctx context.Context, groupID, memberUID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	group, err := m.groups.GetByID(ctx, groupID)
	if err != nil {
		return mapNotFound("remove member: load group", err)
	}

	err = txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		if err := m.groups.RemoveMember(ctx, groupID, memberUID); err != nil {
			return err
		}
		return m.users.RemoveJoinedGroup(ctx, memberUID, groupID)
	})
	if err != nil {
		return persistErr("remove member", err)
	}

	if errs := m.cleanEvents(ctx, group.EventIDs, memberUID); len(errs) > 0 {
		return persistErr("remove member: event cleanup", joinErrs(errs))
	}

	m.log.Info("member removed",
		zap.String("group_id", groupID.Hex()),
		zap.String("member_id", memberUID.Hex()),
		zap.Int("events_cleaned", len(group.EventIDs)))
	return nil
}

// cleanEvents runs the per-event cleanup branches for one departing
// member and returns every branch failure. The join barrier always
// fires: all branches run to completion regardless of sibling failures.
func (m *Manager) cleanEvents(ctx context.Context, eventIDs []primitive.ObjectID, memberUID primitive.ObjectID) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, eventID := range eventIDs {
		wg.Add(1)
		go func(eventID primitive.ObjectID) {
			defer wg.Done()
			if err := m.cleanEvent(ctx, eventID, memberUID); err != nil {
				m.log.Error("event cleanup branch failed",
					zap.String("event_id", eventID.Hex()),
					zap.String("member_id", memberUID.Hex()),
					zap.Error(err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(eventID)
	}
	wg.Wait()
	return errs
}

// cleanEvent unstages the member's items from one event and deletes the
// member's requests on it. Items themselves are not deleted; a member's
// closet outlives their group membership.
func (m *Manager) cleanEvent(ctx context.Context, eventID, memberUID primitive.ObjectID) error {
	event, err := m.events.GetByID(ctx, eventID)
	if err != nil {
		// A concurrently deleted event has nothing left to clean.
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return err
	}

	items, err := m.closet.GetByIDs(ctx, event.ItemIDs)
	if err != nil {
		return err
	}
	var owned []primitive.ObjectID
	for _, it := range items {
		if it.OwnerUID == memberUID {
			owned = append(owned, it.ID)
		}
	}
	if err := m.events.UnstageItems(ctx, eventID, owned); err != nil {
		return err
	}

	reqs, err := m.requests.FindByEventAndParticipant(ctx, eventID, memberUID)
	if err != nil {
		return err
	}
	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	if _, err := m.requests.DeleteMany(ctx, ids); err != nil {
		return err
	}
	for _, r := range reqs {
		if err := m.users.RemoveRequestRefs(ctx, r.ID, r.OwnerID, r.RequesterID); err != nil {
			return err
		}
		if r.Status != models.RequestStatusDenied {
			if err := m.closet.SetStatus(ctx, r.ItemID, models.ItemStatusAvailable, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteGroup removes a group and every reference to it: membership
// entries on every member (plus the owner's owned_groups entry),
// requests on its events, the event documents, and finally the group
// document. The document delete only runs after the reference cleanup
// succeeded, so a failure never orphans back-references. The image blob
// delete is best-effort and logged.
func (m *Manager) DeleteGroup(ctx context.Context, groupID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	group, err := m.groups.GetByID(ctx, groupID)
	if err != nil {
		return mapNotFound("delete group: load", err)
	}

	var errs []error
	if err := m.users.PullJoinedGroupMany(ctx, group.MemberUIDs, groupID); err != nil {
		errs = append(errs, err)
	}
	if err := m.users.RemoveOwnedGroup(ctx, group.OwnerUID, groupID); err != nil {
		errs = append(errs, err)
	}

	// Per-event request deletion fans out; branches are independent and
	// all run before we look at the failures.
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, eventID := range group.EventIDs {
		wg.Add(1)
		go func(eventID primitive.ObjectID) {
			defer wg.Done()
			if _, err := m.requests.DeleteByEvent(ctx, eventID); err != nil {
				m.log.Error("request cleanup branch failed",
					zap.String("group_id", groupID.Hex()),
					zap.String("event_id", eventID.Hex()),
					zap.Error(err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(eventID)
	}
	wg.Wait()

	if len(errs) > 0 {
		return persistErr("delete group: cleanup", joinErrs(errs))
	}

	if _, err := m.events.DeleteMany(ctx, group.EventIDs); err != nil {
		return persistErr("delete group: events", err)
	}

	if group.HasImage() && m.files != nil {
		if err := m.files.Delete(ctx, group.ImagePath); err != nil {
			m.log.Warn("group image delete failed",
				zap.String("group_id", groupID.Hex()),
				zap.String("path", group.ImagePath),
				zap.Error(err))
		}
	}

	if err := m.groups.Delete(ctx, groupID); err != nil {
		return persistErr("delete group", err)
	}

	m.log.Info("group deleted",
		zap.String("group_id", groupID.Hex()),
		zap.Int("members", len(group.MemberUIDs)),
		zap.Int("events", len(group.EventIDs)))
	return nil
}

func joinErrs(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return errors.New(strings.Join(parts, "; "))
}

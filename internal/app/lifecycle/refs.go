// internal/app/lifecycle/refs.go
//
// Creation and deletion paths that install back-references. Kept here
// with the cascade code so every reference has exactly one site that
// creates it and one that unwinds it.
package lifecycle

import (
	"context"

	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/fittedapp/fitted/internal/app/system/txn"
	"github.com/fittedapp/fitted/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateGroup inserts the group and records it on the owner's
// owned_groups and joined_groups in one atomic batch. The owner is
// seeded into the member array by the store.
func (m *Manager) CreateGroup(ctx context.Context, g models.Group) (models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	var created models.Group
	err := txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		var err error
		created, err = m.groups.Create(ctx, g)
		if err != nil {
			return err
		}
		if err := m.users.AddOwnedGroup(ctx, g.OwnerUID, created.ID); err != nil {
			return err
		}
		return m.users.AddJoinedGroup(ctx, g.OwnerUID, created.ID)
	})
	if err != nil {
		return models.Group{}, persistErr("create group", err)
	}

	m.log.Info("group created",
		zap.String("group_id", created.ID.Hex()),
		zap.String("owner_id", g.OwnerUID.Hex()))
	return created, nil
}

// CreateEvent inserts the event and links it into the group's events
// array atomically.
func (m *Manager) CreateEvent(ctx context.Context, groupID primitive.ObjectID, e models.Event) (models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if _, err := m.groups.GetByID(ctx, groupID); err != nil {
		return models.Event{}, mapNotFound("create event: load group", err)
	}

	var created models.Event
	err := txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		var err error
		created, err = m.events.Create(ctx, e)
		if err != nil {
			return err
		}
		return m.groups.AddEvent(ctx, groupID, created.ID)
	})
	if err != nil {
		return models.Event{}, persistErr("create event", err)
	}

	m.log.Info("event created",
		zap.String("event_id", created.ID.Hex()),
		zap.String("group_id", groupID.Hex()))
	return created, nil
}

// AddClosetItem inserts the item and records it on the owner's
// my_closet atomically.
func (m *Manager) AddClosetItem(ctx context.Context, it models.ClosetItem) (models.ClosetItem, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	var created models.ClosetItem
	err := txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		var err error
		created, err = m.closet.Create(ctx, it)
		if err != nil {
			return err
		}
		return m.users.AddClosetItem(ctx, it.OwnerUID, created.ID)
	})
	if err != nil {
		return models.ClosetItem{}, persistErr("add closet item", err)
	}
	return created, nil
}

// RemoveClosetItem deletes the item, pulls it from the owner's closet,
// unstages it from every event, and deletes any request referencing it.
// The image blob delete is best-effort.
func (m *Manager) RemoveClosetItem(ctx context.Context, itemID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	item, err := m.closet.GetByID(ctx, itemID)
	if err != nil {
		return mapNotFound("remove closet item: load", err)
	}

	err = txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		if err := m.closet.Delete(ctx, itemID); err != nil {
			return err
		}
		if err := m.users.RemoveClosetItem(ctx, item.OwnerUID, itemID); err != nil {
			return err
		}
		return m.events.UnstageItemEverywhere(ctx, itemID)
	})
	if err != nil {
		return persistErr("remove closet item", err)
	}

	reqs, err := m.requests.FindByItem(ctx, itemID)
	if err != nil {
		return persistErr("remove closet item: requests", err)
	}
	for _, r := range reqs {
		if err := m.users.RemoveRequestRefs(ctx, r.ID, r.OwnerID, r.RequesterID); err != nil {
			return persistErr("remove closet item: request refs", err)
		}
	}
	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	if _, err := m.requests.DeleteMany(ctx, ids); err != nil {
		return persistErr("remove closet item: requests", err)
	}

	if item.ImagePath != "" && m.files != nil {
		if err := m.files.Delete(ctx, item.ImagePath); err != nil {
			m.log.Warn("item image delete failed",
				zap.String("item_id", itemID.Hex()),
				zap.String("path", item.ImagePath),
				zap.Error(err))
		}
	}

	m.log.Info("closet item removed", zap.String("item_id", itemID.Hex()))
	return nil
}

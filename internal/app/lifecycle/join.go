// internal/app/lifecycle/join.go
package lifecycle

import (
	"context"

	"github.com/fittedapp/fitted/internal/app/system/timeouts"
	"github.com/fittedapp/fitted/internal/app/system/txn"
	"github.com/fittedapp/fitted/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// JoinGroup resolves a human-entered join code and passcode to a group
// and registers membership on both sides.
//
// Codes are expected unique but not enforced; the first match wins.
// An empty stored passcode means the group is open. Both membership
// edits use set semantics, so repeat joins are idempotent.
func (m *Manager) JoinGroup(ctx context.Context, code, passcode string, userID primitive.ObjectID) (models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	group, err := m.groups.GetByCode(ctx, code)
	if err != nil {
		return models.Group{}, mapNotFound("join group: lookup", err)
	}
	if group.Passcode != "" && group.Passcode != passcode {
		return models.Group{}, ErrWrongPassword
	}

	err = txn.Run(ctx, m.db, m.log, func(ctx context.Context) error {
		if err := m.groups.AddMember(ctx, group.ID, userID); err != nil {
			return err
		}
		return m.users.AddJoinedGroup(ctx, userID, group.ID)
	})
	if err != nil {
		return models.Group{}, persistErr("join group", err)
	}

	m.log.Info("member joined group",
		zap.String("group_id", group.ID.Hex()),
		zap.String("user_id", userID.Hex()))
	return group, nil
}

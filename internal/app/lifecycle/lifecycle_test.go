package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fittedapp/fitted/internal/app/lifecycle"
	closetstore "github.com/fittedapp/fitted/internal/app/store/closet"
	eventstore "github.com/fittedapp/fitted/internal/app/store/events"
	groupstore "github.com/fittedapp/fitted/internal/app/store/groups"
	requeststore "github.com/fittedapp/fitted/internal/app/store/requests"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/fittedapp/fitted/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newManager(t *testing.T) (*lifecycle.Manager, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	m := lifecycle.New(lifecycle.Deps{
		DB:       db,
		Users:    userstore.New(db),
		Groups:   groupstore.New(db),
		Events:   eventstore.New(db),
		Closet:   closetstore.New(db),
		Requests: requeststore.New(db),
		Log:      zap.NewNop(),
	})
	return m, testutil.NewFixtures(t, db), db
}

func countDocs(t *testing.T, ctx context.Context, db *mongo.Database, coll string, filter bson.M) int64 {
	t.Helper()
	n, err := db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("CountDocuments(%s) failed: %v", coll, err)
	}
	return n
}

func loadUser(t *testing.T, ctx context.Context, db *mongo.Database, id primitive.ObjectID) models.User {
	t.Helper()
	var u models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	return u
}

func loadItem(t *testing.T, ctx context.Context, db *mongo.Database, id primitive.ObjectID) models.ClosetItem {
	t.Helper()
	var it models.ClosetItem
	if err := db.Collection("closet_items").FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		t.Fatalf("load item failed: %v", err)
	}
	return it
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestCreateRequest_SelfRequestRejected(t *testing.T) {
	m, fx, db := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	group := fx.CreateGroup(ctx, "Besties", "BESTIES25", "", owner)
	event := fx.CreateEvent(ctx, group, "Spring Formal")
	item := fx.CreateItem(ctx, owner, "Black Dress")

	_, err := m.CreateRequest(ctx, item.ID, event.ID, owner.ID)
	if !errors.Is(err, lifecycle.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}

	if n := countDocs(t, ctx, db, "requests", bson.M{}); n != 0 {
		t.Errorf("expected no request documents, got %d", n)
	}
	if it := loadItem(t, ctx, db, item.ID); it.Status != models.ItemStatusAvailable {
		t.Errorf("expected item untouched, got status %q", it.Status)
	}
	if u := loadUser(t, ctx, db, owner.ID); len(u.IncomingRequests) != 0 || len(u.OutgoingRequests) != 0 {
		t.Error("expected owner request arrays untouched")
	}
}

func TestCreateRequest_WritesAllSides(t *testing.T) {
	m, fx, db := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	requester := fx.CreateUser(ctx, "Bea", "Borrower", "bea@test.com")
	group := fx.CreateGroup(ctx, "Besties", "BESTIES25", "", owner, requester)
	event := fx.CreateEvent(ctx, group, "Spring Formal")
	item := fx.CreateItem(ctx, owner, "Black Dress")

	req, err := m.CreateRequest(ctx, item.ID, event.ID, requester.ID)
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if req.Status != models.RequestStatusPending {
		t.Errorf("expected pending status, got %q", req.Status)
	}
	if req.GroupID != group.ID {
		t.Errorf("expected group %v resolved from event, got %v", group.ID, req.GroupID)
	}

	it := loadItem(t, ctx, db, item.ID)
	if it.Status != models.ItemStatusPending {
		t.Errorf("expected item pending, got %q", it.Status)
	}
	if it.RequestedBy == nil || *it.RequestedBy != requester.ID {
		t.Error("expected requestedBy set to requester")
	}

	ownerDoc := loadUser(t, ctx, db, owner.ID)
	if !containsID(ownerDoc.IncomingRequests, req.ID) || !containsID(ownerDoc.NewRequests, req.ID) {
		t.Error("expected request in owner's incoming and new arrays")
	}
	requesterDoc := loadUser(t, ctx, db, requester.ID)
	if !containsID(requesterDoc.OutgoingRequests, req.ID) {
		t.Error("expected request in requester's outgoing array")
	}
}

func TestApproveRequest_Exclusivity(t *testing.T) {
	m, fx, db := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	first := fx.CreateUser(ctx, "Bea", "Borrower", "bea@test.com")
	second := fx.CreateUser(ctx, "Cleo", "Borrower", "cleo@test.com")
	group := fx.CreateGroup(ctx, "Besties", "BESTIES25", "", owner, first, second)
	event := fx.CreateEvent(ctx, group, "Spring Formal")
	item := fx.CreateItem(ctx, owner, "Black Dress")

	reqA := fx.CreateRequest(ctx, item, event, group, first, models.RequestStatusPending)
	reqB := fx.CreateRequest(ctx, item, event, group, second, models.RequestStatusPending)

	if err := m.ApproveRequest(ctx, reqA.ID); err != nil {
		t.Fatalf("first approval failed: %v", err)
	}
	// Re-approving the winner is a no-op, not a conflict.
	if err := m.ApproveRequest(ctx, reqA.ID); err != nil {
		t.Fatalf("re-approving the approved request failed: %v", err)
	}

	err := m.ApproveRequest(ctx, reqB.ID)
	if !errors.Is(err, lifecycle.ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}

	if n := countDocs(t, ctx, db, "requests", bson.M{
		"itemId":  item.ID,
		"eventId": event.ID,
		"status":  models.RequestStatusApproved,
	}); n != 1 {
		t.Errorf("expected exactly one approved request, got %d", n)
	}
}

func TestDenyRequest_SetsTerminalStatus(t *testing.T) {
	m, fx, db := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	requester := fx.CreateUser(ctx, "Bea", "Borrower", "bea@test.com")
	group := fx.CreateGroup(ctx, "Besties", "BESTIES25", "", owner, requester)
	event := fx.CreateEvent(ctx, group, "Spring Formal")
	item := fx.CreateItem(ctx, owner, "Black Dress")
	req := fx.CreateRequest(ctx, item, event, group, requester, models.RequestStatusPending)

	if err := m.DenyRequest(ctx, req.ID); err != nil {
		t.Fatalf("DenyRequest failed: %v", err)
	}
	if n := countDocs(t, ctx, db, "requests", bson.M{
		"_id":    req.ID,
		"status": models.RequestStatusDenied,
	}); n != 1 {
		t.Error("expected request to be denied")
	}
}

func TestCancelRequest_RestoresPreCreationState(t *testing.T) {
	m, fx, db := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	requester := fx.CreateUser(ctx, "Bea", "Borrower", "bea@test.com")
	group := fx.CreateGroup(ctx, "Besties", "BESTIES25", "", owner, requester)
	event := fx.CreateEvent(ctx, group, "Spring Formal")
	item := fx.CreateItem(ctx, owner, "Black Dress")

	req, err := m.CreateRequest(ctx, item.ID, event.ID, requester.ID)
	if err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}
	if err := m.CancelRequest(ctx, req.ID); err != nil {
		t.Fatalf("CancelRequest failed: %v", err)
	}

	if n := countDocs(t, ctx, db, "requests", bson.M{"_id": req.ID}); n != 0 {
		t.Error("expected request document deleted")
	}

	it := loadItem(t, ctx, db, item.ID)
	if it.Status != models.ItemStatusAvailable {
		t.Errorf("expected item available again, got %q", it.Status)
	}
	if it.RequestedBy != nil {
		t.Error("expected requestedBy cleared")
	}

	ownerDoc := loadUser(t, ctx, db, owner.ID)
	if containsID(ownerDoc.IncomingRequests, req.ID) || containsID(ownerDoc.NewRequests, req.ID) {
		t.Error("expected request removed from owner's arrays")
	}
	requesterDoc := loadUser(t, ctx, db, requester.ID)
	if containsID(requesterDoc.OutgoingRequests, req.ID) {
		t.Error("expected request removed from requester's array")
	}
}

func TestJoinGroup_WrongPasscodeAndNotFound(t *testing.T) {
	m, fx, _ := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	joiner := fx.CreateUser(ctx, "Bea", "Joiner", "bea@test.com")
	fx.CreateGroup(ctx, "Besties", "BESTIES25", "secret", owner)

	if _, err := m.JoinGroup(ctx, "NOPE", "", joiner.ID); !errors.Is(err, lifecycle.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown code, got %v", err)
	}
	if _, err := m.JoinGroup(ctx, "BESTIES25", "wrong", joiner.ID); !errors.Is(err, lifecycle.ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

func TestJoinGroup_Idempotent(t *testing.T) {
	m, fx, db := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	joiner := fx.CreateUser(ctx, "Bea", "Joiner", "bea@test.com")
	group := fx.CreateGroup(ctx, "Besties", "BESTIES25", "secret", owner)

	for i := 0; i < 2; i++ {
		if _, err := m.JoinGroup(ctx, "besties25", "secret", joiner.ID); err != nil {
			t.Fatalf("JoinGroup call %d failed: %v", i+1, err)
		}
	}

	var g models.Group
	if err := db.Collection("groups").FindOne(ctx, bson.M{"_id": group.ID}).Decode(&g); err != nil {
		t.Fatalf("load group failed: %v", err)
	}
	seen := 0
	for _, uid := range g.MemberUIDs {
		if uid == joiner.ID {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("expected joiner exactly once in member list, got %d", seen)
	}

	u := loadUser(t, ctx, db, joiner.ID)
	seen = 0
	for _, gid := range u.JoinedGroups {
		if gid == group.ID {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("expected group exactly once in joined_groups, got %d", seen)
	}
}

func TestRemoveMember_CascadeCompleteness(t *testing.T) {
	m, fx, db := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	member := fx.CreateUser(ctx, "Bea", "Member", "bea@test.com")
	group := fx.CreateGroup(ctx, "Besties", "BESTIES25", "", owner, member)

	eventOne := fx.CreateEvent(ctx, group, "Spring Formal")
	eventTwo := fx.CreateEvent(ctx, group, "Gameday")

	ownerItem := fx.CreateItem(ctx, owner, "Black Dress")
	memberItem := fx.CreateItem(ctx, member, "Denim Skirt")
	fx.StageItem(ctx, eventOne, ownerItem)
	fx.StageItem(ctx, eventOne, memberItem)
	fx.StageItem(ctx, eventTwo, memberItem)

	// Member participates on both sides of requests.
	fx.CreateRequest(ctx, ownerItem, eventOne, group, member, models.RequestStatusPending)
	fx.CreateRequest(ctx, memberItem, eventTwo, group, owner, models.RequestStatusPending)

	if err := m.RemoveMember(ctx, group.ID, member.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	var g models.Group
	if err := db.Collection("groups").FindOne(ctx, bson.M{"_id": group.ID}).Decode(&g); err != nil {
		t.Fatalf("load group failed: %v", err)
	}
	if containsID(g.MemberUIDs, member.ID) {
		t.Error("expected member removed from group member list")
	}

	u := loadUser(t, ctx, db, member.ID)
	if containsID(u.JoinedGroups, group.ID) {
		t.Error("expected group removed from member's joined_groups")
	}
	// Items outlive membership; only the staging links go.
	if !containsID(u.MyCloset, memberItem.ID) {
		t.Error("expected member's closet item to survive removal")
	}

	for _, evID := range []primitive.ObjectID{eventOne.ID, eventTwo.ID} {
		var e models.Event
		if err := db.Collection("events").FindOne(ctx, bson.M{"_id": evID}).Decode(&e); err != nil {
			t.Fatalf("load event failed: %v", err)
		}
		if containsID(e.ItemIDs, memberItem.ID) {
			t.Errorf("expected member's item unstaged from event %v", evID)
		}
	}
	var eOne models.Event
	if err := db.Collection("events").FindOne(ctx, bson.M{"_id": eventOne.ID}).Decode(&eOne); err != nil {
		t.Fatalf("load event failed: %v", err)
	}
	if !containsID(eOne.ItemIDs, ownerItem.ID) {
		t.Error("expected owner's item to stay staged")
	}

	if n := countDocs(t, ctx, db, "requests", bson.M{"$or": []bson.M{
		{"ownerId": member.ID},
		{"requesterId": member.ID},
	}}); n != 0 {
		t.Errorf("expected no requests left involving the member, got %d", n)
	}
}

func TestDeleteGroup_NoDanglingReferences(t *testing.T) {
	m, fx, db := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	member := fx.CreateUser(ctx, "Bea", "Member", "bea@test.com")
	group := fx.CreateGroup(ctx, "Besties", "BESTIES25", "", owner, member)
	event := fx.CreateEvent(ctx, group, "Spring Formal")
	item := fx.CreateItem(ctx, owner, "Black Dress")
	fx.CreateRequest(ctx, item, event, group, member, models.RequestStatusPending)

	if err := m.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	if n := countDocs(t, ctx, db, "groups", bson.M{"_id": group.ID}); n != 0 {
		t.Error("expected group document deleted")
	}
	if n := countDocs(t, ctx, db, "events", bson.M{"_id": event.ID}); n != 0 {
		t.Error("expected event document deleted")
	}
	if n := countDocs(t, ctx, db, "requests", bson.M{"eventId": event.ID}); n != 0 {
		t.Error("expected requests for the group's events deleted")
	}

	for _, uid := range []primitive.ObjectID{owner.ID, member.ID} {
		u := loadUser(t, ctx, db, uid)
		if containsID(u.JoinedGroups, group.ID) || containsID(u.OwnedGroups, group.ID) {
			t.Errorf("expected no group reference left on user %v", uid)
		}
	}
}

func TestRemoveMember_UnknownGroup(t *testing.T) {
	m, _, _ := newManager(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := m.RemoveMember(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, lifecycle.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

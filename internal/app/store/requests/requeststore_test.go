package requeststore_test

import (
	"testing"

	requeststore "github.com/fittedapp/fitted/internal/app/store/requests"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/fittedapp/fitted/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_DefaultsPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r, err := store.Create(ctx, models.Request{
		ItemID:      primitive.NewObjectID(),
		OwnerID:     primitive.NewObjectID(),
		RequesterID: primitive.NewObjectID(),
		EventID:     primitive.NewObjectID(),
		GroupID:     primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r.ID.IsZero() {
		t.Fatal("expected ID assigned")
	}
	if r.Status != models.RequestStatusPending {
		t.Errorf("expected pending, got %q", r.Status)
	}
	if r.CreatedAt.IsZero() {
		t.Error("expected createdAt set")
	}
}

func TestFindApproved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	a := fx.CreateUser(ctx, "Bea", "B", "bea@test.com")
	b := fx.CreateUser(ctx, "Cleo", "C", "cleo@test.com")
	group := fx.CreateGroup(ctx, "G", "CODE", "", owner, a, b)
	event := fx.CreateEvent(ctx, group, "Formal")
	item := fx.CreateItem(ctx, owner, "Dress")

	approved := fx.CreateRequest(ctx, item, event, group, a, models.RequestStatusApproved)
	fx.CreateRequest(ctx, item, event, group, b, models.RequestStatusPending)

	got, err := store.FindApproved(ctx, item.ID, event.ID)
	if err != nil {
		t.Fatalf("FindApproved failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != approved.ID {
		t.Fatalf("expected only the approved request, got %d results", len(got))
	}
}

func TestFindByEventAndParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	member := fx.CreateUser(ctx, "Bea", "B", "bea@test.com")
	other := fx.CreateUser(ctx, "Cleo", "C", "cleo@test.com")
	group := fx.CreateGroup(ctx, "G", "CODE", "", owner, member, other)
	event := fx.CreateEvent(ctx, group, "Formal")

	ownerItem := fx.CreateItem(ctx, owner, "Dress")
	memberItem := fx.CreateItem(ctx, member, "Skirt")

	asRequester := fx.CreateRequest(ctx, ownerItem, event, group, member, models.RequestStatusPending)
	asOwner := fx.CreateRequest(ctx, memberItem, event, group, other, models.RequestStatusPending)
	fx.CreateRequest(ctx, ownerItem, event, group, other, models.RequestStatusPending)

	got, err := store.FindByEventAndParticipant(ctx, event.ID, member.ID)
	if err != nil {
		t.Fatalf("FindByEventAndParticipant failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 requests involving the member, got %d", len(got))
	}
	found := map[primitive.ObjectID]bool{}
	for _, r := range got {
		found[r.ID] = true
	}
	if !found[asRequester.ID] || !found[asOwner.ID] {
		t.Error("expected both sides of the member's participation")
	}
}

func TestDeleteByEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	member := fx.CreateUser(ctx, "Bea", "B", "bea@test.com")
	group := fx.CreateGroup(ctx, "G", "CODE", "", owner, member)
	eventA := fx.CreateEvent(ctx, group, "Formal")
	eventB := fx.CreateEvent(ctx, group, "Gameday")
	item := fx.CreateItem(ctx, owner, "Dress")

	fx.CreateRequest(ctx, item, eventA, group, member, models.RequestStatusPending)
	keep := fx.CreateRequest(ctx, item, eventB, group, member, models.RequestStatusPending)

	n, err := store.DeleteByEvent(ctx, eventA.ID)
	if err != nil {
		t.Fatalf("DeleteByEvent failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deletion, got %d", n)
	}
	if _, err := store.GetByID(ctx, keep.ID); err != nil {
		t.Errorf("expected other event's request untouched: %v", err)
	}
}

package groupstore_test

import (
	"testing"

	groupstore "github.com/fittedapp/fitted/internal/app/store/groups"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/fittedapp/fitted/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_SeedsOwnerAsMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	g, err := store.Create(ctx, models.Group{
		Code:     "Besties25",
		Name:     "Besties",
		OwnerUID: owner,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.CodeCI != "besties25" {
		t.Errorf("expected folded code, got %q", g.CodeCI)
	}
	if len(g.MemberUIDs) != 1 || g.MemberUIDs[0] != owner {
		t.Errorf("expected owner seeded as sole member, got %v", g.MemberUIDs)
	}
}

func TestGetByCode_CaseInsensitiveFirstMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Create(ctx, models.Group{
		Code:     "GAMEDAY",
		Name:     "First",
		OwnerUID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Group{
		Code:     "gameday",
		Name:     "Second",
		OwnerUID: primitive.NewObjectID(),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Codes are not unique; the oldest group wins the lookup.
	got, err := store.GetByCode(ctx, "GameDay")
	if err != nil {
		t.Fatalf("GetByCode failed: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("expected oldest group %v, got %v", first.ID, got.ID)
	}
}

func TestGetByEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	group := fx.CreateGroup(ctx, "Besties", "BESTIES25", "", owner)
	event := fx.CreateEvent(ctx, group, "Spring Formal")

	got, err := store.GetByEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetByEvent failed: %v", err)
	}
	if got.ID != group.ID {
		t.Errorf("expected group %v, got %v", group.ID, got.ID)
	}
}

func TestAddRemoveMember_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := store.Create(ctx, models.Group{
		Code:     "C1",
		Name:     "G",
		OwnerUID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	uid := primitive.NewObjectID()
	for i := 0; i < 2; i++ {
		if err := store.AddMember(ctx, g.ID, uid); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}
	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.MemberUIDs) != 2 {
		t.Errorf("expected 2 members after repeated add, got %d", len(got.MemberUIDs))
	}

	if err := store.RemoveMember(ctx, g.ID, uid); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	got, err = store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.MemberUIDs) != 1 {
		t.Errorf("expected only the owner left, got %d members", len(got.MemberUIDs))
	}
}

func TestUpdateInfo_PasscodeClearable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := store.Create(ctx, models.Group{
		Code:     "C1",
		Name:     "G",
		Passcode: "secret",
		OwnerUID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Nil passcode leaves it alone.
	if err := store.UpdateInfo(ctx, g.ID, groupstore.InfoUpdate{Name: "Renamed"}); err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}
	got, _ := store.GetByID(ctx, g.ID)
	if got.Name != "Renamed" || got.Passcode != "secret" {
		t.Errorf("expected rename with passcode intact, got %q / %q", got.Name, got.Passcode)
	}

	// Empty string clears it, making the group open-join.
	empty := ""
	if err := store.UpdateInfo(ctx, g.ID, groupstore.InfoUpdate{Passcode: &empty}); err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}
	got, _ = store.GetByID(ctx, g.ID)
	if got.Passcode != "" {
		t.Errorf("expected passcode cleared, got %q", got.Passcode)
	}
}

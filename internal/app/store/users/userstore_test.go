package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"github.com/fittedapp/fitted/internal/app/system/indexes"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/fittedapp/fitted/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_AndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FirstName: "Ava",
		LastName:  "Li",
		Username:  "AvaL",
		Email:     "Ava@Example.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("expected ID assigned")
	}
	if created.EmailCI != "ava@example.com" {
		t.Errorf("expected folded email_ci, got %q", created.EmailCI)
	}

	// Lookup is case-insensitive.
	got, err := store.GetByEmail(ctx, "AVA@example.COM")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected user %v, got %v", created.ID, got.ID)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	u := models.User{FirstName: "Ava", Username: "ava", Email: "ava@example.com"}
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	u.Username = "ava2"
	_, err := store.Create(ctx, u)
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestGetByIDs_ChunksLargeSets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var ids []primitive.ObjectID
	for i := 0; i < 25; i++ {
		u := fx.CreateUser(ctx, "User", "N", primitive.NewObjectID().Hex()+"@example.com")
		ids = append(ids, u.ID)
	}

	got, err := store.GetByIDs(ctx, ids)
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 25 {
		t.Errorf("expected 25 users, got %d", len(got))
	}
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ava", "Li", "ava@example.com")

	if err := store.UpdateProfile(ctx, u.ID, userstore.ProfileUpdate{
		Venmo:           "@ava-li",
		NotificationsOn: false,
	}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Venmo != "@ava-li" {
		t.Errorf("expected venmo set, got %q", got.Venmo)
	}
	if got.NotificationsOn {
		t.Error("expected notifications off")
	}
	// Untouched fields survive a partial update.
	if got.FirstName != "Ava" {
		t.Errorf("expected first name unchanged, got %q", got.FirstName)
	}
}

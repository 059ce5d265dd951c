package requests_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	requestsfeature "github.com/fittedapp/fitted/internal/app/features/requests"
	"github.com/fittedapp/fitted/internal/app/lifecycle"
	closetstore "github.com/fittedapp/fitted/internal/app/store/closet"
	eventstore "github.com/fittedapp/fitted/internal/app/store/events"
	groupstore "github.com/fittedapp/fitted/internal/app/store/groups"
	requeststore "github.com/fittedapp/fitted/internal/app/store/requests"
	userstore "github.com/fittedapp/fitted/internal/app/store/users"
	"github.com/fittedapp/fitted/internal/app/system/auth"
	"github.com/fittedapp/fitted/internal/domain/models"
	"github.com/fittedapp/fitted/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*requestsfeature.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	reqs := requeststore.New(db)
	closet := closetstore.New(db)
	users := userstore.New(db)
	lc := lifecycle.New(lifecycle.Deps{
		DB:       db,
		Users:    users,
		Groups:   groupstore.New(db),
		Events:   eventstore.New(db),
		Closet:   closet,
		Requests: reqs,
		Log:      zap.NewNop(),
	})
	h := requestsfeature.NewHandler(lc, reqs, closet, users, zap.NewNop())
	return h, testutil.NewFixtures(t, db), db
}

func asUser(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName(),
		Username: u.Username,
		Email:    u.Email,
	})
}

func createBody(t *testing.T, itemID, eventID string) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(map[string]string{"item_id": itemID, "event_id": eventID})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewBuffer(b)
}

func TestHandleCreate_RequiresAuth(t *testing.T) {
	h, _, _ := newHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/requests", createBody(t, "x", "y"))
	w := httptest.NewRecorder()
	h.HandleCreate(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestHandleCreate_SelfRequestRejected(t *testing.T) {
	h, fx, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	group := fx.CreateGroup(ctx, "G", "CODE", "", owner)
	event := fx.CreateEvent(ctx, group, "Formal")
	item := fx.CreateItem(ctx, owner, "Dress")

	r := httptest.NewRequest(http.MethodPost, "/requests",
		createBody(t, item.ID.Hex(), event.ID.Hex()))
	r = asUser(r, owner)
	w := httptest.NewRecorder()
	h.HandleCreate(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-request, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleCreate_Success(t *testing.T) {
	h, fx, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	requester := fx.CreateUser(ctx, "Bea", "B", "bea@test.com")
	group := fx.CreateGroup(ctx, "G", "CODE", "", owner, requester)
	event := fx.CreateEvent(ctx, group, "Formal")
	item := fx.CreateItem(ctx, owner, "Dress")

	r := httptest.NewRequest(http.MethodPost, "/requests",
		createBody(t, item.ID.Hex(), event.ID.Hex()))
	r = asUser(r, requester)
	w := httptest.NewRecorder()
	h.HandleCreate(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var got models.Request
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != models.RequestStatusPending {
		t.Errorf("expected pending request, got %q", got.Status)
	}
	if got.RequesterID != requester.ID || got.OwnerID != owner.ID {
		t.Error("expected participant IDs filled in")
	}
}

func TestHandleApprove_NonOwnerForbidden(t *testing.T) {
	h, fx, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	requester := fx.CreateUser(ctx, "Bea", "B", "bea@test.com")
	group := fx.CreateGroup(ctx, "G", "CODE", "", owner, requester)
	event := fx.CreateEvent(ctx, group, "Formal")
	item := fx.CreateItem(ctx, owner, "Dress")
	req := fx.CreateRequest(ctx, item, event, group, requester, models.RequestStatusPending)

	r := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/requests/%s/approve", req.ID.Hex()), nil)
	r = testutil.WithChiURLParam(asUser(r, requester), "id", req.ID.Hex())
	w := httptest.NewRecorder()
	h.HandleApprove(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", w.Code)
	}
}

func TestHandleApprove_ConflictWhenAnotherApproved(t *testing.T) {
	h, fx, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	first := fx.CreateUser(ctx, "Bea", "B", "bea@test.com")
	second := fx.CreateUser(ctx, "Cleo", "C", "cleo@test.com")
	group := fx.CreateGroup(ctx, "G", "CODE", "", owner, first, second)
	event := fx.CreateEvent(ctx, group, "Formal")
	item := fx.CreateItem(ctx, owner, "Dress")

	fx.CreateRequest(ctx, item, event, group, first, models.RequestStatusApproved)
	loser := fx.CreateRequest(ctx, item, event, group, second, models.RequestStatusPending)

	r := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/requests/%s/approve", loser.ID.Hex()), nil)
	r = testutil.WithChiURLParam(asUser(r, owner), "id", loser.ID.Hex())
	w := httptest.NewRecorder()
	h.HandleApprove(w, r)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleCancel_ByRequester(t *testing.T) {
	h, fx, db := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	requester := fx.CreateUser(ctx, "Bea", "B", "bea@test.com")
	group := fx.CreateGroup(ctx, "G", "CODE", "", owner, requester)
	event := fx.CreateEvent(ctx, group, "Formal")
	item := fx.CreateItem(ctx, owner, "Dress")
	req := fx.CreateRequest(ctx, item, event, group, requester, models.RequestStatusPending)

	r := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/requests/%s", req.ID.Hex()), nil)
	r = testutil.WithChiURLParam(asUser(r, requester), "id", req.ID.Hex())
	w := httptest.NewRecorder()
	h.HandleCancel(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	n, err := db.Collection("requests").CountDocuments(ctx, bson.M{"_id": req.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 0 {
		t.Error("expected request deleted after cancellation")
	}
}

func TestServeIncoming_JoinsItemAndUsernames(t *testing.T) {
	h, fx, _ := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ava", "Owner", "ava@test.com")
	requester := fx.CreateUser(ctx, "Bea", "B", "bea@test.com")
	group := fx.CreateGroup(ctx, "G", "CODE", "", owner, requester)
	event := fx.CreateEvent(ctx, group, "Formal")
	item := fx.CreateItem(ctx, owner, "Dress")
	fx.CreateRequest(ctx, item, event, group, requester, models.RequestStatusPending)

	r := httptest.NewRequest(http.MethodGet, "/requests/incoming", nil)
	r = asUser(r, owner)
	w := httptest.NewRecorder()
	h.ServeIncoming(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var views []struct {
		ItemName          string `json:"item_name"`
		RequesterUsername string `json:"requester_username"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 incoming request, got %d", len(views))
	}
	if views[0].ItemName != "Dress" || views[0].RequesterUsername != requester.Username {
		t.Errorf("expected joined view, got %+v", views[0])
	}
}

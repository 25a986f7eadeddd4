package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/membergate/membergate/internal/app/store/users"
	"github.com/membergate/membergate/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndLookups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx := testutil.TestContext()

	groupID := primitive.NewObjectID()
	u, err := store.Create(ctx, "JaneDoe", "Jane@Example.COM", groupID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "jane@example.com" {
		t.Errorf("Email = %q, want lowercased", u.Email)
	}
	if u.Status != "pending" {
		t.Errorf("Status = %q, want pending", u.Status)
	}
	if u.RequestedGroupID == nil || *u.RequestedGroupID != groupID {
		t.Errorf("RequestedGroupID = %v, want %v", u.RequestedGroupID, groupID)
	}

	// Username lookup is case-insensitive.
	got, err := store.GetByUsername(ctx, "janedoe")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != u.ID {
		t.Error("GetByUsername returned wrong user")
	}

	exists, err := store.UsernameExists(ctx, "JANEDOE")
	if err != nil {
		t.Fatalf("UsernameExists: %v", err)
	}
	if !exists {
		t.Error("UsernameExists = false for existing username")
	}

	registered, err := store.EmailRegistered(ctx, "JANE@example.com")
	if err != nil {
		t.Fatalf("EmailRegistered: %v", err)
	}
	if !registered {
		t.Error("EmailRegistered = false for existing email")
	}
}

func TestCreate_DuplicateSentinels(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx := testutil.TestContext()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	if _, err := store.Create(ctx, "first", "first@example.com", primitive.NewObjectID()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Same email, different username: the email index trips.
	_, err := store.Create(ctx, "second", "first@example.com", primitive.NewObjectID())
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("duplicate email: err = %v, want ErrDuplicateEmail", err)
	}

	// Same username, different email: the username index trips.
	_, err = store.Create(ctx, "FIRST", "other@example.com", primitive.NewObjectID())
	if !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Errorf("duplicate username: err = %v, want ErrDuplicateUsername", err)
	}
}

func TestGetByID_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx := testutil.TestContext()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConsumeRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx := testutil.TestContext()

	groupID := primitive.NewObjectID()
	u, err := store.Create(ctx, "pendinguser", "pending@example.com", groupID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.ConsumeRequest(ctx, u.ID, groupID); err != nil {
		t.Fatalf("ConsumeRequest: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != "active" {
		t.Errorf("Status = %q, want active", got.Status)
	}
	if got.RequestedGroupID != nil {
		t.Error("RequestedGroupID still set after consume")
	}
	found := false
	for _, id := range got.GroupIDs {
		if id == groupID {
			found = true
		}
	}
	if !found {
		t.Error("group missing from GroupIDs after consume")
	}
}

func TestFetcher_DisabledUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx := testutil.TestContext()

	u, err := store.Create(ctx, "gone", "gone@example.com", primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SetUserStatus(t, db, u.ID, "disabled")

	f := &userstore.Fetcher{Store: store}
	su, err := f.FetchSessionUser(ctx, u.ID.Hex())
	if err != nil {
		t.Fatalf("FetchSessionUser: %v", err)
	}
	if su != nil {
		t.Errorf("disabled user resolved to session user %+v", su)
	}
}

func TestFetcher_BadID(t *testing.T) {
	f := &userstore.Fetcher{Store: nil}
	su, err := f.FetchSessionUser(testutil.TestContext(), "not-a-hex-id")
	if err != nil {
		t.Fatalf("FetchSessionUser: %v", err)
	}
	if su != nil {
		t.Errorf("malformed ID resolved to session user %+v", su)
	}
}

package membershipstore_test

import (
	"errors"
	"testing"
	"time"

	membershipstore "github.com/membergate/membergate/internal/app/store/memberships"
	"github.com/membergate/membergate/internal/domain/models"
	"github.com/membergate/membergate/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestCreatePending_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx := testutil.TestContext()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	if _, err := store.CreatePending(ctx, userID, groupID); err != nil {
		t.Fatalf("CreatePending: %v", err)
	}
	_, err := store.CreatePending(ctx, userID, groupID)
	if !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		t.Errorf("expected ErrDuplicateMembership, got %v", err)
	}
}

func TestApprove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx := testutil.TestContext()

	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()
	now := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	if _, err := store.CreatePending(ctx, userID, groupID); err != nil {
		t.Fatalf("CreatePending: %v", err)
	}

	ok, err := store.Approve(ctx, userID, groupID, now, 30)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !ok {
		t.Fatal("Approve returned false for pending membership")
	}

	m, err := store.Get(ctx, userID, groupID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m == nil {
		t.Fatal("membership missing after approval")
	}
	if m.Status != models.MembershipConfirmed {
		t.Errorf("Status = %q, want confirmed", m.Status)
	}
	if m.JoinDate == nil || !m.JoinDate.Equal(now) {
		t.Errorf("JoinDate = %v, want %v", m.JoinDate, now)
	}
	wantExp := now.AddDate(0, 0, 30)
	if m.ExpirationDate == nil || !m.ExpirationDate.Equal(wantExp) {
		t.Errorf("ExpirationDate = %v, want %v", m.ExpirationDate, wantExp)
	}

	// Approving again is a no-op, not an error.
	ok, err = store.Approve(ctx, userID, groupID, now.Add(time.Hour), 30)
	if err != nil {
		t.Fatalf("Approve (repeat): %v", err)
	}
	if ok {
		t.Error("repeat approval reported a change")
	}
}

func TestApprove_DefaultValidity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx := testutil.TestContext()

	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := store.CreatePending(ctx, userID, groupID); err != nil {
		t.Fatalf("CreatePending: %v", err)
	}
	if _, err := store.Approve(ctx, userID, groupID, now, 0); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	m, err := store.Get(ctx, userID, groupID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	wantExp := now.AddDate(0, 0, models.DefaultValidityDays)
	if m.ExpirationDate == nil || !m.ExpirationDate.Equal(wantExp) {
		t.Errorf("ExpirationDate = %v, want %v", m.ExpirationDate, wantExp)
	}
}

func TestExpireDue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx := testutil.TestContext()
	logger := zap.NewNop()

	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()
	testutil.CreateMember(t, db, userID, groupID)

	joined := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	expires := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	testutil.CreateConfirmedMembership(t, db, userID, groupID, joined, expires)

	// On the expiration day itself the membership survives.
	n, err := store.ExpireDue(ctx, time.Date(2026, 2, 1, 23, 0, 0, 0, time.UTC), logger)
	if err != nil {
		t.Fatalf("ExpireDue: %v", err)
	}
	if n != 0 {
		t.Errorf("expired %d memberships on expiration day, want 0", n)
	}

	// The next day it expires and the user's group grant is removed.
	n, err = store.ExpireDue(ctx, time.Date(2026, 2, 2, 0, 30, 0, 0, time.UTC), logger)
	if err != nil {
		t.Fatalf("ExpireDue: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired %d memberships, want 1", n)
	}

	m, err := store.Get(ctx, userID, groupID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Status != models.MembershipExpired {
		t.Errorf("Status = %q, want expired", m.Status)
	}
	if testutil.UserHasGroup(t, db, userID, groupID) {
		t.Error("user still holds expired group in group_ids")
	}

	// A second sweep over the same day changes nothing.
	n, err = store.ExpireDue(ctx, time.Date(2026, 2, 2, 6, 0, 0, 0, time.UTC), logger)
	if err != nil {
		t.Fatalf("ExpireDue (repeat): %v", err)
	}
	if n != 0 {
		t.Errorf("repeat sweep expired %d memberships, want 0", n)
	}
}

func TestCreatePending_ReclaimsExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx := testutil.TestContext()

	userID := primitive.NewObjectID()
	groupID := primitive.NewObjectID()

	joined := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expires := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateConfirmedMembership(t, db, userID, groupID, joined, expires)

	if _, err := store.ExpireDue(ctx, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), zap.NewNop()); err != nil {
		t.Fatalf("ExpireDue: %v", err)
	}

	m, err := store.CreatePending(ctx, userID, groupID)
	if err != nil {
		t.Fatalf("CreatePending after expiry: %v", err)
	}
	if m.Status != models.MembershipPending {
		t.Errorf("Status = %q, want pending", m.Status)
	}
	if m.JoinDate != nil || m.ExpirationDate != nil {
		t.Error("reclaimed membership kept stale dates")
	}
}

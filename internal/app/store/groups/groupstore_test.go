package groupstore_test

import (
	"errors"
	"testing"

	groupstore "github.com/membergate/membergate/internal/app/store/groups"
	"github.com/membergate/membergate/internal/domain/models"
	"github.com/membergate/membergate/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext()

	created, err := store.Create(ctx, models.Group{
		Name:                  "Gold Members",
		Description:           "Full access tier",
		RestrictedCategoryIDs: []int64{5, 7, 5},
		ValidityDays:          30,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.NameCI != "gold members" {
		t.Errorf("NameCI = %q, want %q", created.NameCI, "gold members")
	}
	if len(created.RestrictedCategoryIDs) != 2 {
		t.Errorf("expected duplicate category removed, got %v", created.RestrictedCategoryIDs)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Gold Members" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureGroupIndexes(t, db)
	store := groupstore.New(db)
	ctx := testutil.TestContext()

	if _, err := store.Create(ctx, models.Group{Name: "Silver"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := store.Create(ctx, models.Group{Name: "SILVER"})
	if !errors.Is(err, groupstore.ErrDuplicateGroupName) {
		t.Errorf("expected ErrDuplicateGroupName, got %v", err)
	}
}

func TestValidityDays_Default(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext()

	g, err := store.Create(ctx, models.Group{Name: "No Validity"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	days, err := store.ValidityDays(ctx, g.ID)
	if err != nil {
		t.Fatalf("ValidityDays: %v", err)
	}
	if days != models.DefaultValidityDays {
		t.Errorf("ValidityDays = %d, want %d", days, models.DefaultValidityDays)
	}
}

func TestAllRestrictedCategories_CacheInvalidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx := testutil.TestContext()

	a, err := store.Create(ctx, models.Group{Name: "A", RestrictedCategoryIDs: []int64{1, 2}})
	if err != nil {
		t.Fatalf("Create A: %v", err)
	}
	if _, err := store.Create(ctx, models.Group{Name: "B", RestrictedCategoryIDs: []int64{3}}); err != nil {
		t.Fatalf("Create B: %v", err)
	}

	union, err := store.AllRestrictedCategories(ctx)
	if err != nil {
		t.Fatalf("AllRestrictedCategories: %v", err)
	}
	for _, want := range []int64{1, 2, 3} {
		if _, ok := union[want]; !ok {
			t.Errorf("union missing category %d", want)
		}
	}

	// A second read without intervening writes serves the memoized set.
	again, err := store.AllRestrictedCategories(ctx)
	if err != nil {
		t.Fatalf("AllRestrictedCategories (cached): %v", err)
	}
	if len(again) != len(union) {
		t.Errorf("cached union size = %d, want %d", len(again), len(union))
	}

	// Updating a group invalidates the cache so the new union is visible.
	if err := store.UpdateInfo(ctx, a.ID, "A", "", 0, []int64{1, 2, 9}); err != nil {
		t.Fatalf("UpdateInfo: %v", err)
	}
	union, err = store.AllRestrictedCategories(ctx)
	if err != nil {
		t.Fatalf("AllRestrictedCategories after update: %v", err)
	}
	if _, ok := union[9]; !ok {
		t.Error("union missing category 9 after update")
	}

	// Deleting a group invalidates it again.
	if _, err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	union, err = store.AllRestrictedCategories(ctx)
	if err != nil {
		t.Fatalf("AllRestrictedCategories after delete: %v", err)
	}
	if _, ok := union[1]; ok {
		t.Error("union still contains deleted group's category 1")
	}
	if _, ok := union[3]; !ok {
		t.Error("union missing surviving group's category 3")
	}
}

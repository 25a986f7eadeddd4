package contentstore_test

import (
	"testing"

	contentstore "github.com/membergate/membergate/internal/app/store/contents"
	"github.com/membergate/membergate/internal/domain/models"
	"github.com/membergate/membergate/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateGetUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contentstore.New(db)
	ctx := testutil.TestContext()

	groupID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Content{
		Title:       "Week One Lesson",
		Body:        "<p>Welcome</p>",
		CategoryIDs: []int64{4, 4, 2},
		Drip:        &models.DripRule{GroupID: groupID, DelayDays: 7},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.TitleCI != "week one lesson" {
		t.Errorf("TitleCI = %q", created.TitleCI)
	}
	if len(created.CategoryIDs) != 2 {
		t.Errorf("expected duplicate category removed, got %v", created.CategoryIDs)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("content missing")
	}
	if got.Drip == nil || got.Drip.DelayDays != 7 {
		t.Errorf("Drip = %+v, want delay 7", got.Drip)
	}

	// Clearing the drip rule removes the field entirely.
	if err := store.Update(ctx, created.ID, "Week One Lesson", "<p>Welcome</p>", []int64{2}, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Drip != nil {
		t.Errorf("Drip = %+v, want nil after clear", got.Drip)
	}
}

func TestGetByID_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contentstore.New(db)
	ctx := testutil.TestContext()

	got, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing content, got %+v", got)
	}
}

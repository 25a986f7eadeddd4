package access

import (
	"context"
	"testing"
	"time"

	"github.com/membergate/membergate/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeGroups serves restriction claims from a map.
type fakeGroups struct {
	claims map[primitive.ObjectID][]int64
}

func (f *fakeGroups) RestrictedCategories(_ context.Context, id primitive.ObjectID) ([]int64, error) {
	return f.claims[id], nil
}

func (f *fakeGroups) AllRestrictedCategories(_ context.Context) (map[int64]struct{}, error) {
	union := make(map[int64]struct{})
	for _, cats := range f.claims {
		for _, c := range cats {
			union[c] = struct{}{}
		}
	}
	return union, nil
}

// fakeMemberships serves membership records keyed by (user, group).
type fakeMemberships struct {
	records map[[2]primitive.ObjectID]*models.Membership
}

func (f *fakeMemberships) Membership(_ context.Context, userID, groupID primitive.ObjectID) (*models.Membership, error) {
	return f.records[[2]primitive.ObjectID{userID, groupID}], nil
}

func (f *fakeMemberships) ConfirmedGroupIDs(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for key, m := range f.records {
		if key[0] == userID && m.Status == models.MembershipConfirmed {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func confirmed(join time.Time) *models.Membership {
	return &models.Membership{Status: models.MembershipConfirmed, JoinDate: &join}
}

func TestDecide_UnrestrictedContentIsPublic(t *testing.T) {
	groupA := primitive.NewObjectID()
	eng := NewEngine(
		&fakeGroups{claims: map[primitive.ObjectID][]int64{groupA: {5}}},
		&fakeMemberships{},
	)

	// Content whose categories no group claims is open to everyone.
	content := &models.Content{CategoryIDs: []int64{8}}
	d, err := eng.Decide(context.Background(), Anonymous, content)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.Allowed {
		t.Errorf("unclaimed categories: Decision = %+v, want allowed", d)
	}

	// So is content with no categories at all.
	d, err = eng.Decide(context.Background(), Anonymous, &models.Content{})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.Allowed {
		t.Errorf("no categories: Decision = %+v, want allowed", d)
	}
}

func TestDecide_RestrictedContent_Anonymous(t *testing.T) {
	groupA := primitive.NewObjectID()
	eng := NewEngine(
		&fakeGroups{claims: map[primitive.ObjectID][]int64{groupA: {5}}},
		&fakeMemberships{},
	)

	content := &models.Content{CategoryIDs: []int64{5}}
	d, err := eng.Decide(context.Background(), Anonymous, content)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Allowed || d.Reason != ReasonNotAuth {
		t.Errorf("Decision = %+v, want deny %s", d, ReasonNotAuth)
	}
}

func TestDecide_RestrictedContent_MembershipOverlap(t *testing.T) {
	groupA := primitive.NewObjectID()
	groupB := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	join := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	groups := &fakeGroups{claims: map[primitive.ObjectID][]int64{
		groupA: {5},
		groupB: {9},
	}}
	viewer := Viewer{UserID: userID, Authenticated: true}

	// Content in categories {5, 7}: membership in A (claims 5) grants
	// access even though 7 is unclaimed.
	content := &models.Content{CategoryIDs: []int64{5, 7}}

	memberOfA := &fakeMemberships{records: map[[2]primitive.ObjectID]*models.Membership{
		{userID, groupA}: confirmed(join),
	}}
	d, err := NewEngine(groups, memberOfA).Decide(context.Background(), viewer, content)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.Allowed {
		t.Errorf("member of claiming group: Decision = %+v, want allowed", d)
	}

	// Membership in B (claims 9 only) does not overlap {5, 7}.
	memberOfB := &fakeMemberships{records: map[[2]primitive.ObjectID]*models.Membership{
		{userID, groupB}: confirmed(join),
	}}
	d, err = NewEngine(groups, memberOfB).Decide(context.Background(), viewer, content)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Allowed || d.Reason != ReasonNotMember {
		t.Errorf("member of non-claiming group: Decision = %+v, want deny %s", d, ReasonNotMember)
	}
}

func TestDecide_PendingAndExpiredDoNotCount(t *testing.T) {
	groupA := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	groups := &fakeGroups{claims: map[primitive.ObjectID][]int64{groupA: {5}}}
	viewer := Viewer{UserID: userID, Authenticated: true}
	content := &models.Content{CategoryIDs: []int64{5}}

	for _, status := range []string{models.MembershipPending, models.MembershipExpired} {
		ms := &fakeMemberships{records: map[[2]primitive.ObjectID]*models.Membership{
			{userID, groupA}: {Status: status},
		}}
		d, err := NewEngine(groups, ms).Decide(context.Background(), viewer, content)
		if err != nil {
			t.Fatalf("Decide (%s): %v", status, err)
		}
		if d.Allowed || d.Reason != ReasonNotMember {
			t.Errorf("%s membership: Decision = %+v, want deny %s", status, d, ReasonNotMember)
		}
	}
}

func TestDecide_DripBoundary(t *testing.T) {
	groupA := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	join := time.Date(2026, 1, 1, 15, 45, 0, 0, time.UTC)
	viewer := Viewer{UserID: userID, Authenticated: true}

	groups := &fakeGroups{claims: map[primitive.ObjectID][]int64{}}
	ms := &fakeMemberships{records: map[[2]primitive.ObjectID]*models.Membership{
		{userID, groupA}: confirmed(join),
	}}
	content := &models.Content{
		Drip: &models.DripRule{GroupID: groupA, DelayDays: 10},
	}

	tests := []struct {
		name    string
		now     time.Time
		allowed bool
	}{
		{"day 9 late evening", time.Date(2026, 1, 10, 23, 59, 0, 0, time.UTC), false},
		{"day 10 midnight", time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), true},
		{"well past", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng := NewEngine(groups, ms).WithClock(fixedClock(tc.now))
			d, err := eng.Decide(context.Background(), viewer, content)
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if d.Allowed != tc.allowed {
				t.Errorf("at %v: Decision = %+v, want allowed=%v", tc.now, d, tc.allowed)
			}
			if !tc.allowed && d.Reason != ReasonDripNotUnlocked {
				t.Errorf("Reason = %q, want %s", d.Reason, ReasonDripNotUnlocked)
			}
		})
	}
}

func TestDecide_DripZeroDelay(t *testing.T) {
	groupA := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	join := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	ms := &fakeMemberships{records: map[[2]primitive.ObjectID]*models.Membership{
		{userID, groupA}: confirmed(join),
	}}
	eng := NewEngine(&fakeGroups{}, ms).WithClock(fixedClock(join.Add(time.Minute)))

	content := &models.Content{Drip: &models.DripRule{GroupID: groupA, DelayDays: 0}}
	d, err := eng.Decide(context.Background(), Viewer{UserID: userID, Authenticated: true}, content)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.Allowed {
		t.Errorf("zero-delay drip on join day: Decision = %+v, want allowed", d)
	}
}

func TestDecide_DripOverridesCategories(t *testing.T) {
	dripGroup := primitive.NewObjectID()
	catGroup := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	join := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// The viewer belongs to a group claiming category 5, which would
	// grant access under category rules. The drip rule targets a group
	// they are not in, and it wins.
	groups := &fakeGroups{claims: map[primitive.ObjectID][]int64{catGroup: {5}}}
	ms := &fakeMemberships{records: map[[2]primitive.ObjectID]*models.Membership{
		{userID, catGroup}: confirmed(join),
	}}
	content := &models.Content{
		CategoryIDs: []int64{5},
		Drip:        &models.DripRule{GroupID: dripGroup, DelayDays: 0},
	}

	eng := NewEngine(groups, ms).WithClock(fixedClock(join.AddDate(0, 0, 30)))
	d, err := eng.Decide(context.Background(), Viewer{UserID: userID, Authenticated: true}, content)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Allowed || d.Reason != ReasonDripNotUnlocked {
		t.Errorf("Decision = %+v, want deny %s", d, ReasonDripNotUnlocked)
	}
}

func TestDecide_DripNoMembershipDeniesWithDripReason(t *testing.T) {
	dripGroup := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	// The drip branch owns the decision outright: a signed-in viewer
	// with no membership in the target group gets the drip reason, not
	// the category-gating one.
	eng := NewEngine(&fakeGroups{}, &fakeMemberships{})
	content := &models.Content{
		Drip: &models.DripRule{GroupID: dripGroup, DelayDays: 5},
	}
	d, err := eng.Decide(context.Background(), Viewer{UserID: userID, Authenticated: true}, content)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Allowed || d.Reason != ReasonDripNotUnlocked {
		t.Errorf("Decision = %+v, want deny %s", d, ReasonDripNotUnlocked)
	}
}

func TestDecide_DripAnonymous(t *testing.T) {
	eng := NewEngine(&fakeGroups{}, &fakeMemberships{})
	content := &models.Content{
		Drip: &models.DripRule{GroupID: primitive.NewObjectID(), DelayDays: 5},
	}
	d, err := eng.Decide(context.Background(), Anonymous, content)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Allowed || d.Reason != ReasonNotAuth {
		t.Errorf("Decision = %+v, want deny %s", d, ReasonNotAuth)
	}
}

func TestDaysSince(t *testing.T) {
	tests := []struct {
		join string
		now  string
		want int
	}{
		{"2026-01-01T23:59:00Z", "2026-01-02T00:01:00Z", 1},
		{"2026-01-01T00:00:00Z", "2026-01-01T23:59:00Z", 0},
		{"2026-01-01T12:00:00Z", "2026-01-11T00:00:00Z", 10},
		{"2026-02-28T12:00:00Z", "2026-03-01T00:00:00Z", 1},
	}
	for _, tc := range tests {
		join, _ := time.Parse(time.RFC3339, tc.join)
		now, _ := time.Parse(time.RFC3339, tc.now)
		if got := daysSince(join, now); got != tc.want {
			t.Errorf("daysSince(%s, %s) = %d, want %d", tc.join, tc.now, got, tc.want)
		}
	}
}

// internal/app/access/access.go

// Package access decides whether a viewer may see a content item. It
// combines two gating mechanisms: category restriction, where groups
// claim categories and membership in a claiming group grants access,
// and drip scheduling, where a content item unlocks a fixed number of
// days after the viewer joined a specific group.
//
// A drip rule takes exclusive priority: when one is present, category
// restrictions on the same item are not consulted at all.
package access

import (
	"context"
	"time"

	"github.com/membergate/membergate/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reasons a decision can deny with. An allowed decision carries no reason.
const (
	ReasonNone            = ""
	ReasonNotAuth         = "not_authenticated"
	ReasonNotMember       = "not_a_member"
	ReasonDripNotUnlocked = "drip_not_unlocked"
)

// Decision is the outcome of an access check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// GroupSource supplies group restriction configuration.
type GroupSource interface {
	// RestrictedCategories returns the categories the group claims;
	// empty when the group claims none or does not exist.
	RestrictedCategories(ctx context.Context, groupID primitive.ObjectID) ([]int64, error)
	// AllRestrictedCategories returns the union of claimed categories
	// across every group.
	AllRestrictedCategories(ctx context.Context) (map[int64]struct{}, error)
}

// MembershipSource supplies the viewer's membership state.
type MembershipSource interface {
	// Membership returns the record for the pair, or nil when none exists.
	Membership(ctx context.Context, userID, groupID primitive.ObjectID) (*models.Membership, error)
	// ConfirmedGroupIDs returns every group the user is confirmed in.
	ConfirmedGroupIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Viewer identifies who is asking. A zero Viewer is an anonymous visitor.
type Viewer struct {
	UserID        primitive.ObjectID
	Authenticated bool
}

// Anonymous is the viewer for requests with no signed-in user.
var Anonymous = Viewer{}

// Engine evaluates access decisions. It holds no per-request state and
// is safe for concurrent use.
type Engine struct {
	groups      GroupSource
	memberships MembershipSource
	now         func() time.Time
}

func NewEngine(groups GroupSource, memberships MembershipSource) *Engine {
	return &Engine{groups: groups, memberships: memberships, now: time.Now}
}

// WithClock returns a copy of the engine that reads time from fn.
func (e *Engine) WithClock(fn func() time.Time) *Engine {
	clone := *e
	clone.now = fn
	return &clone
}

// Decide evaluates whether the viewer may see the content.
func (e *Engine) Decide(ctx context.Context, viewer Viewer, content *models.Content) (Decision, error) {
	if content == nil {
		return deny(ReasonNotMember), nil
	}

	if content.Drip != nil {
		return e.decideDrip(ctx, viewer, content.Drip)
	}
	return e.decideCategories(ctx, viewer, content.CategoryIDs)
}

// decideDrip gates on join-date arithmetic against the drip group.
func (e *Engine) decideDrip(ctx context.Context, viewer Viewer, rule *models.DripRule) (Decision, error) {
	if !viewer.Authenticated {
		return deny(ReasonNotAuth), nil
	}

	m, err := e.memberships.Membership(ctx, viewer.UserID, rule.GroupID)
	if err != nil {
		return Decision{}, err
	}
	// Any failure in the drip branch denies with the drip reason. The
	// drip rule fully owns the decision for its item, so a missing or
	// unconfirmed membership is still "the drip has not unlocked".
	if m == nil || m.Status != models.MembershipConfirmed || m.JoinDate == nil {
		return deny(ReasonDripNotUnlocked), nil
	}

	if daysSince(*m.JoinDate, e.now()) >= rule.DelayDays {
		return allow(), nil
	}
	return deny(ReasonDripNotUnlocked), nil
}

// decideCategories gates on the restriction claims of all groups: the
// content is restricted when any of its categories is claimed by any
// group, and a viewer passes by holding a confirmed membership in a
// group whose claims overlap the content's categories.
func (e *Engine) decideCategories(ctx context.Context, viewer Viewer, categoryIDs []int64) (Decision, error) {
	if len(categoryIDs) == 0 {
		return allow(), nil
	}

	claimed, err := e.groups.AllRestrictedCategories(ctx)
	if err != nil {
		return Decision{}, err
	}
	restricted := false
	for _, cat := range categoryIDs {
		if _, ok := claimed[cat]; ok {
			restricted = true
			break
		}
	}
	if !restricted {
		return allow(), nil
	}

	if !viewer.Authenticated {
		return deny(ReasonNotAuth), nil
	}

	groupIDs, err := e.memberships.ConfirmedGroupIDs(ctx, viewer.UserID)
	if err != nil {
		return Decision{}, err
	}
	for _, gid := range groupIDs {
		cats, err := e.groups.RestrictedCategories(ctx, gid)
		if err != nil {
			return Decision{}, err
		}
		if intersects(cats, categoryIDs) {
			return allow(), nil
		}
	}
	return deny(ReasonNotMember), nil
}

// daysSince counts whole calendar days (UTC) from join to now. The day
// count is date-based, so a drip with delay N unlocks at midnight UTC
// on the Nth day after joining regardless of the join's time of day.
func daysSince(join, now time.Time) int {
	join = join.UTC()
	now = now.UTC()
	joinDay := time.Date(join.Year(), join.Month(), join.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(nowDay.Sub(joinDay) / (24 * time.Hour))
}

func intersects(a, b []int64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[int64]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

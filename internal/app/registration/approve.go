// internal/app/registration/approve.go
package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/membergate/membergate/internal/app/system/txn"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approve activates a pending registration: the membership request is
// confirmed with its join and expiration dates stamped, and the user
// record picks up the group and becomes active.
//
// It returns false when the user has no outstanding request, so a
// repeated approval (stale link, double click) is a harmless no-op.
// The two writes run inside a transaction where the server supports
// one; each write is individually conditional, so the fallback path is
// safe too.
func (w *Workflow) Approve(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	user, err := w.Users.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	if user.RequestedGroupID == nil {
		return false, nil
	}
	groupID := *user.RequestedGroupID

	validityDays, err := w.Groups.ValidityDays(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("load group validity: %w", err)
	}

	approved := false
	err = w.withTxn(ctx, func(ctx context.Context) error {
		ok, err := w.Memberships.Approve(ctx, user.ID, groupID, time.Now(), validityDays)
		if err != nil {
			return fmt.Errorf("confirm membership: %w", err)
		}
		if !ok {
			return nil
		}
		if err := w.Users.ConsumeRequest(ctx, user.ID, groupID); err != nil {
			return fmt.Errorf("finalize user: %w", err)
		}
		approved = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return approved, nil
}

func (w *Workflow) withTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	if w.Client == nil {
		return fn(ctx)
	}
	return txn.WithTransaction(ctx, w.Client, fn)
}

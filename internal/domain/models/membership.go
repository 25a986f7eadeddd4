// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership lifecycle statuses. Transitions are monotonic:
// pending -> confirmed -> expired. An expired membership is never reset;
// rejoining a group requires a brand-new registration.
const (
	MembershipPending   = "pending"
	MembershipConfirmed = "confirmed"
	MembershipExpired   = "expired"
)

// Membership is the authoritative join between users and groups.
// Exactly one document per (user_id, group_id), enforced by a unique index.
//
// JoinDate is set exactly once, when the membership transitions to
// confirmed, and is never modified afterwards. ExpirationDate is computed
// at confirmation time as JoinDate + the group's validity days and is not
// recomputed if the group's validity later changes.
type Membership struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`

	Status         string     `bson:"status" json:"status"`
	JoinDate       *time.Time `bson:"join_date,omitempty" json:"join_date,omitempty"`
	ExpirationDate *time.Time `bson:"expiration_date,omitempty" json:"expiration_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents admins and members.
//
// NOTE:
//   - Authoritative group membership lives in the memberships collection.
//     GroupIDs mirrors the user's currently granted groups for admin
//     display and is maintained by the same writers that move membership
//     status (approval and the expiration sweep).
//   - RequestedGroupID is the pending registration request: it exists from
//     registration submission until an administrator approves the user,
//     which consumes it.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"username_ci"`
	Email      string             `bson:"email" json:"email"`
	Role       string             `bson:"role" json:"role"`     // admin | member
	Status     string             `bson:"status" json:"status"` // pending | active | disabled

	RequestedGroupID *primitive.ObjectID  `bson:"requested_group_id,omitempty" json:"requested_group_id,omitempty"`
	GroupIDs         []primitive.ObjectID `bson:"group_ids,omitempty" json:"group_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

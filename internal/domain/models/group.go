// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultValidityDays is the membership validity applied when a group
// has no explicit validity configured.
const DefaultValidityDays = 365

// Group is a membership group. Joining a group (after approval) grants
// access to content in the group's restricted categories and starts the
// clock for drip rules targeting the group.
//
// NOTE:
//   - User membership is not embedded on Group. All membership is stored
//     in the memberships collection, one document per (user_id, group_id).
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`

	// RestrictedCategoryIDs are the content category IDs that are exclusive
	// to members of this group.
	RestrictedCategoryIDs []int64 `bson:"restricted_category_ids" json:"restricted_category_ids"`

	// ValidityDays is how long a confirmed membership lasts, in days.
	// Zero means "use DefaultValidityDays".
	ValidityDays int `bson:"validity_days" json:"validity_days"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

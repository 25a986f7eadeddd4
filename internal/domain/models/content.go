// internal/domain/models/content.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DripRule delays the release of a content item for members of a group.
// The item unlocks DelayDays calendar days after the member's join date;
// a delay of zero unlocks it on the join date itself.
//
// A content item carries at most one drip rule. When present, the rule
// takes exclusive priority over category restriction for that item.
type DripRule struct {
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	DelayDays int                `bson:"delay_days" json:"delay_days"`
}

// Content is a gated content item.
type Content struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"`
	Body    string             `bson:"body" json:"body"`

	// CategoryIDs are the item's category identifiers, as assigned by the
	// hosting site. An item with no categories is never category-gated.
	CategoryIDs []int64 `bson:"category_ids" json:"category_ids"`

	Drip *DripRule `bson:"drip,omitempty" json:"drip,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/app/store/sitesettings/sitesettings.go
package sitesettings

import (
	"context"
	"time"

	"github.com/membergate/membergate/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingsID is the fixed _id of the singleton settings document.
const settingsID = "site"

// Defaults applied when no settings document exists yet.
const (
	DefaultAccessDeniedURL = "/denied"
	DefaultDenialMessage   = "<p>This content is available to members only.</p>"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_settings")}
}

// Get returns the site settings, falling back to defaults when the
// document is missing or has blank fields.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var st models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&st)
	if err != nil && err != mongo.ErrNoDocuments {
		return models.SiteSettings{}, err
	}
	st.ID = settingsID
	if st.AccessDeniedURL == "" {
		st.AccessDeniedURL = DefaultAccessDeniedURL
	}
	if st.DenialMessage == "" {
		st.DenialMessage = DefaultDenialMessage
	}
	return st, nil
}

// Update upserts the singleton settings document. Callers sanitize the
// denial message before it gets here.
func (s *Store) Update(ctx context.Context, deniedURL, denialMessage string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": settingsID},
		bson.M{"$set": bson.M{
			"access_denied_url": deniedURL,
			"denial_message":    denialMessage,
			"updated_at":        time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

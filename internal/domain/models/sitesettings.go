// internal/domain/models/sitesettings.go
package models

import "time"

// SiteSettings holds the site-wide configuration an administrator can edit.
// A single document, keyed by a fixed ID.
type SiteSettings struct {
	ID string `bson:"_id" json:"id"`

	// AccessDeniedURL is where denied viewers are redirected. Empty means
	// the site root.
	AccessDeniedURL string `bson:"access_denied_url" json:"access_denied_url"`

	// DenialMessage is the HTML message shown on the access-denied page.
	// Sanitized before storage.
	DenialMessage string `bson:"denial_message" json:"denial_message"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS). AppConfig is everything specific to MemberGate:
// database connection details, session cookies, outbound mail, and the
// membership expiration sweep.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: membergate-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // How long a signed-in session stays valid

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for local catchers)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@membergate.com)
	MailFromName string // From display name (e.g., MemberGate)

	// Base URL for links embedded in email (approval links, login links)
	BaseURL string // e.g., "https://members.example.com" or "http://localhost:3000"

	// Site name used in email subjects and page titles
	SiteName string

	// Cron spec for the daily membership expiration sweep
	SweepSchedule string // e.g., "@daily" or "0 3 * * *"
}

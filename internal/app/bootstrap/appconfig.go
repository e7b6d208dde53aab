// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: HTTP ports, TLS, CORS,
// and logging format live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: agorahub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@agorahub.org)
	MailFromName string // From display name

	// Site identity, used in emails and links
	SiteName string
	BaseURL  string // e.g., "https://agorahub.org" or "http://localhost:3000"

	// Digest scheduler configuration.
	//
	// DigestInterval is the minimum gap between two digests to the same
	// membership; DigestRunEvery is how often a run is attempted. Runs
	// are cheap no-ops for memberships still inside their interval, so
	// RunEvery < Interval just tightens delivery latency.
	DigestInterval time.Duration
	DigestRunEvery time.Duration
	DigestLeaseTTL time.Duration
	DigestWorkers  int
}

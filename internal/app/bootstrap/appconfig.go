// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, body limits); AppConfig is everything specific to
// BloodLink: database coordinates, token signing, SMTP, and the external
// geocoding and matching services.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Token signing
	JWTSigningKey string

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// SiteName appears in outgoing emails (reset codes, blood requests).
	SiteName string
	// FeedbackInbox receives relayed user feedback.
	FeedbackInbox string

	// Geocoding service (Nominatim-compatible /search endpoint).
	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration

	// External donor/camp matching service.
	MatcherBaseURL string
	MatcherTimeout time.Duration

	// Password-reset code lifetime.
	OTPExpiry time.Duration

	// DefaultCountry fills camp registrations that omit the country.
	DefaultCountry string

	// AdminEmail is checked at startup; a warning is logged if no Admin
	// account exists for it yet.
	AdminEmail string
}

// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for BloodLink.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_signing_key, etc.
//   - Environment variables: BLOODLINK_MONGO_URI, BLOODLINK_JWT_SIGNING_KEY, etc.
//   - Command-line flags: --mongo_uri, --jwt_signing_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "bloodlink", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_signing_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing key (must be strong in production)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@bloodlink.org", Desc: "From email address"},
	{Name: "mail_from_name", Default: "BloodLink", Desc: "From display name"},

	{Name: "site_name", Default: "BloodLink", Desc: "Platform name used in outgoing emails"},
	{Name: "feedback_inbox", Default: "feedback@bloodlink.org", Desc: "Inbox that receives relayed user feedback"},

	// Geocoding service
	{Name: "geocoder_base_url", Default: "https://nominatim.openstreetmap.org", Desc: "Geocoding service base URL (Nominatim-compatible)"},
	{Name: "geocoder_user_agent", Default: "bloodlink/1.0", Desc: "User-Agent sent to the geocoding service"},
	{Name: "geocoder_timeout", Default: "10s", Desc: "Geocoding request timeout"},

	// Matching service
	{Name: "matcher_base_url", Default: "http://localhost:5000", Desc: "Donor/camp matching service base URL"},
	{Name: "matcher_timeout", Default: "5s", Desc: "Matching request timeout"},

	{Name: "otp_expiry", Default: "10m", Desc: "Password-reset code lifetime (e.g., 10m, 1h)"},
	{Name: "default_country", Default: "India", Desc: "Country applied to camp registrations that omit one"},
	{Name: "admin_email", Default: "", Desc: "Expected Admin account email (warns at startup if absent)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config
// yaml/json/toml files, environment variables (WAFFLE_* for core,
// BLOODLINK_* for app), and command-line flags, merged with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "BLOODLINK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSigningKey: appValues.String("jwt_signing_key"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		SiteName:      appValues.String("site_name"),
		FeedbackInbox: appValues.String("feedback_inbox"),

		GeocoderBaseURL:   appValues.String("geocoder_base_url"),
		GeocoderUserAgent: appValues.String("geocoder_user_agent"),
		GeocoderTimeout:   appValues.Duration("geocoder_timeout", 10*time.Second),

		MatcherBaseURL: appValues.String("matcher_base_url"),
		MatcherTimeout: appValues.Duration("matcher_timeout", 5*time.Second),

		OTPExpiry:      appValues.Duration("otp_expiry", 10*time.Minute),
		DefaultCountry: appValues.String("default_country"),
		AdminEmail:     appValues.String("admin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked early to catch configuration errors
// before attempting to connect, and a weak signing key is rejected
// outside dev so a forgotten override cannot reach production.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env != "dev" && len(appCfg.JWTSigningKey) < 32 {
		return fmt.Errorf("jwt_signing_key must be at least 32 characters outside dev")
	}

	if appCfg.GeocoderBaseURL == "" {
		return fmt.Errorf("geocoder_base_url must be set")
	}
	if appCfg.MatcherBaseURL == "" {
		return fmt.Errorf("matcher_base_url must be set")
	}

	return nil
}

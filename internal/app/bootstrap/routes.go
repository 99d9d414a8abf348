// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	campsfeature "github.com/bloodlinkhq/bloodlink/internal/app/features/camps"
	healthfeature "github.com/bloodlinkhq/bloodlink/internal/app/features/health"
	notificationsfeature "github.com/bloodlinkhq/bloodlink/internal/app/features/notifications"
	otpfeature "github.com/bloodlinkhq/bloodlink/internal/app/features/otp"
	usersfeature "github.com/bloodlinkhq/bloodlink/internal/app/features/users"
	resetcodes "github.com/bloodlinkhq/bloodlink/internal/app/store/resetcodes"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/auth"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/geocode"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/mailer"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/matcher"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. It builds the shared adapters
// (token manager, geocoder, mailer, matcher client), applies CORS and
// the global token-loading middleware, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	tokens, err := auth.NewManager(appCfg.JWTSigningKey, secure, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	geo := geocode.New(appCfg.GeocoderBaseURL, appCfg.GeocoderUserAgent, appCfg.GeocoderTimeout, logger)
	match := matcher.New(appCfg.MatcherBaseURL, appCfg.MatcherTimeout, logger)
	mail := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort, appCfg.MailSMTPUser,
		appCfg.MailSMTPPass, appCfg.MailFrom, appCfg.MailFromName, logger)
	codes := resetcodes.New(deps.MongoDatabase, appCfg.OTPExpiry)

	r := chi.NewRouter()

	// The API serves a browser SPA on another origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Global auth middleware: attaches the TokenUser to context when a
	// valid token rides the request, available via auth.CurrentUser(r).
	r.Use(tokens.LoadTokenUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Accounts: registration, login, profiles, directories, blocking.
	usersHandler := usersfeature.NewHandler(deps.MongoDatabase, geo, tokens, match, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Donation camps: lifecycle and nearby matching.
	campsHandler := campsfeature.NewHandler(deps.MongoDatabase, geo, match, appCfg.DefaultCountry, logger)
	r.Mount("/camps", campsfeature.Routes(campsHandler))

	// Password reset via emailed one-time codes.
	otpHandler := otpfeature.NewHandler(deps.MongoDatabase, codes, mail, appCfg.SiteName, logger)
	r.Mount("/otp", otpfeature.Routes(otpHandler))

	// Urgent blood request and feedback emails.
	notifyHandler := notificationsfeature.NewHandler(mail, appCfg.SiteName, appCfg.FeedbackInbox, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notifyHandler))

	return r, nil
}

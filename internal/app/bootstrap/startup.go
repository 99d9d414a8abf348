// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/bloodlinkhq/bloodlink/internal/app/store/users"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("count", n))
	}

	// Admins register through the ordinary registration flow; this only
	// tells the operator whether the expected account exists yet.
	if appCfg.AdminEmail != "" {
		users := userstore.New(deps.MongoDatabase)
		u, err := users.GetByEmailAndRole(ctx, appCfg.AdminEmail, models.RoleAdmin)
		switch {
		case errors.Is(err, userstore.ErrNotFound):
			logger.Warn("configured admin account does not exist yet",
				zap.String("email", appCfg.AdminEmail))
		case err != nil:
			return err
		default:
			logger.Info("admin account present", zap.String("email", u.Email))
		}
	}

	return nil
}

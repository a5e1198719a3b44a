package migrate

import (
	"context"
	"fmt"

	"github.com/cardapiohub/cardapio-backend/pkg/config"
	"github.com/cardapiohub/cardapio-backend/pkg/db"
	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
)

// MaybeRunDev brings a dev database up to date when CARDAPIO_AUTO_MIGRATE is
// set. Postgres runs the goose files; the sqlite dev database has no goose
// dialect for the postgres SQL, so its tables come from the gorm models.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	ctx = logg.WithFields(ctx, map[string]any{"dialect": client.Dialect(), "dir": DefaultDir})

	switch client.Dialect() {
	case db.DialectPostgres:
		sqlDB, err := client.DB().DB()
		if err != nil {
			return fmt.Errorf("extracting sql.DB: %w", err)
		}
		if err := Run(ctx, sqlDB, client.Dialect(), DefaultDir, "up"); err != nil {
			return fmt.Errorf("running goose up: %w", err)
		}
	case db.DialectSQLite:
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrating sqlite: %w", err)
		}
	default:
		return fmt.Errorf("auto-migrate: unsupported dialect %q", client.Dialect())
	}

	logg.Info(ctx, "dev migrations applied")
	return nil
}

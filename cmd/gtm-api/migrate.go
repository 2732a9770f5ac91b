package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mendel-gtm/gtm-api/internal/config"
	"github.com/mendel-gtm/gtm-api/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.RemoteEnabled() {
				return errors.New("GTM_DB_DRIVER and GTM_DB_DSN are required to migrate")
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			database, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			version, err := db.Migrate(database, cfg.DB.Driver)
			if err != nil {
				return err
			}

			logger.Info("migrations complete",
				zap.String("driver", cfg.DB.Driver),
				zap.Int64("version", version))
			return nil
		},
	}
}

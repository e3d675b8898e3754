package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-sales-service/config"
	settingRepoPkg "github.com/fekuna/omnipos-sales-service/internal/setting/repository"
	settingUCPkg "github.com/fekuna/omnipos-sales-service/internal/setting/usecase"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
)

func newMigrateCommand() *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and seed default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadEnv()
			appLogger := newLogger(cfg)
			defer appLogger.Sync()

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.ApplySchema(cmd.Context(), db); err != nil {
				return err
			}
			appLogger.Info("Schema applied", zap.String("driver", cfg.Database.Driver))

			if skipSeed {
				return nil
			}

			settingUC := settingUCPkg.NewSettingUseCase(settingRepoPkg.NewPGRepository(db), database.NewTransactor(db), appLogger)
			n, err := settingUC.SeedDefaults(cmd.Context())
			if err != nil {
				return fmt.Errorf("seed settings: %w", err)
			}
			appLogger.Info("Default settings seeded", zap.Int("inserted", n))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "only create tables")
	return cmd
}

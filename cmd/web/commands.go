package main

import (
	"gigmarket_backend/internal/app"
	"gigmarket_backend/internal/config"
	"gigmarket_backend/internal/logger"

	"github.com/spf13/cobra"
)

// boot загружает конфиг и инициализирует логгер
func boot() (*config.Config, error) {
	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.GetConfig()
	logger.Init(cfg.Server.Env)
	return cfg, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := boot()
		if err != nil {
			return err
		}
		skip, _ := cmd.Flags().GetBool("no-migrate")
		return app.Run(cmd.Context(), cfg, !skip)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := boot()
		if err != nil {
			return err
		}
		db, err := app.OpenDB(cfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err == nil {
			defer sqlDB.Close()
		}
		return app.Migrate(db)
	},
}

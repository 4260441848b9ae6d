package main

import (
	"os"

	"gamesite/config"
	"gamesite/db"
	"gamesite/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:          "gamesite",
		Short:        "Game catalog web application",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(serveCmd(), migrateCmd(), createAdminCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration, sets up logging and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	utils.InitLogger(utils.LoggerOptions{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Release: cfg.IsRelease(),
	})
	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	utils.LogInfo("Database connected", map[string]interface{}{"driver": cfg.DBDriver})
	return cfg, conn, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := bootstrap()
			if err != nil {
				return err
			}
			return db.Migrate(conn)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a small demo catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			return db.Seed(cmd.Context(), conn)
		},
	}
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/database"
	"github.com/mrouhi13/laum/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "laum",
	Short: "laum content site API and staff bot",
	Long: `laum serves the bilingual content site API, cleans submitted Persian
text and runs the staff moderation bot. Without a subcommand it serves.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file loaded before configuration")
}

// bootstrap loads configuration, starts the logger and opens a migrated database.
func bootstrap(cmd *cobra.Command) (*config.Config, *gorm.DB, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.LogLevel, cfg.AppEnv)

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			return nil, nil, fmt.Errorf("production security validation failed: %w", err)
		}
		logger.Info("Production security validation passed")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, err
	}

	if err := database.SeedSettings(db, cfg); err != nil {
		logger.Warn("Failed to seed website settings", "error", err)
	}
	return cfg, db, nil
}

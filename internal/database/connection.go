package database

import (
	"context"
	"fmt"
	"time"

	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/repositories"
	"github.com/mrouhi13/laum/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully", "host", cfg.DBHost, "name", cfg.DBName)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Group{},
		&models.Tag{},
		&models.Page{},
		&models.Report{},
		&models.User{},
		&models.WebsiteSetting{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedSettings stores the configured site settings that are not in the database yet.
func SeedSettings(db *gorm.DB, cfg *config.Config) error {
	logger.Info("Checking website settings...")
	return repositories.NewSettingRepository(db).SeedDefaults(context.Background(), cfg.Site)
}

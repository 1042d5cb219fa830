package repositories

import (
	"context"

	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// List returns every stored setting
func (r *SettingRepository) List(ctx context.Context) ([]models.WebsiteSetting, error) {
	var settings []models.WebsiteSetting
	if err := r.db.WithContext(ctx).Order("setting").Find(&settings).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list settings")
	}
	return settings, nil
}

// Upsert stores content under key, replacing any previous value
func (r *SettingRepository) Upsert(ctx context.Context, key, content string) error {
	setting := models.WebsiteSetting{Setting: key, Content: content}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting"}},
		DoUpdates: clause.AssignmentColumns([]string{"content"}),
	}).Create(&setting).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save setting")
	}
	return nil
}

// SeedDefaults inserts the configured values for settings that are not stored yet
func (r *SettingRepository) SeedDefaults(ctx context.Context, defaults config.SiteSettings) error {
	seed := []models.WebsiteSetting{
		{Setting: models.SettingSiteTitle, Content: defaults.Title},
		{Setting: models.SettingContactEmail, Content: defaults.ContactEmail},
		{Setting: models.SettingGoogleAnalyticsID, Content: defaults.GoogleAnalyticsID},
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to seed settings")
	}
	return nil
}

package services

import (
	"context"
	"strings"

	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/security"
	"github.com/mrouhi13/laum/pkg/errors"
	"github.com/mrouhi13/laum/pkg/logger"
)

const maxSettingLength = 256

type SettingStore interface {
	List(ctx context.Context) ([]models.WebsiteSetting, error)
	Upsert(ctx context.Context, key, content string) error
}

// SettingService serves the site-wide settings, with stored values
// taking precedence over the configured defaults.
type SettingService struct {
	store    SettingStore
	defaults config.SiteSettings
}

func NewSettingService(store SettingStore, defaults config.SiteSettings) *SettingService {
	return &SettingService{store: store, defaults: defaults}
}

func (s *SettingService) Site(ctx context.Context) (config.SiteSettings, error) {
	settings, err := s.store.List(ctx)
	if err != nil {
		return s.defaults, err
	}
	return applySettings(s.defaults, settings), nil
}

// Update stores one setting
func (s *SettingService) Update(ctx context.Context, key, content string) error {
	if !models.IsKnownSetting(key) {
		return errors.Newf(errors.ErrCodeNotFound, "unknown setting: %s", key)
	}

	content = strings.TrimSpace(security.SanitizeText(content, maxSettingLength))
	if key == models.SettingContactEmail && content != "" {
		email, ok := security.NormalizeEmail(content)
		if !ok {
			return errors.New(errors.ErrCodeValidation, "ایمیل تماس معتبر نیست")
		}
		content = email
	}

	if err := s.store.Upsert(ctx, key, content); err != nil {
		return err
	}
	logger.Info("Setting updated", "key", key)
	return nil
}

// applySettings overlays non-empty stored values onto base
func applySettings(base config.SiteSettings, settings []models.WebsiteSetting) config.SiteSettings {
	for _, s := range settings {
		if s.Content == "" {
			continue
		}
		switch s.Setting {
		case models.SettingSiteTitle:
			base.Title = s.Content
		case models.SettingContactEmail:
			base.ContactEmail = s.Content
		case models.SettingGoogleAnalyticsID:
			base.GoogleAnalyticsID = s.Content
		}
	}
	return base
}

package repositories

import (
	"context"

	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/pkg/errors"
	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// FindOrCreate returns the tags with the given names, creating missing ones
func (r *TagRepository) FindOrCreate(ctx context.Context, language string, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			tag := models.Tag{Name: name}
			attrs := models.Tag{Keyword: models.TagKeyword(name), Language: language, IsActive: true}
			if err := tx.Where("name = ?", name).Attrs(attrs).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to save tags")
	}
	return tags, nil
}

// ListActive returns the active tags of a language ordered by name
func (r *TagRepository) ListActive(ctx context.Context, language string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where("language = ? AND is_active = ?", language, true).
		Order("name").
		Find(&tags).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list tags")
	}
	return tags, nil
}

package repositories

import (
	"context"
	"time"

	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/pkg/errors"
	"github.com/mrouhi13/laum/pkg/utils"
	"gorm.io/gorm"
)

const (
	publicIDLength   = 8
	maxIDAttempts    = 10
	minSearchRank    = 0.01
	searchTextConfig = "simple"
)

// Weighted document: title A, subtitle B, tag names C, the rest D.
const searchRankExpr = `ts_rank(
	setweight(to_tsvector('` + searchTextConfig + `', coalesce(pages.title, '')), 'A') ||
	setweight(to_tsvector('` + searchTextConfig + `', coalesce(pages.subtitle, '')), 'B') ||
	setweight(to_tsvector('` + searchTextConfig + `', coalesce(string_agg(tags.name, ' '), '')), 'C') ||
	setweight(to_tsvector('` + searchTextConfig + `', coalesce(pages.content, '') || ' ' || coalesce(pages.event, '') || ' ' || coalesce(pages.image_caption, '')), 'D'),
	plainto_tsquery('` + searchTextConfig + `', ?))`

type PageRepository struct {
	db        *gorm.DB
	pidPrefix string
	gidPrefix string
}

func NewPageRepository(db *gorm.DB, pidPrefix, gidPrefix string) *PageRepository {
	return &PageRepository{db: db, pidPrefix: pidPrefix, gidPrefix: gidPrefix}
}

// Create stores a new page under a freshly generated unique PID
func (r *PageRepository) Create(ctx context.Context, page *models.Page) error {
	if page.PID == "" {
		pid, err := r.newPID(ctx)
		if err != nil {
			return err
		}
		page.PID = pid
	}

	if err := r.db.WithContext(ctx).Create(page).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create page")
	}
	return nil
}

func (r *PageRepository) newPID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		pid := utils.PrefixedID(r.pidPrefix, publicIDLength)
		exists, err := r.PIDExists(ctx, pid)
		if err != nil {
			return "", err
		}
		if !exists {
			return pid, nil
		}
	}
	return "", errors.New(errors.ErrCodeInternalError, "failed to generate a unique page ID")
}

// PIDExists checks whether a page already uses pid
func (r *PageRepository) PIDExists(ctx context.Context, pid string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Page{}).Where("pid = ?", pid).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check page ID")
	}
	return count > 0, nil
}

// Update saves every column of page and replaces its tags
func (r *PageRepository) Update(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "CreatedAt").Save(page).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update page")
		}
		if err := tx.Model(page).Association("Tags").Replace(page.Tags); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update page tags")
		}
		return nil
	})
}

// SetActive toggles whether a page is listed publicly
func (r *PageRepository) SetActive(ctx context.Context, pid string, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Page{}).Where("pid = ?", pid).
		UpdateColumns(map[string]interface{}{"is_active": active, "updated_at": time.Now()})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update page status")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "page not found")
	}
	return nil
}

// GetByPID retrieves a page with its tags
func (r *PageRepository) GetByPID(ctx context.Context, pid string, activeOnly bool) (*models.Page, error) {
	var page models.Page
	query := r.db.WithContext(ctx).Preload("Tags").Where("pid = ?", pid)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	result := query.First(&page)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "page not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get page")
	}

	return &page, nil
}

// Search ranks active pages of a language against a plain-text query
func (r *PageRepository) Search(ctx context.Context, language, query string, offset, limit int) ([]models.Page, int64, error) {
	db := r.db.WithContext(ctx)

	ranked := db.Table("pages").
		Select("pages.id, "+searchRankExpr+" AS rank", query).
		Joins("LEFT JOIN page_tags ON page_tags.page_id = pages.id").
		Joins("LEFT JOIN tags ON tags.id = page_tags.tag_id").
		Where("pages.is_active = ? AND pages.language = ?", true, language).
		Group("pages.id")

	var total int64
	if err := db.Table("(?) AS ranked", ranked).Where("ranked.rank >= ?", minSearchRank).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count search results")
	}
	if total == 0 {
		return []models.Page{}, 0, nil
	}

	var pages []models.Page
	err := db.Model(&models.Page{}).
		Select("pages.*, ranked.rank AS rank").
		Joins("JOIN (?) AS ranked ON ranked.id = pages.id", ranked).
		Where("ranked.rank >= ?", minSearchRank).
		Order("ranked.rank DESC, pages.id").
		Offset(offset).Limit(limit).
		Preload("Tags").
		Find(&pages).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to search pages")
	}

	return pages, total, nil
}

// Random returns up to n active pages of a language in random order
func (r *PageRepository) Random(ctx context.Context, language string, n int) ([]models.Page, error) {
	var pages []models.Page
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND language = ?", true, language).
		Order("RANDOM()").
		Limit(n).
		Find(&pages).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get random pages")
	}
	return pages, nil
}

// List pages for staff, newest change first. active filters when non-nil.
func (r *PageRepository) List(ctx context.Context, active *bool, offset, limit int) ([]models.Page, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Page{})
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count pages")
	}

	var pages []models.Page
	if err := query.Preload("Tags").Order("updated_at DESC").Offset(offset).Limit(limit).Find(&pages).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list pages")
	}
	return pages, total, nil
}

// LinkTranslation puts two pages in the same group. The group keeps at
// most one page per language.
func (r *PageRepository) LinkTranslation(ctx context.Context, pid, otherPID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var page, other models.Page
		if err := tx.Where("pid = ?", pid).First(&page).Error; err != nil {
			return notFoundOr(err, "page not found")
		}
		if err := tx.Where("pid = ?", otherPID).First(&other).Error; err != nil {
			return notFoundOr(err, "translation page not found")
		}
		if page.Language == other.Language {
			return errors.New(errors.ErrCodeValidation, "translations must be in different languages")
		}

		gid := other.GroupID
		if gid == nil {
			gid = page.GroupID
		}
		if gid == nil {
			group := models.Group{GID: utils.PrefixedID(r.gidPrefix, publicIDLength)}
			if err := tx.Create(&group).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create group")
			}
			gid = &group.GID
		}

		err := tx.Model(&models.Page{}).Where("id IN ?", []uint{page.ID, other.ID}).UpdateColumn("group_id", *gid).Error
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeAlreadyExists, "group already has a page in this language")
		}
		return nil
	})
}

// Translations returns the other active pages of the page's group
func (r *PageRepository) Translations(ctx context.Context, page *models.Page) ([]models.Page, error) {
	if page.GroupID == nil {
		return []models.Page{}, nil
	}

	var pages []models.Page
	err := r.db.WithContext(ctx).
		Select("id", "pid", "language", "title").
		Where("group_id = ? AND id <> ? AND is_active = ?", *page.GroupID, page.ID, true).
		Find(&pages).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get translations")
	}
	return pages, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.ErrCodeNotFound, message)
	}
	return errors.Wrap(err, errors.ErrCodeInternalError, message)
}

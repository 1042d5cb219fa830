package repositories

import (
	"context"
	"time"

	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/pkg/errors"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db        *gorm.DB
	ridPrefix string
}

func NewReportRepository(db *gorm.DB, ridPrefix string) *ReportRepository {
	return &ReportRepository{db: db, ridPrefix: ridPrefix}
}

// Create stores a report and assigns its RID from the page PID and the new row ID.
// report.Page must be loaded.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.Status == "" {
		report.Status = models.ReportStatusPending
	}
	report.PageID = report.Page.ID

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Page").Create(report).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create report")
		}

		rid := models.ReportRID(r.ridPrefix, report.Page.PID, report.ID)
		if err := tx.Model(report).UpdateColumn("rid", rid).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to assign report ID")
		}
		report.RID = &rid
		return nil
	})
}

// GetByID retrieves a report with its page
func (r *ReportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	result := r.db.WithContext(ctx).Preload("Page").First(&report, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "report not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get report")
	}

	return &report, nil
}

// GetByRID retrieves a report by its public reference ID
func (r *ReportRepository) GetByRID(ctx context.Context, rid string) (*models.Report, error) {
	var report models.Report
	result := r.db.WithContext(ctx).Preload("Page").Where("rid = ?", rid).First(&report)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "report not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get report")
	}

	return &report, nil
}

// List returns reports, oldest first. An empty status lists every report.
func (r *ReportRepository) List(ctx context.Context, status string, offset, limit int) ([]models.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count reports")
	}

	var reports []models.Report
	if err := query.Preload("Page").Order("created_at ASC").Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list reports")
	}
	return reports, total, nil
}

// SaveModeration writes status and description only while the stored
// report is still pending.
func (r *ReportRepository) SaveModeration(ctx context.Context, report *models.Report) error {
	result := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", report.ID, models.ReportStatusPending).
		UpdateColumns(map[string]interface{}{
			"status":      report.Status,
			"description": report.Description,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update report")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeState, "report is already resolved")
	}
	return nil
}

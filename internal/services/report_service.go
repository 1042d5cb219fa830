package services

import (
	"context"

	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/security"
	"github.com/mrouhi13/laum/pkg/errors"
	"github.com/mrouhi13/laum/pkg/logger"
	"github.com/mrouhi13/laum/pkg/utils"
)

// emptyDescription replaces a blank description when a report is resolved.
const emptyDescription = "-"

type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	GetByRID(ctx context.Context, rid string) (*models.Report, error)
	List(ctx context.Context, status string, offset, limit int) ([]models.Report, int64, error)
	SaveModeration(ctx context.Context, report *models.Report) error
}

// Limiter decides whether a key may act again in the current window.
type Limiter interface {
	Allow(key string) bool
}

type ReportInput struct {
	Body     string `json:"body"`
	Reporter string `json:"reporter"`
}

// Resolution is a staff change to a pending report. Nil fields are left as is.
type Resolution struct {
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ReportList struct {
	Reports    []models.Report `json:"reports"`
	Pagination Pagination      `json:"pagination"`
}

type ReportService struct {
	reports  ReportStore
	pages    PageStore
	editor   *ContentEditor
	notifier Notifier
	limiter  Limiter
	cfg      *config.Config
}

func NewReportService(reports ReportStore, pages PageStore, editor *ContentEditor, notifier Notifier, limiter Limiter, cfg *config.Config) *ReportService {
	return &ReportService{
		reports:  reports,
		pages:    pages,
		editor:   editor,
		notifier: notifier,
		limiter:  limiter,
		cfg:      cfg,
	}
}

// Submit files a visitor's report against an active page
func (s *ReportService) Submit(ctx context.Context, pid string, in ReportInput) (*models.Report, error) {
	page, err := s.pages.GetByPID(ctx, utils.NormalizePublicID(pid), true)
	if err != nil {
		return nil, err
	}

	reporter, ok := security.NormalizeEmail(in.Reporter)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "ایمیل گزارش‌دهنده معتبر نیست")
	}
	report := &models.Report{
		Page:     *page,
		PageID:   page.ID,
		Language: page.Language,
		Body:     s.editor.EditReportBody(in.Body),
		Reporter: reporter,
		Status:   models.ReportStatusPending,
	}
	if err := report.Validate(); err != nil {
		return nil, errors.New(errors.ErrCodeValidation, err.Error())
	}

	// Only well-formed reports count against the reporter's quota
	if s.limiter != nil && !s.limiter.Allow(reporter) {
		return nil, errors.New(errors.ErrCodeRateLimitExceeded, "تعداد گزارش‌های شما بیش از حد مجاز است، بعداً دوباره تلاش کنید")
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	logger.Info("Report submitted", "rid", deref(report.RID), "pid", page.PID)
	if err := s.notifier.NotifyNewReport(ctx, report); err != nil {
		logger.Warn("Failed to notify staff about new report", "rid", deref(report.RID), "error", err)
	}
	return report, nil
}

// Resolve applies a staff decision. Status and description are read-only
// once the report has left pending. The reporter is told on that first change.
func (s *ReportService) Resolve(ctx context.Context, id uint, res Resolution) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !report.IsPending() {
		return nil, errors.New(errors.ErrCodeState, "این گزارش قبلاً بررسی شده است")
	}

	changed := false
	if res.Status != nil && *res.Status != report.Status {
		if !models.IsValidReportStatus(*res.Status) {
			return nil, errors.Newf(errors.ErrCodeValidation, "وضعیت نامعتبر: %s", *res.Status)
		}
		report.Status = *res.Status
		changed = true
	}
	if res.Description != nil {
		description := s.editor.EditDescription(*res.Description)
		if description != report.Description {
			report.Description = description
			changed = true
		}
	}
	if !changed {
		return report, nil
	}

	resolved := !report.IsPending()
	if resolved && report.Description == "" {
		report.Description = emptyDescription
	}
	if err := report.Validate(); err != nil {
		return nil, errors.New(errors.ErrCodeValidation, err.Error())
	}

	if err := s.reports.SaveModeration(ctx, report); err != nil {
		return nil, err
	}

	if resolved {
		logger.Info("Report resolved", "rid", deref(report.RID), "status", report.Status)
		if err := s.notifier.NotifyReportResolved(ctx, report); err != nil {
			logger.Warn("Failed to notify reporter", "rid", deref(report.RID), "error", err)
		}
	}
	return report, nil
}

// Get retrieves a report by ID, for staff
func (s *ReportService) Get(ctx context.Context, id uint) (*models.Report, error) {
	return s.reports.GetByID(ctx, id)
}

// GetByRID lets a reporter follow up on a report
func (s *ReportService) GetByRID(ctx context.Context, rid string) (*models.Report, error) {
	return s.reports.GetByRID(ctx, utils.NormalizePublicID(rid))
}

// List returns reports for staff; an empty status lists all of them
func (s *ReportService) List(ctx context.Context, status string, page int) (*ReportList, error) {
	if status != "" && !models.IsValidReportStatus(status) {
		return nil, errors.Newf(errors.ErrCodeValidation, "وضعیت نامعتبر: %s", status)
	}

	page = clampPage(page)
	reports, total, err := s.reports.List(ctx, status, offsetFor(page, s.cfg.PageSize), s.cfg.PageSize)
	if err != nil {
		return nil, err
	}
	return &ReportList{Reports: reports, Pagination: newPagination(page, s.cfg.PageSize, total)}, nil
}

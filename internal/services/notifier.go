package services

import (
	"context"

	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/pkg/logger"
)

// Notifier tells staff and reporters about submissions and moderation.
type Notifier interface {
	NotifyNewPage(ctx context.Context, page *models.Page) error
	NotifyNewReport(ctx context.Context, report *models.Report) error
	NotifyReportResolved(ctx context.Context, report *models.Report) error
}

// LogNotifier records notifications in the application log.
type LogNotifier struct{}

func (LogNotifier) NotifyNewPage(_ context.Context, page *models.Page) error {
	logger.Info("New page submitted", "pid", page.PID, "language", page.Language, "author", page.Author)
	return nil
}

func (LogNotifier) NotifyNewReport(_ context.Context, report *models.Report) error {
	logger.Info("New report submitted", "rid", deref(report.RID), "pid", report.Page.PID, "reporter", report.Reporter)
	return nil
}

func (LogNotifier) NotifyReportResolved(_ context.Context, report *models.Report) error {
	logger.Info("Report resolved", "rid", deref(report.RID), "status", report.Status, "reporter", report.Reporter)
	return nil
}

// MultiNotifier fans a notification out to several notifiers and returns
// the first error.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyNewPage(ctx context.Context, page *models.Page) error {
	return m.each(func(n Notifier) error { return n.NotifyNewPage(ctx, page) })
}

func (m MultiNotifier) NotifyNewReport(ctx context.Context, report *models.Report) error {
	return m.each(func(n Notifier) error { return n.NotifyNewReport(ctx, report) })
}

func (m MultiNotifier) NotifyReportResolved(ctx context.Context, report *models.Report) error {
	return m.each(func(n Notifier) error { return n.NotifyReportResolved(ctx, report) })
}

func (m MultiNotifier) each(fn func(Notifier) error) error {
	var first error
	for _, n := range m {
		if err := fn(n); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

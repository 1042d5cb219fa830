package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/pkg/errors"
	"github.com/mrouhi13/laum/pkg/utils"
)

// Buttons
const (
	BtnAccept   = "✅ پذیرفتن"
	BtnDeny     = "❌ رد کردن"
	BtnActivate = "📢 انتشار صفحه"
)

// Messages
const (
	MsgHelp = "🛠 ربات مدیریت لاوم\n\n" +
		"صفحه‌ها و گزارش‌های تازه در همین گفت‌وگو فرستاده می‌شوند.\n" +
		"/pending فهرست گزارش‌های در انتظار بررسی"
	MsgUnknownCommand   = "دستور ناشناخته است. /help را بفرستید."
	MsgNoPendingReports = "🎉 هیچ گزارش در انتظاری نیست."
	MsgUnknownAction    = "این دکمه دیگر معتبر نیست."
	MsgDone             = "انجام شد ✅"
	MsgError            = "⚠️ خطایی رخ داد، دوباره تلاش کنید."
)

const previewRunes = 300

var statusLabels = map[string]string{
	models.ReportStatusPending:  "در انتظار بررسی",
	models.ReportStatusAccepted: "پذیرفته شد",
	models.ReportStatusDenied:   "رد شد",
}

// StatusLabel returns the Persian label of a report status
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// FormatNewPage renders a submitted page for the staff chat
func FormatNewPage(page *models.Page) string {
	var b strings.Builder
	b.WriteString("📄 <b>صفحه تازه</b>\n\n")
	fmt.Fprintf(&b, "شناسه: <code>%s</code>\n", html.EscapeString(page.PID))
	fmt.Fprintf(&b, "زبان: %s\n", html.EscapeString(page.Language))
	fmt.Fprintf(&b, "عنوان: <b>%s</b>\n", html.EscapeString(page.Title))
	if page.Subtitle != "" {
		fmt.Fprintf(&b, "زیرعنوان: %s\n", html.EscapeString(page.Subtitle))
	}
	if page.Author != "" {
		fmt.Fprintf(&b, "نویسنده: %s\n", html.EscapeString(page.Author))
	}
	fmt.Fprintf(&b, "\n%s", html.EscapeString(truncate(page.Content, previewRunes)))
	return b.String()
}

// FormatNewReport renders a report for the staff chat
func FormatNewReport(report *models.Report) string {
	rid := ""
	if report.RID != nil {
		rid = *report.RID
	}

	var b strings.Builder
	b.WriteString("🚩 <b>گزارش تازه</b>\n\n")
	fmt.Fprintf(&b, "شناسه: <code>%s</code>\n", html.EscapeString(rid))
	fmt.Fprintf(&b, "صفحه: <code>%s</code> %s\n", html.EscapeString(report.Page.PID), html.EscapeString(report.Page.Title))
	fmt.Fprintf(&b, "گزارش‌دهنده: %s\n", html.EscapeString(report.Reporter))
	fmt.Fprintf(&b, "\n%s", html.EscapeString(truncate(report.Body, previewRunes)))
	return b.String()
}

// FormatReportResolved announces a moderation decision
func FormatReportResolved(report *models.Report) string {
	rid := ""
	if report.RID != nil {
		rid = *report.RID
	}
	return fmt.Sprintf("📬 گزارش <code>%s</code> %s.\nتوضیح: %s",
		html.EscapeString(rid), StatusLabel(report.Status), html.EscapeString(report.Description))
}

// FormatResolvedBy is appended as plain text to the moderated message
func FormatResolvedBy(report *models.Report, staff string) string {
	return fmt.Sprintf("☑️ %s توسط %s", StatusLabel(report.Status), staff)
}

// FormatActivatedBy is appended as plain text to the moderated page message
func FormatActivatedBy(pid, staff string) string {
	return fmt.Sprintf("☑️ صفحه %s منتشر شد توسط %s", pid, staff)
}

// FormatPendingHeader summarises the /pending listing
func FormatPendingHeader(total int64, shown int) string {
	return fmt.Sprintf("📋 %s گزارش در انتظار بررسی (نمایش %s مورد)",
		utils.ToPersianDigits(strconv.FormatInt(total, 10)),
		utils.ToPersianDigits(strconv.Itoa(shown)))
}

// UserMessage returns the message of an AppError for display, or a
// generic message for anything else.
func UserMessage(err error) string {
	var appErr *errors.AppError
	if errors.As(err, &appErr) && appErr.Code != errors.ErrCodeInternalError {
		return appErr.Message
	}
	return MsgError
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "…"
}

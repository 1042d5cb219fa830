package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mrouhi13/laum/internal/models"
)

// Callback data prefixes
const (
	prefixAcceptReport = "report_accept_"
	prefixDenyReport   = "report_deny_"
	prefixActivatePage = "page_activate_"
)

type ActionKind int

const (
	ActionAcceptReport ActionKind = iota + 1
	ActionDenyReport
	ActionActivatePage
)

// Action is a decoded inline-button press.
type Action struct {
	Kind     ActionKind
	ReportID uint
	PID      string
}

// ReportStatus is the status an accept or deny action sets.
func (a Action) ReportStatus() string {
	if a.Kind == ActionAcceptReport {
		return models.ReportStatusAccepted
	}
	return models.ReportStatusDenied
}

// ParseCallback decodes callback data built by ReportKeyboard and PageKeyboard.
func ParseCallback(data string) (Action, bool) {
	switch {
	case strings.HasPrefix(data, prefixAcceptReport):
		return reportAction(ActionAcceptReport, strings.TrimPrefix(data, prefixAcceptReport))
	case strings.HasPrefix(data, prefixDenyReport):
		return reportAction(ActionDenyReport, strings.TrimPrefix(data, prefixDenyReport))
	case strings.HasPrefix(data, prefixActivatePage):
		pid := strings.TrimPrefix(data, prefixActivatePage)
		if pid == "" {
			return Action{}, false
		}
		return Action{Kind: ActionActivatePage, PID: pid}, true
	}
	return Action{}, false
}

func reportAction(kind ActionKind, raw string) (Action, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return Action{}, false
	}
	return Action{Kind: kind, ReportID: uint(id)}, true
}

// ReportKeyboard creates the Accept / Deny buttons of a pending report
func ReportKeyboard(reportID uint) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatUint(uint64(reportID), 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnAccept, prefixAcceptReport+id),
			tgbotapi.NewInlineKeyboardButtonData(BtnDeny, prefixDenyReport+id),
		),
	)
}

// PageKeyboard creates the Activate button of a submitted page
func PageKeyboard(pid string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnActivate, prefixActivatePage+pid),
		),
	)
}

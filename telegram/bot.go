package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/services"
	"github.com/mrouhi13/laum/pkg/logger"
)

const (
	workerCount    = 4
	workerQueueLen = 100
	requestTimeout = 15 * time.Second
)

// ReportModerator is the part of the report service the bot drives.
type ReportModerator interface {
	Resolve(ctx context.Context, id uint, res services.Resolution) (*models.Report, error)
	List(ctx context.Context, status string, page int) (*services.ReportList, error)
}

// PageModerator is the part of the page service the bot drives.
type PageModerator interface {
	Activate(ctx context.Context, pid string) error
}

// Bot posts new submissions to the staff chat and applies the staff's
// inline-button decisions. It only talks to the configured staff chat.
type Bot struct {
	api     *tgbotapi.BotAPI
	config  *config.Config
	reports ReportModerator
	pages   PageModerator

	// Worker pool for parallel processing
	workerChans  []chan tgbotapi.Update
	workers      sync.WaitGroup
	done         chan struct{}
	listenerDone chan struct{}
	stopOnce     sync.Once
}

// NewBot authorizes against Telegram. Call Start once the services exist.
func NewBot(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)
	return &Bot{api: api, config: cfg}, nil
}

// Start begins long polling and dispatching updates to the worker pool.
func (b *Bot) Start(reports ReportModerator, pages PageModerator) {
	b.reports = reports
	b.pages = pages

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	b.run(b.api.GetUpdatesChan(u))
}

func (b *Bot) run(updates tgbotapi.UpdatesChannel) {
	b.done = make(chan struct{})
	b.listenerDone = make(chan struct{})

	b.workerChans = make([]chan tgbotapi.Update, workerCount)
	for i := range b.workerChans {
		b.workerChans[i] = make(chan tgbotapi.Update, workerQueueLen)
		b.workers.Add(1)
		go b.startWorker(b.workerChans[i])
	}

	go b.startUpdateListener(updates)
}

// Stop ends polling and waits for the workers to drain their queues.
func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		if b.api != nil {
			b.api.StopReceivingUpdates()
		}
		if b.done == nil {
			return
		}
		close(b.done)
		<-b.listenerDone
		b.workers.Wait()
		logger.Info("Bot stopped receiving updates")
	})
}

// startUpdateListener owns the worker channels and closes them on exit.
func (b *Bot) startUpdateListener(updates tgbotapi.UpdatesChannel) {
	defer close(b.listenerDone)
	defer func() {
		for _, ch := range b.workerChans {
			close(ch)
		}
		logger.Info("Update listener stopped")
	}()

	for {
		select {
		case <-b.done:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			chatID := updateChatID(update)
			if chatID == 0 {
				continue
			}

			// Hashed dispatch keeps each chat's updates in order
			workerIdx := chatID % int64(len(b.workerChans))
			if workerIdx < 0 {
				workerIdx = -workerIdx
			}
			b.workerChans[workerIdx] <- update
		}
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	defer b.workers.Done()
	for update := range ch {
		b.handleUpdate(update)
	}
}

func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if chatID := updateChatID(update); chatID != b.config.StaffChatID {
		logger.Warn("Ignoring update from unknown chat", "chat_id", chatID)
		return
	}

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}

	switch message.Command() {
	case "start", "help":
		b.sendMessage(message.Chat.ID, MsgHelp, nil)
	case "pending":
		b.sendPendingReports(message.Chat.ID)
	default:
		b.sendMessage(message.Chat.ID, MsgUnknownCommand, nil)
	}
}

func (b *Bot) sendPendingReports(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	list, err := b.reports.List(ctx, models.ReportStatusPending, 1)
	if err != nil {
		logger.Error("Failed to list pending reports", "error", err)
		b.sendMessage(chatID, MsgError, nil)
		return
	}
	if len(list.Reports) == 0 {
		b.sendMessage(chatID, MsgNoPendingReports, nil)
		return
	}

	b.sendMessage(chatID, FormatPendingHeader(list.Pagination.Total, len(list.Reports)), nil)
	for i := range list.Reports {
		report := &list.Reports[i]
		b.sendMessage(chatID, FormatNewReport(report), ReportKeyboard(report.ID))
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	logger.Debug("Callback query", "data", query.Data, "user_id", query.From.ID)

	action, ok := ParseCallback(query.Data)
	if !ok {
		b.answerCallbackQuery(query.ID, MsgUnknownAction, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	staff := query.From.UserName
	if staff == "" {
		staff = query.From.FirstName
	}

	var (
		result string
		err    error
	)
	switch action.Kind {
	case ActionAcceptReport, ActionDenyReport:
		status := action.ReportStatus()
		var report *models.Report
		report, err = b.reports.Resolve(ctx, action.ReportID, services.Resolution{Status: &status})
		if err == nil {
			result = FormatResolvedBy(report, staff)
		}
	case ActionActivatePage:
		err = b.pages.Activate(ctx, action.PID)
		if err == nil {
			result = FormatActivatedBy(action.PID, staff)
		}
	}

	if err != nil {
		logger.Warn("Moderation action failed", "data", query.Data, "error", err)
		b.answerCallbackQuery(query.ID, UserMessage(err), true)
		return
	}

	b.answerCallbackQuery(query.ID, MsgDone, false)
	if query.Message != nil {
		b.editMessage(query.Message.Chat.ID, query.Message.MessageID, query.Message.Text+"\n\n"+result)
	}
}

// sendMessage sends text to a chat, retrying network failures.
func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	// Add RTL mark for Persian support
	rtlText := "\u200f" + text
	msg := tgbotapi.NewMessage(chatID, rtlText)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			if isNetworkError(err) {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

// editMessage replaces a message's text and drops its inline keyboard.
func (b *Bot) editMessage(chatID int64, messageID int, text string) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func (b *Bot) answerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err, "query_id", queryID)
	}
}

func isNetworkError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "network is unreachable")
}

// NotifyNewPage posts a submitted page with an Activate button.
func (b *Bot) NotifyNewPage(_ context.Context, page *models.Page) error {
	if b.sendMessage(b.config.StaffChatID, FormatNewPage(page), PageKeyboard(page.PID)) == 0 {
		return fmt.Errorf("failed to post page %s to staff chat", page.PID)
	}
	return nil
}

// NotifyNewReport posts a submitted report with Accept and Deny buttons.
func (b *Bot) NotifyNewReport(_ context.Context, report *models.Report) error {
	if b.sendMessage(b.config.StaffChatID, FormatNewReport(report), ReportKeyboard(report.ID)) == 0 {
		return fmt.Errorf("failed to post report %d to staff chat", report.ID)
	}
	return nil
}

// NotifyReportResolved records the decision in the staff chat.
func (b *Bot) NotifyReportResolved(_ context.Context, report *models.Report) error {
	if b.sendMessage(b.config.StaffChatID, FormatReportResolved(report), nil) == 0 {
		return fmt.Errorf("failed to post resolution of report %d", report.ID)
	}
	return nil
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrouhi13/laum/internal/handlers"
	"github.com/mrouhi13/laum/internal/middleware"
	"github.com/mrouhi13/laum/internal/repositories"
	"github.com/mrouhi13/laum/internal/services"
	"github.com/mrouhi13/laum/pkg/logger"
	"github.com/mrouhi13/laum/telegram"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the staff bot",
	Long:  `Starts the JSON API and, when BOT_TOKEN is set, the Telegram staff moderation bot.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting laum API...")

	pageRepo := repositories.NewPageRepository(db, cfg.PIDPrefix, cfg.GIDPrefix)
	reportRepo := repositories.NewReportRepository(db, cfg.RIDPrefix)
	tagRepo := repositories.NewTagRepository(db)
	userRepo := repositories.NewUserRepository(db)
	settingRepo := repositories.NewSettingRepository(db)

	notifier := services.MultiNotifier{services.LogNotifier{}}

	var bot *telegram.Bot
	if cfg.BotEnabled() {
		bot, err = telegram.NewBot(cfg)
		if err != nil {
			return err
		}
		notifier = append(notifier, bot)
	}

	limiter := middleware.NewRateLimiter(cfg.ReportLimitPerEmail, time.Hour)
	defer limiter.Stop()

	editor := services.NewContentEditor()
	pageService := services.NewPageService(pageRepo, tagRepo, editor, notifier, cfg)
	reportService := services.NewReportService(reportRepo, pageRepo, editor, notifier, limiter, cfg)
	authService := services.NewAuthService(userRepo, cfg)
	settingService := services.NewSettingService(settingRepo, cfg.Site)

	if bot != nil {
		bot.Start(reportService, pageService)
		logger.Info("Staff bot started", "chat_id", cfg.StaffChatID)
	}

	api := handlers.NewAPI(pageService, reportService, authService, settingService, cfg)
	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr, "env", cfg.AppEnv)
		serverErrors <- server.ListenAndServe()
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if bot != nil {
			bot.Stop()
		}
		return err
	case <-quit:
	}

	logger.Info("Shutting down gracefully...")
	if bot != nil {
		bot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"linksummary/internal/app"
	"linksummary/internal/bot"
	"linksummary/internal/config"
	"linksummary/internal/scheduler"
	"linksummary/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize app",
			"error", err,
			"provider", cfg.LLMProvider)

		return
	}
	log.InfoContext(ctx, "App is initialized",
		"provider", cfg.LLMProvider,
		"model", a.LLM.Model(),
		"cacheSize", cfg.SummaryCacheSize,
		"cacheTTL", cfg.SummaryCacheTTL)

	limiter := web.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	sched := scheduler.New(ctx, cfg.CacheSweepSpec, map[string]scheduler.Sweeper{
		"summaryCache": a.Cache,
		"rateLimiter":  limiter,
	}, log)

	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", cfg.CacheSweepSpec)

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", cfg.CacheSweepSpec)

	botInst := startBot(ctx, cfg, a, log)

	gin.SetMode(gin.ReleaseMode)

	server := web.New(a.Service, limiter, web.Config{
		Provider:       app.ProviderName(cfg.LLMProvider),
		Model:          a.LLM.Model(),
		RequestTimeout: cfg.RequestTimeout,
	}, log)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "HTTP server failed",
				"error", err,
				"addr", cfg.HTTPAddr)
			cancel()
		}
	}()
	log.InfoContext(ctx, "HTTP server is started",
		"addr", cfg.HTTPAddr)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "Failed to shut down HTTP server",
			"error", err)
	}
	log.InfoContext(shutdownCtx, "HTTP server is stopped",
		"uptimeSeconds", time.Since(start).Seconds())

	if botInst != nil {
		botInst.Stop()
		log.InfoContext(shutdownCtx, "Bot is stopped",
			"uptimeSeconds", time.Since(start).Seconds())
	}
}

func startBot(ctx context.Context, cfg config.Config, a *app.App, log *slog.Logger) *bot.Bot {
	if cfg.TelegramToken == "" {
		log.InfoContext(ctx, "TELEGRAM_TOKEN is missing so bot is disabled",
			"envVar", "TELEGRAM_TOKEN")

		return nil
	}

	if cfg.LLMAPIKey == "" {
		log.WarnContext(ctx, "LLM_API_KEY is missing so bot is disabled",
			"envVar", "LLM_API_KEY")

		return nil
	}

	botInst, err := bot.New(bot.Config{
		Token:          cfg.TelegramToken,
		APIKey:         cfg.LLMAPIKey,
		AllowedUsers:   cfg.AllowedUsers,
		RequestTimeout: cfg.RequestTimeout,
	}, a.Service, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize bot",
			"error", err,
			"allowedUsersCount", len(cfg.AllowedUsers))

		return nil
	}

	go botInst.Start(ctx)

	log.InfoContext(ctx, "Bot is started",
		"allowedUsersCount", len(cfg.AllowedUsers),
		"updateTimeoutSeconds", bot.BotUpdateTimeout)

	return botInst
}

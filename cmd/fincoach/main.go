// Command fincoach runs the FinCoach AI web frontend. All business logic
// lives in the backend API; this process renders views, keeps per-browser
// session state and proxies form submissions.
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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/rasika1205/FinCoachAI/internal/app"
	"github.com/rasika1205/FinCoachAI/internal/auth"
	"github.com/rasika1205/FinCoachAI/internal/creditscore"
	"github.com/rasika1205/FinCoachAI/internal/dashboard"
	"github.com/rasika1205/FinCoachAI/internal/fincoach"
	"github.com/rasika1205/FinCoachAI/internal/observability"
	"github.com/rasika1205/FinCoachAI/internal/playbook"
	"github.com/rasika1205/FinCoachAI/internal/profile"
	"github.com/rasika1205/FinCoachAI/internal/quests"
	"github.com/rasika1205/FinCoachAI/internal/session"
	"github.com/rasika1205/FinCoachAI/internal/shared"
	"github.com/rasika1205/FinCoachAI/internal/tracker"
	"github.com/rasika1205/FinCoachAI/internal/view"
	"github.com/rasika1205/FinCoachAI/internal/viewcache"
)

const sweepInterval = 15 * time.Minute

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient := connectRedis(cfg, logger)
	cache := viewcache.New(redisClient)

	client := fincoach.NewClient(cfg.BackendURL)
	sessions := session.NewManager(client, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	guard := session.Guard{LoginPath: "/login", DefaultPath: "/home"}
	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessions,
		CSRFManager:    csrfManager,
		Guard:          guard,

		AuthHandler:        auth.NewHandler(logger, templates, sessions, csrfManager, guard),
		DashboardHandler:   dashboard.NewHandler(logger, templates, csrfManager, guard, client, cache, cfg.DashboardCacheTTL),
		TrackerHandler:     tracker.NewHandler(logger, templates, csrfManager, guard, client),
		QuestsHandler:      quests.NewHandler(logger, templates, csrfManager, guard, client),
		PlaybookHandler:    playbook.NewHandler(logger, templates, csrfManager, guard, client),
		CreditScoreHandler: creditscore.NewHandler(logger, templates, csrfManager, guard, client, cache, cfg.CreditScoreCacheTTL),
		ProfileHandler:     profile.NewHandler(logger, templates, csrfManager, guard, client),

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, sessions, logger)

	go func() {
		logger.Info("frontend listening",
			slog.String("addr", cfg.AppAddr),
			slog.String("backend", cfg.BackendURL),
			slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

// connectRedis dials the cache. A missing redis is not fatal: the view
// cache degrades to fetching from the backend on every request.
func connectRedis(cfg *app.Config, logger *slog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, view cache disabled",
			slog.String("addr", cfg.RedisAddr),
			slog.Any("error", err))
		_ = client.Close()
		return nil
	}
	return client
}

// sweepSessions drops expired session entries on an interval.
func sweepSessions(ctx context.Context, sessions *session.Manager, logger *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.Sweep(); removed > 0 {
				logger.Debug("swept sessions", slog.Int("removed", removed))
			}
		}
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/shahyash1136/budgetAPI/internal/auth"
	"github.com/shahyash1136/budgetAPI/internal/config"
	"github.com/shahyash1136/budgetAPI/internal/email"
	"github.com/shahyash1136/budgetAPI/internal/httpapi"
	"github.com/shahyash1136/budgetAPI/internal/service"
	"github.com/shahyash1136/budgetAPI/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	var (
		authSvc       *service.AuthService
		resetSvc      *service.PasswordResetService
		usersSvc      *service.UsersService
		categoriesSvc *service.CategoriesService
		dbPing        func(context.Context) error
	)

	tokens := auth.NewTokenCodec([]byte(cfg.JWTSecret), cfg.JWTTTL)

	if cfg.DBDSN != "" {
		if err := postgres.Migrate(context.Background(), cfg.DBDSN); err != nil {
			logger.Error("db migrate failed", "err", err)
			os.Exit(1)
		}

		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		users := postgres.NewUsersStore(pgPool)
		categories := postgres.NewCategoriesStore(pgPool)

		authSvc = &service.AuthService{
			Users:  users,
			Tokens: tokens,
		}
		resetSvc = &service.PasswordResetService{
			Users:     users,
			Mailer:    email.NewSender(cfg.SMTP),
			Tokens:    tokens,
			TokenTTL:  cfg.ResetTokenTTL,
			PublicURL: cfg.PublicURL,
			Logger:    logger,
		}
		usersSvc = &service.UsersService{Store: users}
		categoriesSvc = &service.CategoriesService{Store: categories}
		dbPing = pgPool.Ping
	} else {
		logger.Warn("APP_DB_DSN not set, starting without persistence")
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:     logger,
		IsProd:     cfg.IsProd(),
		DBPing:     dbPing,
		Auth:       authSvc,
		Reset:      resetSvc,
		Users:      usersSvc,
		Categories: categoriesSvc,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

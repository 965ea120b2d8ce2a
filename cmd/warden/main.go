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

	"github.com/jackc/pgx/v5/pgxpool"
	dotenv "github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"go.avresk.dev/warden/internal/config"
	"go.avresk.dev/warden/internal/webapp"
	"go.avresk.dev/warden/wardenpg"
	"go.avresk.dev/warden/wardensession/serversession"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = dotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger); err != nil {
		logger.Error("warden: server exited with an error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	sessionConfig := serversession.NewConfig(func(c *serversession.Config) {
		c.Logger = logger
		c.ExpiresIn = cfg.SessionTTL
	})

	app := webapp.New(
		wardenpg.NewUserStore(pool),
		serversession.New(pool, sessionConfig),
		serversession.NewLogoutHandler(pool, sessionConfig),
		prometheus.NewRegistry(),
		webapp.NewConfig(func(c *webapp.Config) {
			c.Logger = logger
			c.CSRFSecret = cfg.CSRFSecret
			c.CookieSecure = cfg.CookieSecure
		}),
	)

	handler, err := app.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("warden: listening", slog.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("warden: shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		shutdownTimeout,
	)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

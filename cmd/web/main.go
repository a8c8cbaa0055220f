// cmd/web/main.go
//
// Registration service – HTTP entry point.
//
// Start-up
// --------
//
//  1. Console bootstrap logger, so configuration errors are visible.
//
//  2. Load configuration (conf/.env → conf/global.yaml → REGISTER_* env,
//     Vault references resolved, validated).
//
//  3. Start the daily rotating logger (tees to console when running in a TTY).
//
//  4. Build the submission backend named by `submission.backend`:
//
//     • delay     – simulated round trip, always succeeds
//     • database  – MySQL row per registration (schema applied at start)
//     • webhook   – JSON POST to `submission.webhook_url`
//
//  5. One submission.Controller for the process, CSRF signer, components.
//
//  6. Router: request ID → request info → access log → panic recovery →
//     HTTPS redirect → security headers, then /metrics, /healthz, and every
//     component's routes.
//
//  7. Serve until SIGINT or SIGTERM, then shut down gracefully.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/register/internal/component"
	"github.com/yanizio/register/internal/config"
	"github.com/yanizio/register/internal/database"
	"github.com/yanizio/register/internal/form"
	"github.com/yanizio/register/internal/logger"
	"github.com/yanizio/register/internal/middleware"
	"github.com/yanizio/register/internal/requestinfo"
	"github.com/yanizio/register/internal/server"
	"github.com/yanizio/register/internal/submission"
	"github.com/yanizio/register/internal/webhook"

	_ "github.com/yanizio/register/components/register" // registration page
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	logger.Bootstrap()
	if err := run(); err != nil {
		zap.S().Errorw("fatal", "err", err)
		_ = zap.S().Sync()
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Configuration and logger ────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogDir(), cfg.Log.Level, runningInTTY())
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	//
	// ── 2.  Submission backend and controller ───────────────────────────
	//
	acc, closeBackend, err := newAcceptor(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	ctl := submission.New(acc, cfg.Submission.Timeout, log.Named("submission"))

	tokens, generated, err := form.NewTokens(cfg.CSRF.Key)
	if err != nil {
		return err
	}
	if generated {
		log.Warnw("csrf.key not set, using a per-process key; open forms break on restart")
	}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestinfo.Enrich)
	r.Use(middleware.RequestLog(log.Named("http")))
	r.Use(chimw.Recoverer)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(middleware.Security)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/register", http.StatusFound)
	})

	deps := component.Deps{
		Config:     cfg,
		Log:        log,
		Controller: ctl,
		Tokens:     tokens,
	}
	if err := component.MountAll(r, deps); err != nil {
		return err
	}

	//
	// ── 4.  Serve until signalled ───────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})
	srv.RegisterOnShutdown(component.CloseAll)

	return server.Run(ctx, srv, nil, log)
}

// newAcceptor builds the configured submission backend.  The returned close
// function is always non-nil.
func newAcceptor(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (submission.Acceptor, func(), error) {
	noop := func() {}

	switch cfg.Submission.Backend {
	case config.BackendDatabase:
		db, err := database.Open(ctx, cfg.Database.DSN, cfg.Database.Password)
		if err != nil {
			return nil, noop, err
		}
		if err := database.Migrate(ctx, db, component.Migrations()); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		log.Infow("submission backend ready", "backend", config.BackendDatabase)
		return database.NewStore(db), func() { _ = db.Close() }, nil

	case config.BackendWebhook:
		s := webhook.New(cfg.Submission.WebhookURL)
		if cfg.Submission.WebhookToken != "" {
			s.Header = http.Header{"Authorization": {"Bearer " + cfg.Submission.WebhookToken}}
		}
		log.Infow("submission backend ready", "backend", config.BackendWebhook)
		return s, noop, nil

	default:
		log.Infow("submission backend ready", "backend", config.BackendDelay, "delay", cfg.Submission.Delay)
		return submission.Delay(cfg.Submission.Delay), noop, nil
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"civitec/internal/platform/config"
	"civitec/internal/platform/db"
	"civitec/internal/platform/email"
	"civitec/internal/platform/metrics"
	adminhandler "civitec/internal/transport/http/handlers/admin"
	authhandler "civitec/internal/transport/http/handlers/auth"
	hrhandler "civitec/internal/transport/http/handlers/hr"
	licitacaohandler "civitec/internal/transport/http/handlers/licitacao"
	obrashandler "civitec/internal/transport/http/handlers/obras"
	reportshandler "civitec/internal/transport/http/handlers/reports"
	tributoshandler "civitec/internal/transport/http/handlers/tributos"
	"civitec/internal/transport/http/middleware"
)

// Run boots the whole service: config, database, migrations and seed,
// then the HTTP server. It blocks until SIGINT/SIGTERM and shuts down
// gracefully.
func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, pool, collector),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(cfg config.Config, pool *pgxpool.Pool, collector *metrics.Collector) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(collector))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(cfg.Environment == "production"))

	// Probes and metrics stay outside the rate-limited group so
	// aggressive health checks sharing an IP with users never 429.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if collector != nil {
		r.Handle("/metrics", collector.Handler())
	}

	authH := authhandler.NewHandler(pool, cfg.JWTSecret)
	hrH := hrhandler.NewHandler(pool, cfg.SeedMunicipality, cfg.DefaultPageSize, cfg.MaxPageSize)
	tributosH := tributoshandler.NewHandler(pool, cfg.DefaultPageSize, cfg.MaxPageSize)
	licitacaoH := licitacaohandler.NewHandler(pool, cfg.DefaultPageSize, cfg.MaxPageSize)
	obrasH := obrashandler.NewHandler(pool, cfg.DefaultPageSize, cfg.MaxPageSize)
	reportsH := reportshandler.NewHandler(pool, cfg.SeedMunicipality)
	adminH := adminhandler.NewHandler(pool, email.New(cfg), cfg.BaseURL,
		cfg.InviteTTL, cfg.DefaultPageSize, cfg.MaxPageSize)

	r.Route("/api/v1", func(r chi.Router) {
		// Auth runs before the limiters so signed-in traffic is
		// bucketed per account rather than per source address.
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		r.Post("/auth/login", authH.HandleLogin)
		adminH.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated)
			r.Post("/auth/logout", authH.HandleLogout)
			r.Get("/me", authH.HandleMe)
		})

		hrH.RegisterRoutes(r)
		tributosH.RegisterRoutes(r)
		licitacaoH.RegisterRoutes(r)
		obrasH.RegisterRoutes(r)
		reportsH.RegisterRoutes(r)
		adminH.RegisterRoutes(r)
	})

	r.NotFound(spaHandler(cfg.FrontendDir))
	return r
}

// spaHandler serves the built frontend, falling back to index.html so
// client-side routes resolve on hard refresh. API misses stay 404.
func spaHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}

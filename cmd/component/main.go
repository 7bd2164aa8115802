// Command component runs the component HTTP service.
//
// Configuration comes from the environment (optionally seeded from a .env
// file). The process serves until SIGINT/SIGTERM, then drains in-flight
// requests before closing the database pool and flushing traces.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/tbourn/go-component-service/internal/config"
	httpapi "github.com/tbourn/go-component-service/internal/http"
	"github.com/tbourn/go-component-service/internal/observability"
	"github.com/tbourn/go-component-service/internal/repo"
	"github.com/tbourn/go-component-service/internal/usage"
	"github.com/tbourn/go-component-service/internal/workflow"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	flagEnvFile = "env-file"
	flagPort    = "port"

	shutdownTimeout = 15 * time.Second
)

func main() {
	app := &cli.App{
		Name:    "component",
		Usage:   "start the component HTTP service",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagEnvFile,
				Value: ".env",
				Usage: "dotenv file loaded before reading the environment (skipped when absent)",
			},
			&cli.StringFlag{
				Name:    flagPort,
				Usage:   "listen port, overrides PORT",
				EnvVars: []string{"COMPONENT_PORT"},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	if err := loadEnvFile(c.String(flagEnvFile), c.IsSet(flagEnvFile)); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if p := c.String(flagPort); p != "" {
		cfg.Port = p
	}

	logger := observability.SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg, version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg.DatabaseURL)
	switch {
	case errors.Is(err, repo.ErrNotConfigured):
		logger.Info().Msg("no DATABASE_URL; readiness skips the database")
	case err != nil:
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		if err := repo.Close(db); err != nil {
			logger.Warn().Err(err).Msg("database close")
		}
	}()

	if !cfg.InternalAuthConfigured() {
		logger.Warn().Msg("PLATFORM_INTERNAL_SECRET not set; protected routes will answer 500")
	}

	// Usage counters are exported from startup so dashboards see zero series.
	usage.NewCollectors(prometheus.DefaultRegisterer)

	wf, err := workflow.NewClient(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("workflow client disabled")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, cfg, httpapi.Deps{
		Ready:    repo.Probe{DB: db},
		Workflow: wf,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Bool("swagger", cfg.SwaggerEnabled).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadEnvFile seeds the environment from path. Variables already set win. A
// missing file is only an error when the flag was given explicitly.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}

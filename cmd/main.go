// Package main is the podium highscore service entrypoint.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/okian/podium/internal/adapters/cache"
	"github.com/okian/podium/internal/adapters/http/api"
	"github.com/okian/podium/internal/adapters/storage"
	"github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/internal/domain/integrity"
	"github.com/okian/podium/internal/domain/registry"
	"github.com/okian/podium/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

var rootCmd = &cobra.Command{
	Use:   "podium",
	Short: "Serves persistent, bounded highscore tables over HTTP.",
	RunE:  run,
}

func init() {
	f := rootCmd.Flags()
	f.String("addr", "", "HTTP listen address, e.g. :8080")
	f.String("tables", "", "comma-separated table names")
	f.Int("capacity", 0, "number of highscores retained per table")
	f.String("data-dir", "", "directory holding the table files")
	f.Bool("require-proof", false, "require a proof value on submissions")
	f.String("proof-salt", "", "salt mixed into the submission proof")
	f.Bool("record-time", false, "store a submission timestamp per entry")
	f.String("log-level", "", "log verbosity: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyFlags overrides loaded config with explicitly set CLI flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	var err error
	if f.Changed("addr") {
		cfg.Addr, err = f.GetString("addr")
	}
	if err == nil && f.Changed("tables") {
		cfg.Tables, err = f.GetString("tables")
	}
	if err == nil && f.Changed("capacity") {
		cfg.Capacity, err = f.GetInt("capacity")
	}
	if err == nil && f.Changed("data-dir") {
		cfg.DataDir, err = f.GetString("data-dir")
	}
	if err == nil && f.Changed("require-proof") {
		cfg.RequireProof, err = f.GetBool("require-proof")
	}
	if err == nil && f.Changed("proof-salt") {
		cfg.ProofSalt, err = f.GetString("proof-salt")
	}
	if err == nil && f.Changed("record-time") {
		cfg.RecordTime, err = f.GetBool("record-time")
	}
	if err == nil && f.Changed("log-level") {
		cfg.LogLevel, err = f.GetString("log-level")
	}
	if err != nil {
		return pkgerrors.Wrap(err, "read flag failed")
	}
	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(); err != nil {
		return pkgerrors.Wrap(err, "initialize logging failed")
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env), then let
	// explicit CLI flags win.
	cfg, err := config.Load(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "load config failed")
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	reg, err := registry.New(cfg.TableNames())
	if err != nil {
		return pkgerrors.Wrap(err, "build table registry failed")
	}

	store := storage.NewCSVStore(cfg.DataDir, storage.WithTimestamps(cfg.RecordTime))
	rankings := cache.New(store)

	verifier := integrity.Disabled()
	if cfg.RequireProof {
		verifier = integrity.New(cfg.ProofSalt)
	}

	engine := app.New(reg, store, rankings,
		app.WithCapacity(cfg.Capacity),
		app.WithVerifier(verifier),
		app.WithTimestamps(cfg.RecordTime),
		app.WithLogger(log.Named("engine")),
	)

	log.Info(ctx, "highscore engine ready",
		logger.Any("tables", reg.Names()),
		logger.Int("capacity", cfg.Capacity),
		logger.Bool("require_proof", cfg.RequireProof),
		logger.Bool("record_time", cfg.RecordTime),
		logger.String("data_dir", cfg.DataDir),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(engine).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return pkgerrors.Wrap(err, "HTTP server failed")
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return pkgerrors.Wrap(err, "server shutdown failed")
	}

	log.Info(ctx, "server stopped")
	return nil
}

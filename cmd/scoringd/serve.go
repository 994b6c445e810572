package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"scoringd/internal/httpapi"
	"scoringd/internal/manager"
)

const shutdownTimeout = 5 * time.Second

func runServe(parent context.Context, o *rootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg := o.cfg
	log := o.logger
	mcfg, err := managerConfig(cfg, &log)
	if err != nil {
		return err
	}
	mgr := manager.NewWithConfig(mcfg)

	// Graceful shutdown (Ctrl+C / SIGTERM)
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpapi.SetLogger(log)
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, nil, nil)
	httpapi.SetRateLimit(cfg.RateLimitPerMinute)
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if !mgr.Ready() {
		log.Warn().Str("model_dir", cfg.ModelDir).Msg("model directory has no usable artifact yet; /score will fail until it does")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("model_dir", cfg.ModelDir).
			Str("artifact_policy", cfg.ArtifactPolicy).
			Bool("cache", cfg.CacheEnabled).
			Msg("scoringd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}

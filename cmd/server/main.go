package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudstorage/internal/auth"
	"cloudstorage/internal/bootstrap"
	"cloudstorage/internal/config"
	"cloudstorage/internal/handler"
	"cloudstorage/internal/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	extra, closeLogs, err := cfg.LogWriters()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open log file")
	}
	defer closeLogs()

	logg := logger.NewLogger("server", cfg.LogLevel, extra...)
	logg.Info().
		Str("environment", cfg.Environment).
		Str("port", cfg.Port).
		Str("storage", cfg.Storage.Driver).
		Str("lock", cfg.Lock.Driver).
		Bool("strict_consistency", cfg.Tree.StrictConsistency).
		Msg("server starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := bootstrap.NewVerifier(cfg.Auth, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to create JWT verifier")
	}
	defer verifier.Close()

	store, err := bootstrap.OpenStore(ctx, cfg.Storage, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to open store")
	}
	defer store.Close()

	locker, closeLocker, err := bootstrap.NewLocker(ctx, cfg.Lock, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to create owner lock")
	}
	defer closeLocker()

	services := bootstrap.NewServices(store, locker, cfg.Tree, logg)
	logg.Info().Msg("services initialized")

	router := handler.NewRouter(handler.Handlers{
		Health:    handler.NewHealthHandler(store.Ping, logg),
		Dashboard: handler.NewDashboardHandler(services.Dashboard, logg),
		Folders:   handler.NewFolderHandler(services.Tree, services.Dashboard, logg),
		Files:     handler.NewFileHandler(services.Files, logg),
	}, handler.RouterConfig{
		Resolver:    auth.NewCallerResolver(verifier, cfg.Auth.CookieName),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logg,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logg.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("graceful shutdown failed")
	}
}

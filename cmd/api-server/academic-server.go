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

	"academic/db"
	"academic/db/migrations"
	"academic/internal/auth"
	"academic/internal/config"
	"academic/internal/handlers"
	"academic/internal/service"
	"academic/internal/uploads"
	"academic/models"
)

const tokenIssuer = "academic"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(ctx, cfg.PostgresConn, db.PoolOptions{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		log.Error("cannot connect to DB", "err", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if cfg.RunMigrations {
		if err := migrations.Run(dbConn.DB); err != nil {
			log.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	docs, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		log.Error("cannot prepare upload dir", "dir", cfg.UploadDir, "err", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, tokenIssuer, cfg.AccessTokenTTL)
	svc := service.New(db.NewStorage(dbConn), tokens, docs, service.WithLogger(log))

	if cfg.BootstrapAdmin.Enabled() {
		admin, created, err := svc.Auth.EnsureAdmin(ctx, models.RegisterInput{
			NationalID: cfg.BootstrapAdmin.NationalID,
			Name:       cfg.BootstrapAdmin.Name,
			Email:      cfg.BootstrapAdmin.Email,
			Password:   cfg.BootstrapAdmin.Password,
		})
		if err != nil {
			log.Error("bootstrap admin failed", "err", err)
			os.Exit(1)
		}
		log.Info("bootstrap admin ready", "user_id", admin.ID, "created", created)
	}

	h := handlers.NewHandler(svc, handlers.Options{
		Logger:             log,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRatePerSecond:  cfg.AuthRatePerSecond,
		AuthBurst:          cfg.AuthBurst,
		TrustedProxies:     cfg.TrustedProxies,
	})
	go h.RunLimiterCleanup(ctx)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownAfter)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownAfter)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/sandbox"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/config"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/database"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting sandbox backend",
		zap.String("env", cfg.AppEnv),
		zap.String("write_addr", cfg.SandboxWriteAddr),
		zap.String("read_addr", cfg.SandboxReadAddr),
	)

	ctx := context.Background()
	if !strings.HasPrefix(cfg.SandboxDatabaseURL, "postgres") && cfg.SandboxDatabaseURL != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SandboxDatabaseURL), 0o755); err != nil {
			log.Fatal("Failed to create database directory", zap.Error(err))
		}
	}
	db, err := database.Open(ctx, cfg.SandboxDatabaseURL, database.Options{Verbose: cfg.IsDevelopment()})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := sandbox.Migrate(db); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Database ready")

	secret := []byte(cfg.SandboxJWTSecret)
	if len(secret) == 0 {
		if !cfg.IsDevelopment() {
			log.Fatal("SANDBOX_JWT_SECRET is required outside development")
		}
		log.Warn("SANDBOX_JWT_SECRET not set, using default (INSECURE for production)")
		secret = []byte("change-me-in-production-please")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sb, err := sandbox.New(db, sandbox.Options{JWTSecret: secret, Registry: reg})
	if err != nil {
		log.Fatal("Failed to build sandbox", zap.Error(err))
	}
	if cfg.SandboxAdminEmail != "" && cfg.SandboxAdminPassword != "" {
		if err := sb.SeedAdmin(ctx, "Super Admin", cfg.SandboxAdminEmail, cfg.SandboxAdminPassword); err != nil {
			log.Fatal("Failed to seed admin", zap.Error(err))
		}
	}

	servers := []*http.Server{
		newServer(cfg.SandboxWriteAddr, sb.WriteHandler()),
		newServer(cfg.SandboxReadAddr, sb.ReadHandler()),
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			log.Info("HTTP server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				sb.SweepLimiters(10 * time.Minute)
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("servers exited gracefully")
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}

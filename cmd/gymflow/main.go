package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/gymflow/internal/config"
	"github.com/claude/gymflow/internal/health"
	"github.com/claude/gymflow/internal/importer"
	"github.com/claude/gymflow/internal/server"
	"github.com/claude/gymflow/internal/storage"
	"github.com/claude/gymflow/internal/workout"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("GymFlow starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	if err := storage.RunMigrations(cfg.Database.Path, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Open database
	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database opened", "path", cfg.Database.Path)

	// Bootstrap the catalog (idempotent; reloads on routine updates)
	imp := importer.New(db, log)
	if _, err := imp.Bootstrap(ctx, cfg.Catalog.RoutinePath); err != nil {
		log.Error("catalog bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Health sink: a gateway client when configured, otherwise a no-op.
	// Authorization denial is logged, never fatal — workouts save locally
	// regardless.
	var sink workout.HealthSink = health.Disabled{}
	if cfg.Health.Enabled {
		client := health.NewClient(cfg.Health.GatewayURL)
		if client.RequestAuthorization(ctx) {
			log.Info("health gateway authorized", "url", cfg.Health.GatewayURL)
		} else {
			log.Warn("health gateway authorization denied, workouts still save locally")
		}
		sink = client
	}

	srv := server.New(db, sink, cfg.Auth.APIKey, log)
	if cfg.Tailscale.Enabled && cfg.Auth.APIKey == "" {
		log.Warn("serving over tsnet without an API key; set auth.api_key to gate the API")
	}

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

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

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fittrack/internal/config"
	"github.com/meltforce/fittrack/internal/food"
	"github.com/meltforce/fittrack/internal/goals"
	"github.com/meltforce/fittrack/internal/imagestore"
	fitmcp "github.com/meltforce/fittrack/internal/mcp"
	"github.com/meltforce/fittrack/internal/recognition"
	fitserver "github.com/meltforce/fittrack/internal/server"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/workout"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit (postgres only)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("FitTrack starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Create services
	repo := storage.NewRepository(store)
	images, err := imagestore.New(cfg.Images)
	if err != nil {
		log.Error("failed to create image store", "provider", cfg.Images.Provider, "error", err)
		os.Exit(1)
	}
	recognizer := recognition.NewClient(cfg.Recognition.Endpoint, repo, cfg.Recognition.Timeout)

	workouts := workout.NewService(repo, log)
	goalSvc := goals.NewService(repo, log)
	foodSvc := food.NewService(repo, images, recognizer, log)

	// Create server
	srv := fitserver.New(workouts, goalSvc, foodSvc, repo, cfg.Auth.APIKey, log)
	if cfg.Images.Provider == "local" {
		srv.ServeUploads(cfg.Images.LocalDir)
	}

	mcpSrv := fitmcp.New(fitmcp.Services{Workouts: workouts, Food: foodSvc, Goals: goalSvc}, Version, log)
	srv.MountMCP(server.NewStreamableHTTPServer(mcpSrv))

	// Start server on tsnet or plain HTTP
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

// openStore opens the configured document store. PostgreSQL migrations run
// before the pool is opened.
func openStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (storage.Store, error) {
	if cfg.Driver == "sqlite" {
		store, err := storage.OpenSQLite(cfg.SQLiteDir)
		if err != nil {
			return nil, err
		}
		log.Info("sqlite store opened", "dir", cfg.SQLiteDir)
		return store, nil
	}

	dsn := cfg.Postgres.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Info("migrations applied")

	db, err := storage.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	log.Info("database connected")
	return db, nil
}

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

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/openlift/liftlog/internal/catalog"
	"github.com/openlift/liftlog/internal/config"
	"github.com/openlift/liftlog/internal/mcp"
	"github.com/openlift/liftlog/internal/server"
	"github.com/openlift/liftlog/internal/storage"
	"github.com/openlift/liftlog/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("LiftLog starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open storage. Driver "none" (or unset) keeps everything in memory.
	ctx := context.Background()
	var repo storage.Repository
	if !cfg.Database.Enabled() {
		if *migrateOnly {
			log.Info("migrate-only: no database configured, nothing to do")
			return
		}
		log.Info("no database configured, sessions are in-memory only")
	} else {
		url := cfg.Database.URL()
		if err := storage.RunMigrations(url); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied", "driver", cfg.Database.Driver)

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		switch cfg.Database.Driver {
		case "sqlite":
			repo, err = storage.OpenSQLite(cfg.Database.Path)
		case "postgres":
			repo, err = storage.NewPostgres(ctx, url)
		}
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = repo.Close() }()
		log.Info("database connected", "driver", cfg.Database.Driver)
	}

	// Catalog and workout store
	cat := catalog.New()
	store := workout.NewStore(cat, repo, log)
	if err := store.LoadHistory(ctx); err != nil {
		log.Error("failed to load workout history", "error", err)
		os.Exit(1)
	}

	// HTTP server with embedded MCP endpoint
	srv := server.New(cat, store, cfg.Auth.APIKey, log)
	mcpSrv := mcp.New(mcp.NewLocalSource(cat, store), Version, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))

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

package main

import (
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/openlift/liftlog/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// liftlog-mcp bridges a local MCP client (stdio) to a remote LiftLog server.
// Logs go to stderr; stdout carries the protocol.
func main() {
	serverURL := flag.String("server", "", "base URL of the LiftLog server (required)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		log.Error("missing required -server flag")
		flag.Usage()
		os.Exit(1)
	}

	ds := mcp.NewHTTPClient(*serverURL)
	srv := mcp.New(ds, Version, log)

	log.Info("liftlog-mcp starting", "server", *serverURL, "version", Version)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

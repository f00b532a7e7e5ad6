package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	fitmcp "github.com/meltforce/fittrack/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "FitTrack server URL (e.g. https://fittrack.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("FITTRACK_AUTH_API_KEY"), "FitTrack API key (default $FITTRACK_AUTH_API_KEY)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fittrack-mcp", Version)
		return
	}

	if *serverURL == "" || *apiKey == "" {
		fmt.Fprintf(os.Stderr, "Usage: fittrack-mcp -server <URL> -api-key <key>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("fittrack-mcp starting", "version", Version, "server", *serverURL)

	ds := fitmcp.NewHTTPClient(*serverURL, *apiKey)
	if err := server.ServeStdio(fitmcp.New(ds, Version, log)); err != nil {
		log.Error("stdio server failed", "error", err)
		os.Exit(1)
	}
}

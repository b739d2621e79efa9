package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/ironsheep/detect-overlay/internal/config"
	"github.com/ironsheep/detect-overlay/internal/detection"
	"github.com/ironsheep/detect-overlay/internal/overlay"
	"github.com/ironsheep/detect-overlay/internal/pipeline"
	"github.com/ironsheep/detect-overlay/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("detect-overlay-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("detect-overlay-mcp - MCP server that draws object detections over images")
			fmt.Println()
			fmt.Println("Usage: detect-overlay-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  DETECT_ENDPOINT=<url>          Detection model endpoint (required)")
			fmt.Println("  DETECT_API_KEY=<key>           Sent as the api_key query parameter")
			fmt.Println("  DETECT_CONFIDENCE=20           Confidence threshold hint, 0-100")
			fmt.Println("  DETECT_TIMEOUT=30s             Detection request timeout")
			fmt.Println("  DETECT_LOG_LEVEL=info          debug, info, warn or error")
			fmt.Println("  DETECT_COLORS=cat=#00FF00,...  Extra label colors, merged over digits 0-9")
			fmt.Println("  DETECT_FALLBACK_COLOR=#FF0000  Color for unmapped labels")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout is for MCP protocol
	zl, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(2)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	logger.Infow("starting detect-overlay-mcp",
		"version", Version, "built", BuildTime, "commit", GitCommit,
		"endpoint", cfg.Endpoint, "confidence", cfg.Confidence, "timeout", cfg.Timeout)
	if cfg.Endpoint == "" {
		logger.Warnf("%s is not set; detect_objects will fail until it is", config.EnvEndpoint)
	}

	client := detection.NewClient(&http.Client{Timeout: cfg.Timeout}, logger)
	session := pipeline.NewSession(client, overlay.NewRenderer(cfg.Colors), cfg.Detection(), logger)
	srv := server.New(session, Version, logger)

	// The client ends the session by closing stdin
	if err := srv.Run(context.Background()); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/fractal-mcp/internal/render"
	"github.com/ironsheep/fractal-mcp/internal/server"
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
			fmt.Printf("fractal-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("fractal-mcp - MCP server for rendering the Mandelbrot set")
			fmt.Println()
			fmt.Println("Usage: fractal-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  FRACTAL_MCP_LOG_LEVEL=debug|info|warn|error    Log level (default warn)")
			fmt.Println("  FRACTAL_MCP_CACHE_SIZE=16                      Renders kept for inspection")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Log to stderr; stdout is for MCP protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("FRACTAL_MCP_LOG_LEVEL")),
	}))
	render.SetLogger(logger)
	server.Version = Version

	logger.Debug("fractal MCP server starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	cacheSize, _ := strconv.Atoi(os.Getenv("FRACTAL_MCP_CACHE_SIZE"))

	srv := server.New(server.WithLogger(logger), server.WithCacheSize(cacheSize))
	if err := srv.Run(context.Background()); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/specialistvlad/recipegrid/internal/cli"
)

// main is the entrypoint for recipectl.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Command sitesnap captures screenshots of an already-built static
// site. It is the standalone equivalent of running the plugin inside a
// build: the config and build hooks fire once each, back to back.
//
// Usage:
//
//	sitesnap -config sitesnap.yaml             # root taken from config
//	sitesnap -config sitesnap.yaml -root dist  # override built output dir
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/sitesnap"
)

func main() {
	configPath := flag.String("config", "", "path to sitesnap.yaml config file")
	root := flag.String("root", "", "built site directory (overrides config)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *root); err != nil {
		logger.Error("sitesnap: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, root string) error {
	if configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: sitesnap -config <file> [-root <dir>]")
		os.Exit(1)
	}

	cfg, err := sitesnap.LoadFile(configPath)
	if err != nil {
		return err
	}
	if root == "" {
		root = cfg.Root
	}
	if root == "" {
		return fmt.Errorf("no built site directory: set -root or root: in the config")
	}

	p := sitesnap.New(*cfg)
	if err := p.ConfigDone(sitesnap.BuildConfig{RootDir: root}); err != nil {
		return err
	}
	return p.BuildDone(ctx, logger)
}

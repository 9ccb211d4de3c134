// Package sitesnap captures screenshots of a static site as the last
// step of its build. It hangs two handlers off the host build system's
// lifecycle: one records the finalized project root, the other starts a
// local preview server, drives a headless browser over the configured
// routes, and writes one image per capture.
//
// Typical usage from a build integration:
//
//	p := sitesnap.New(cfg)
//	// config-finalized hook:
//	if err := p.ConfigDone(sitesnap.BuildConfig{RootDir: outDir}); err != nil { ... }
//	// build-finished hook:
//	if err := p.BuildDone(ctx, logger); err != nil { ... }
//
// The capture loop is strictly sequential and stops on the first
// failure; images already written stay on disk, the browser and server
// are torn down regardless.
package sitesnap

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/hazyhaar/sitesnap/capture"
	"github.com/hazyhaar/sitesnap/preview"
)

// BuildConfig is the slice of the host's finalized build configuration
// the plugin cares about.
type BuildConfig struct {
	// RootDir is the directory holding the built site. Relative
	// capture output paths resolve against it and the preview server
	// serves it.
	RootDir string
}

// Plugin lifecycle states. The two hooks run exactly once each, in
// order; BuildDone refuses to run before ConfigDone has.
type state int

const (
	stateNew state = iota
	stateConfigured
	stateDone
)

// Plugin is the lifecycle adapter. Create one per build via New.
type Plugin struct {
	cfg    Config
	launch launchFunc
	state  state
	root   string
}

type launchFunc func(ctx context.Context, opts capture.LaunchOptions, logger *slog.Logger) (capture.Browser, error)

// Option customizes a Plugin.
type Option func(*Plugin)

// WithLauncher replaces the browser launcher. Tests use this to
// substitute a fake engine.
func WithLauncher(fn func(ctx context.Context, opts capture.LaunchOptions, logger *slog.Logger) (capture.Browser, error)) Option {
	return func(p *Plugin) { p.launch = fn }
}

// New creates a Plugin from configuration.
func New(cfg Config, opts ...Option) *Plugin {
	cfg.defaults()
	p := &Plugin{cfg: cfg, launch: capture.Launch}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ConfigDone records the finalized project root. It must run before
// BuildDone, mirroring the host's config-finalized hook order.
func (p *Plugin) ConfigDone(build BuildConfig) error {
	if p.state != stateNew {
		return fmt.Errorf("sitesnap: config hook invoked twice")
	}
	if build.RootDir == "" {
		return fmt.Errorf("sitesnap: build root directory is empty")
	}
	root, err := filepath.Abs(build.RootDir)
	if err != nil {
		return fmt.Errorf("sitesnap: resolve root: %w", err)
	}
	p.root = root
	p.state = stateConfigured
	return nil
}

// BuildDone runs the capture sequence: preview server up, browser up,
// one screenshot per configured capture, teardown. The browser closes
// before the server stops, on every exit path. Any capture failure
// aborts the remainder and propagates; there is no retry and no
// partial-success reporting.
func (p *Plugin) BuildDone(ctx context.Context, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	switch p.state {
	case stateNew:
		return fmt.Errorf("sitesnap: build hook invoked before config hook")
	case stateDone:
		return fmt.Errorf("sitesnap: build hook invoked twice")
	}
	p.state = stateDone

	if len(p.cfg.Pages) == 0 {
		logger.Debug("sitesnap: no pages configured, skipping screenshots")
		return nil
	}

	log := logger.With("run_id", uuid.NewString())

	srv, err := preview.Start(p.root, p.cfg.Port, preview.WithLogger(log))
	if err != nil {
		return fmt.Errorf("sitesnap: start preview server: %w", err)
	}
	defer func() {
		if serr := srv.Stop(context.Background()); serr != nil {
			log.Warn("sitesnap: stop preview server", "error", serr)
		}
	}()

	browser, err := p.launch(ctx, p.cfg.Launch, log)
	if err != nil {
		return fmt.Errorf("sitesnap: launch browser: %w", err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			log.Warn("sitesnap: close browser", "error", cerr)
		}
	}()

	runner := &capture.Runner{
		Browser:  browser,
		BaseURL:  srv.URL(),
		Root:     p.root,
		Defaults: p.cfg.Defaults,
		Logger:   log,
	}
	return runner.Run(ctx, p.cfg.Pages)
}

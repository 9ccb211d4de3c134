// Package browser manages the Chrome engine behind a capture run:
// launch a local headless-shell via the Rod launcher (or connect to a
// remote instance), hand out tabs, and tear everything down when the
// run ends. One Engine exists per build invocation.
package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config configures the engine.
type Config struct {
	// RemoteURL is the WebSocket control URL of an external Chrome
	// instance. Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headless controls local launches. Remote instances are taken
	// as they are.
	Headless bool

	// Stealth opens tabs with anti-detection patches applied.
	Stealth bool

	// Flags are extra chromium switches for the local launcher,
	// keyed without the leading dashes.
	Flags map[string]string

	Logger *slog.Logger
}

// Engine owns one Chrome instance for the duration of a capture run.
type Engine struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	stealth bool
	logger  *slog.Logger
}

// Launch starts Chrome (or connects to a remote instance) and returns
// the engine handle. Callers must Close it, also on error paths of
// their own.
func Launch(ctx context.Context, cfg Config) (*Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	var wsURL string
	var lnch *launcher.Launcher

	if cfg.RemoteURL != "" {
		wsURL = cfg.RemoteURL
		log.Debug("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(cfg.Headless)
		for k, v := range cfg.Flags {
			l = l.Set(flags.Flag(k), v)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		lnch = l
		log.Debug("browser: launched local chrome", "headless", cfg.Headless)
	}

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	// The preview server is plain local HTTP, but a site may reference
	// itself over https; don't let that break rendering.
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}

	return &Engine{browser: b, lnch: lnch, stealth: cfg.Stealth, logger: log}, nil
}

// NewTab opens a blank tab.
func (e *Engine) NewTab(ctx context.Context) (*Tab, error) {
	var page *rod.Page
	var err error

	if e.stealth {
		page, err = stealth.Page(e.browser)
	} else {
		page, err = e.browser.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	return &Tab{page: page.Context(ctx), logger: e.logger}, nil
}

// Close shuts down Chrome and, for local launches, reaps the process.
func (e *Engine) Close() error {
	var err error
	if e.browser != nil {
		err = e.browser.Close()
		e.browser = nil
	}
	if e.lnch != nil {
		e.lnch.Cleanup()
		e.lnch = nil
	}
	return err
}

package capture

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/sitesnap/capture/internal/browser"
)

// Browser is the engine the Runner drives. Exactly one instance exists
// per build; the Runner never launches or closes it.
type Browser interface {
	// NewTab opens a fresh tab. Tabs are short-lived: one per capture,
	// opened, used and closed within a single loop iteration.
	NewTab(ctx context.Context) (Tab, error)

	// Close shuts the engine down. Safe to call after NewTab failures.
	Close() error
}

// Tab is a single browser tab.
type Tab interface {
	SetViewport(width, height int) error
	Navigate(ctx context.Context, url string, nav NavOptions) error

	// Screenshot captures the tab and writes the encoded image to
	// shot.Path. The write is part of the capture call itself.
	Screenshot(ctx context.Context, shot Shot) error

	Close() error
}

// Shot is the encoder instruction for one screenshot. Path is always
// absolute by the time it reaches a Tab.
type Shot struct {
	Path     string
	Format   Format
	FullPage bool
	Quality  int // 0 = encoder default
}

// Launch starts a browser engine per the launch options: a local
// headless Chrome by default, or a connection to the remote instance
// named by opts.Remote.
func Launch(ctx context.Context, opts LaunchOptions, logger *slog.Logger) (Browser, error) {
	headless := true
	if opts.Headless != nil {
		headless = *opts.Headless
	}

	eng, err := browser.Launch(ctx, browser.Config{
		RemoteURL: opts.Remote,
		Headless:  headless,
		Stealth:   opts.Stealth,
		Flags:     opts.Flags,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return &rodBrowser{eng: eng}, nil
}

// rodBrowser adapts the Rod engine to the Browser interface.
type rodBrowser struct {
	eng *browser.Engine
}

func (b *rodBrowser) NewTab(ctx context.Context) (Tab, error) {
	t, err := b.eng.NewTab(ctx)
	if err != nil {
		return nil, err
	}
	return &rodTab{tab: t}, nil
}

func (b *rodBrowser) Close() error { return b.eng.Close() }

type rodTab struct {
	tab *browser.Tab
}

func (t *rodTab) SetViewport(width, height int) error {
	return t.tab.SetViewport(width, height)
}

func (t *rodTab) Navigate(ctx context.Context, url string, nav NavOptions) error {
	return t.tab.Navigate(ctx, url, nav.WaitUntil, nav.Timeout)
}

func (t *rodTab) Screenshot(ctx context.Context, shot Shot) error {
	return t.tab.Screenshot(ctx, browser.Shot{
		Path:     shot.Path,
		Format:   string(shot.Format),
		FullPage: shot.FullPage,
		Quality:  shot.Quality,
	})
}

func (t *rodTab) Close() error { return t.tab.Close() }

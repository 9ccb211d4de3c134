package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// quietWindow is how long the network must stay silent before a
// "networkidle" wait considers the page settled.
const quietWindow = 300 * time.Millisecond

// Shot tells Screenshot what to encode and where to write it.
type Shot struct {
	Path     string
	Format   string // png | jpeg | webp
	FullPage bool
	Quality  int // 0 = encoder default; jpeg/webp only
}

// Tab wraps a Rod page for a single capture: viewport, navigation with
// a wait policy, screenshot, close.
type Tab struct {
	page   *rod.Page
	logger *slog.Logger
}

// SetViewport fixes the tab's viewport to the given CSS pixel size.
func (t *Tab) SetViewport(width, height int) error {
	err := t.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	})
	if err != nil {
		return fmt.Errorf("browser: set viewport: %w", err)
	}
	return nil
}

// Navigate loads url and blocks until the wait policy is satisfied:
// "load" waits for the load event, "stable" for the DOM to stop
// mutating, anything else (the "networkidle" default) for the load
// event plus a quiet network window. timeout 0 keeps Rod's default.
func (t *Tab) Navigate(ctx context.Context, url, waitUntil string, timeout time.Duration) error {
	p := t.page.Context(ctx)
	if timeout > 0 {
		p = p.Timeout(timeout)
	}

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}

	switch waitUntil {
	case "load":
		if err := p.WaitLoad(); err != nil {
			return fmt.Errorf("browser: wait load: %w", err)
		}
	case "stable":
		if err := p.WaitDOMStable(quietWindow, 0); err != nil {
			return fmt.Errorf("browser: wait dom stable: %w", err)
		}
	default:
		if err := p.WaitLoad(); err != nil {
			return fmt.Errorf("browser: wait load: %w", err)
		}
		wait := p.WaitRequestIdle(quietWindow, nil, nil, nil)
		wait()
	}
	return nil
}

// Screenshot captures the tab and writes the encoded image to
// shot.Path. Chrome performs the encoding; this side only persists the
// bytes it hands back.
func (t *Tab) Screenshot(ctx context.Context, shot Shot) error {
	req := &proto.PageCaptureScreenshot{Format: formatProto(shot.Format)}
	if shot.Quality > 0 && req.Format != proto.PageCaptureScreenshotFormatPng {
		q := shot.Quality
		req.Quality = &q
	}

	bin, err := t.page.Context(ctx).Screenshot(shot.FullPage, req)
	if err != nil {
		return fmt.Errorf("browser: capture: %w", err)
	}
	if err := os.WriteFile(shot.Path, bin, 0o644); err != nil {
		return fmt.Errorf("browser: write %s: %w", shot.Path, err)
	}
	t.logger.Debug("browser: captured", "path", shot.Path, "bytes", len(bin), "format", shot.Format)
	return nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.page != nil {
		return t.page.Close()
	}
	return nil
}

func formatProto(format string) proto.PageCaptureScreenshotFormat {
	switch format {
	case "jpeg":
		return proto.PageCaptureScreenshotFormatJpeg
	case "webp":
		return proto.PageCaptureScreenshotFormatWebp
	default:
		return proto.PageCaptureScreenshotFormatPng
	}
}

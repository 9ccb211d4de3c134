package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Runner executes the configured captures against a running preview
// server. Strictly sequential: one tab at a time, routes in configured
// order, captures in array order. The first failure aborts everything
// still pending and propagates; files already written stay on disk.
type Runner struct {
	// Browser is the engine to drive. Owned by the caller.
	Browser Browser

	// BaseURL is the preview server origin, e.g. "http://localhost:4322".
	BaseURL string

	// Root is the absolute project root. Relative output paths resolve
	// against it, and logged output paths are shown relative to it.
	Root string

	// Defaults is the shared middle tier of the option merge.
	Defaults Options

	Logger *slog.Logger
}

// Run captures every configured page.
func (r *Runner) Run(ctx context.Context, pages []Page) error {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	for _, pg := range pages {
		route := NormalizeRoute(pg.Route)
		url := strings.TrimSuffix(r.BaseURL, "/") + route

		for i, opts := range pg.Captures {
			if err := r.captureOne(ctx, log, route, url, opts); err != nil {
				return fmt.Errorf("capture: route %s [%d]: %w", route, i, err)
			}
		}
	}
	return nil
}

func (r *Runner) captureOne(ctx context.Context, log *slog.Logger, route, url string, opts Options) error {
	res, err := Resolve(opts, r.Defaults)
	if err != nil {
		return err
	}

	out := res.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(r.Root, out)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tab, err := r.Browser.NewTab(ctx)
	if err != nil {
		return fmt.Errorf("open tab: %w", err)
	}
	defer tab.Close()

	if err := tab.SetViewport(res.Width, res.Height); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	if err := tab.Navigate(ctx, url, res.Navigation); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := tab.Screenshot(ctx, Shot{
		Path:     out,
		Format:   res.Format,
		FullPage: res.FullPage,
		Quality:  res.Quality,
	}); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}

	rel, err := filepath.Rel(r.Root, out)
	if err != nil {
		rel = out
	}
	log.Info("capture: screenshot written", "route", route, "output", rel)
	return nil
}

// NormalizeRoute guarantees a leading slash so that configured keys
// "about" and "/about" address the same page.
func NormalizeRoute(route string) string {
	if !strings.HasPrefix(route, "/") {
		return "/" + route
	}
	return route
}

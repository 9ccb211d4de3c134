package capture

import (
	"testing"
	"time"
)

func TestResolveHardFallbacks(t *testing.T) {
	r, err := Resolve(Options{Output: "a.png"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != FallbackWidth || r.Height != FallbackHeight {
		t.Fatalf("viewport: got %dx%d, want %dx%d", r.Width, r.Height, FallbackWidth, FallbackHeight)
	}
	if r.Navigation.WaitUntil != WaitNetworkIdle {
		t.Fatalf("wait: got %q, want %q", r.Navigation.WaitUntil, WaitNetworkIdle)
	}
	if r.Navigation.Timeout != 0 {
		t.Fatalf("timeout: got %v, want 0", r.Navigation.Timeout)
	}
	if r.Format != FormatPNG {
		t.Fatalf("format: got %q", r.Format)
	}
	if r.FullPage {
		t.Fatal("full page should default to false")
	}
	if r.Quality != 0 {
		t.Fatalf("quality: got %d, want encoder default", r.Quality)
	}
}

// Zero dimensions are "unset" at every tier and fall through to the
// next one. A page cannot express an actual zero-sized viewport; that
// is long-standing behaviour and stays.
func TestResolveZeroDimensionFallsThrough(t *testing.T) {
	r, err := Resolve(
		Options{Width: 0, Height: 0, Output: "a.png"},
		Options{Width: 1024, Height: 0},
	)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 1024 {
		t.Fatalf("width: got %d, want defaults value 1024", r.Width)
	}
	if r.Height != FallbackHeight {
		t.Fatalf("height: got %d, want fallback %d", r.Height, FallbackHeight)
	}
}

func TestResolveThreeTierMerge(t *testing.T) {
	defaults := Options{
		Width:      1920,
		Navigation: NavOptions{Timeout: 5 * time.Second},
	}
	page := Options{
		Height: 800,
		Output: "out/a.png",
	}

	r, err := Resolve(page, defaults)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 1920 {
		t.Fatalf("width: got %d, want 1920 from defaults", r.Width)
	}
	if r.Height != 800 {
		t.Fatalf("height: got %d, want 800 from page", r.Height)
	}
	if r.Navigation.WaitUntil != WaitNetworkIdle {
		t.Fatalf("wait: got %q, want fallback %q", r.Navigation.WaitUntil, WaitNetworkIdle)
	}
	if r.Navigation.Timeout != 5*time.Second {
		t.Fatalf("timeout: got %v, want 5s from defaults", r.Navigation.Timeout)
	}
	if r.Output != "out/a.png" {
		t.Fatalf("output: got %q", r.Output)
	}
	if r.Format != FormatPNG {
		t.Fatalf("format: got %q, want png", r.Format)
	}
	if r.FullPage {
		t.Fatal("full page should be false when no tier sets it")
	}
}

func TestResolvePageOverridesDefaults(t *testing.T) {
	fullPage := true
	quality := 80

	r, err := Resolve(
		Options{
			Width:      390,
			Output:     "mobile.jpg",
			Navigation: NavOptions{WaitUntil: WaitLoad, Timeout: time.Second},
			Image:      ImageOptions{FullPage: &fullPage, Quality: &quality},
		},
		Options{
			Width:      1920,
			Height:     1080,
			Navigation: NavOptions{WaitUntil: WaitStable, Timeout: 10 * time.Second},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 390 || r.Height != 1080 {
		t.Fatalf("viewport: got %dx%d", r.Width, r.Height)
	}
	if r.Navigation.WaitUntil != WaitLoad || r.Navigation.Timeout != time.Second {
		t.Fatalf("navigation: got %+v", r.Navigation)
	}
	if r.Format != FormatJPEG {
		t.Fatalf("format: got %q", r.Format)
	}
	if !r.FullPage || r.Quality != 80 {
		t.Fatalf("image: got fullPage=%v quality=%d", r.FullPage, r.Quality)
	}
}

func TestResolveExplicitFalseOverridesDefaultsTrue(t *testing.T) {
	on := true
	off := false

	r, err := Resolve(
		Options{Output: "a.png", Image: ImageOptions{FullPage: &off}},
		Options{Image: ImageOptions{FullPage: &on}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if r.FullPage {
		t.Fatal("page's explicit false must beat defaults' true")
	}
}

func TestResolveBadExtensionFails(t *testing.T) {
	if _, err := Resolve(Options{Output: "a.tiff"}, Options{}); err == nil {
		t.Fatal("expected format error")
	}
	if _, err := Resolve(Options{}, Options{Width: 800}); err == nil {
		t.Fatal("expected error for empty output path")
	}
}

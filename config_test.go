package sitesnap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hazyhaar/sitesnap/capture"
)

const sampleConfig = `
root: dist
port: 8199
launch:
  headless: false
  stealth: true
defaults:
  width: 1920
  height: 1080
  navigation:
    wait_until: load
    timeout: 5s
pages:
  /: home.png
  about:
    output: shots/about.png
    width: 800
  pricing:
    - output: pricing-desktop.png
    - output: pricing-mobile.jpg
      width: 390
      height: 844
      image:
        full_page: true
        quality: 80
`

func TestLoadConfig(t *testing.T) {
	cfg, err := Load([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Root != "dist" {
		t.Fatalf("root: got %q", cfg.Root)
	}
	if cfg.Port != 8199 {
		t.Fatalf("port: got %d", cfg.Port)
	}
	if cfg.Launch.Headless == nil || *cfg.Launch.Headless {
		t.Fatal("launch.headless should parse as explicit false")
	}
	if !cfg.Launch.Stealth {
		t.Fatal("launch.stealth should be true")
	}
	if cfg.Defaults.Width != 1920 || cfg.Defaults.Height != 1080 {
		t.Fatalf("defaults viewport: got %dx%d", cfg.Defaults.Width, cfg.Defaults.Height)
	}
	if cfg.Defaults.Navigation.WaitUntil != capture.WaitLoad {
		t.Fatalf("defaults wait: got %q", cfg.Defaults.Navigation.WaitUntil)
	}
	if cfg.Defaults.Navigation.Timeout != 5*time.Second {
		t.Fatalf("defaults timeout: got %v", cfg.Defaults.Navigation.Timeout)
	}
}

// Pages must come out in document order: captures run sequentially and
// first-failure semantics depend on that order.
func TestLoadConfigPreservesPageOrder(t *testing.T) {
	cfg, err := Load([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Pages) != 3 {
		t.Fatalf("pages: got %d, want 3", len(cfg.Pages))
	}
	for i, want := range []string{"/", "about", "pricing"} {
		if cfg.Pages[i].Route != want {
			t.Fatalf("page %d: got route %q, want %q", i, cfg.Pages[i].Route, want)
		}
	}
}

func TestLoadConfigPageForms(t *testing.T) {
	cfg, err := Load([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	// Bare string shorthand.
	home := cfg.Pages[0]
	if len(home.Captures) != 1 || home.Captures[0].Output != "home.png" {
		t.Fatalf("home: got %+v", home.Captures)
	}

	// Single mapping.
	about := cfg.Pages[1]
	if len(about.Captures) != 1 {
		t.Fatalf("about: got %d captures", len(about.Captures))
	}
	if about.Captures[0].Output != "shots/about.png" || about.Captures[0].Width != 800 {
		t.Fatalf("about: got %+v", about.Captures[0])
	}

	// List of mappings.
	pricing := cfg.Pages[2]
	if len(pricing.Captures) != 2 {
		t.Fatalf("pricing: got %d captures", len(pricing.Captures))
	}
	mobile := pricing.Captures[1]
	if mobile.Width != 390 || mobile.Height != 844 {
		t.Fatalf("pricing mobile viewport: got %dx%d", mobile.Width, mobile.Height)
	}
	if mobile.Image.FullPage == nil || !*mobile.Image.FullPage {
		t.Fatal("pricing mobile full_page should be true")
	}
	if mobile.Image.Quality == nil || *mobile.Image.Quality != 80 {
		t.Fatal("pricing mobile quality should be 80")
	}
}

func TestLoadConfigRejectsBadPages(t *testing.T) {
	if _, err := Load([]byte("pages:\n  - /about\n")); err == nil {
		t.Fatal("expected error for sequence pages")
	}
	if _, err := Load([]byte("defaults:\n  navigation:\n    timeout: soon\n")); err == nil {
		t.Fatal("expected error for unparsable timeout")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitesnap.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Pages) != 3 {
		t.Fatalf("pages: got %d", len(cfg.Pages))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.defaults()
	if cfg.Port != DefaultPort {
		t.Fatalf("port: got %d, want %d", cfg.Port, DefaultPort)
	}

	cfg = Config{Port: 9000}
	cfg.defaults()
	if cfg.Port != 9000 {
		t.Fatalf("port: got %d, want explicit 9000", cfg.Port)
	}
}

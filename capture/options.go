// Package capture resolves per-page screenshot settings and drives a
// headless browser over the routes of a freshly built static site.
//
// The package is split in two layers: pure resolution (FormatForPath,
// Resolve) that merges per-page intent with shared defaults, and a
// sequential Runner that executes the resolved captures against a
// Browser. The production Browser is Chrome driven via Rod; tests
// substitute fakes behind the same interface.
package capture

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Wait policies for navigation. NetworkIdle is the hard fallback when
// neither the page nor the shared defaults specify one.
const (
	WaitNetworkIdle = "networkidle"
	WaitLoad        = "load"
	WaitStable      = "stable"
)

// Hard viewport fallback applied when neither the page nor the shared
// defaults carry a dimension.
const (
	FallbackWidth  = 1200
	FallbackHeight = 630
)

// NavOptions controls how navigation to a route waits before the
// screenshot is taken. Zero values mean "unset" and are filled by the
// three-tier merge in Resolve.
type NavOptions struct {
	// WaitUntil is one of WaitNetworkIdle, WaitLoad, WaitStable.
	WaitUntil string `yaml:"wait_until"`

	// Timeout bounds navigation and its wait. 0 leaves the browser
	// driver's own default in place.
	Timeout time.Duration `yaml:"timeout"`
}

// UnmarshalYAML accepts timeouts as duration strings ("5s", "250ms").
func (n *NavOptions) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		WaitUntil string `yaml:"wait_until"`
		Timeout   string `yaml:"timeout"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	n.WaitUntil = raw.WaitUntil
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("capture: navigation timeout: %w", err)
		}
		n.Timeout = d
	}
	return nil
}

// ImageOptions controls the encoder. Pointer fields distinguish "unset"
// from an explicit false/zero so the merge can layer them.
type ImageOptions struct {
	// FullPage captures the whole scrollable page instead of the
	// viewport. Defaults to false.
	FullPage *bool `yaml:"full_page"`

	// Quality (1-100) applies to jpeg and webp only. When unset the
	// encoder's own default is used.
	Quality *int `yaml:"quality"`
}

// Options is the per-page capture intent as supplied by the caller.
// Width and Height of 0 mean "unset": the shared defaults, then the
// hard fallback, take over. A page cannot express a zero-sized
// dimension; that ambiguity is inherited behaviour and kept as is.
type Options struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Output     string       `yaml:"output"`
	Navigation NavOptions   `yaml:"navigation"`
	Image      ImageOptions `yaml:"image"`
}

// Page binds a site route to the captures to take of it. Multiple
// captures per route are allowed (different viewports, formats, files).
type Page struct {
	Route    string
	Captures []Options
}

// Resolved is the fully merged, ready-to-execute settings for one
// capture. It has no identity beyond the single capture it describes.
type Resolved struct {
	Width      int
	Height     int
	Navigation NavOptions
	Output     string
	Format     Format
	FullPage   bool
	Quality    int // 0 = encoder default
}

// LaunchOptions configures the browser engine. The zero value launches
// a local headless Chrome.
type LaunchOptions struct {
	// Headless defaults to true; set an explicit false for a visible
	// browser while debugging capture issues.
	Headless *bool `yaml:"headless"`

	// Stealth opens tabs with anti-detection patches applied. Useful
	// when the built site embeds third-party widgets that degrade
	// under an obvious automation browser.
	Stealth bool `yaml:"stealth"`

	// Remote is the WebSocket control URL of an external Chrome
	// instance. Empty = launch a local one.
	Remote string `yaml:"remote"`

	// Flags are extra chromium command line switches for the local
	// launcher, keyed without the leading dashes.
	Flags map[string]string `yaml:"flags"`
}

package sitesnap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/sitesnap/capture"
)

// Config is the plugin configuration. Immutable once handed to New.
type Config struct {
	// Pages maps site routes to the captures to take of them. Only
	// listed routes are visited; an empty set disables the plugin for
	// the build (no server, no browser).
	Pages Pages `yaml:"pages"`

	// Defaults is the shared middle tier of the per-capture option
	// merge (hard fallback < Defaults < per-page).
	Defaults capture.Options `yaml:"defaults"`

	// Launch is forwarded to the browser engine. Zero value = local
	// headless Chrome.
	Launch capture.LaunchOptions `yaml:"launch"`

	// Port for the preview server. 0 = 4322.
	Port int `yaml:"port"`

	// Root is the built output directory. The build hook's finalized
	// configuration takes precedence; this field serves standalone
	// use via the CLI.
	Root string `yaml:"root"`
}

// DefaultPort is used when Config.Port is unset.
const DefaultPort = 4322

func (c *Config) defaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
}

// Pages is an ordered route → captures mapping. Order matters: captures
// run sequentially in exactly this order, and a failure aborts whatever
// comes after, so the YAML document order is preserved rather than
// decoded into a Go map.
type Pages []capture.Page

// UnmarshalYAML decodes a YAML mapping whose values are either a single
// capture block, a list of capture blocks, or a bare string shorthand
// for {output: <string>}.
func (p *Pages) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("sitesnap: pages must be a mapping of route to captures")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]

		var captures []capture.Options
		switch val.Kind {
		case yaml.SequenceNode:
			if err := val.Decode(&captures); err != nil {
				return fmt.Errorf("sitesnap: page %s: %w", key.Value, err)
			}
		case yaml.ScalarNode:
			captures = []capture.Options{{Output: val.Value}}
		default:
			var one capture.Options
			if err := val.Decode(&one); err != nil {
				return fmt.Errorf("sitesnap: page %s: %w", key.Value, err)
			}
			captures = []capture.Options{one}
		}

		*p = append(*p, capture.Page{Route: key.Value, Captures: captures})
	}
	return nil
}

// Load parses a YAML configuration document.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("sitesnap: parse config: %w", err)
	}
	return &cfg, nil
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sitesnap: read config: %w", err)
	}
	return Load(data)
}

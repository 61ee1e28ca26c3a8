package ldes

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/maregraph-eu/ldes-orchestrator/container"
)

// FeedSpec is one named feed from the configuration file. Feeds are
// immutable once loaded.
type FeedSpec struct {
	// Name is the feed's key in the feeds mapping.
	Name string

	// URL is the LDES stream to consume.
	URL string

	// TargetGraph is the optional shorthand for the TARGET_GRAPH variable.
	TargetGraph string

	// Overrides are the feed's environment overrides, stringified. They win
	// over every other value source for their key.
	Overrides map[string]string
}

// Config is the parsed feeds document.
type Config struct {
	// Feeds in document order. Spawning follows this order.
	Feeds []FeedSpec
}

// rawFeed is the YAML shape of one feed definition.
type rawFeed struct {
	URL         string         `yaml:"url"`
	TargetGraph string         `yaml:"target_graph"`
	Environment map[string]any `yaml:"environment"`
}

// LoadConfig reads and parses the feeds configuration file. A missing or
// malformed file is an error; an absent feeds mapping is not, the result
// simply has no feeds.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses a feeds document from bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// UnmarshalYAML decodes the top-level document. Feed order is taken from the
// document itself, which a plain map would not preserve.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("configuration root must be a mapping")
	}

	for i := 0; i < len(value.Content)-1; i += 2 {
		if value.Content[i].Value != "feeds" {
			continue
		}
		return c.unmarshalFeeds(value.Content[i+1])
	}

	// No feeds key. The caller decides whether that is worth a warning.
	return nil
}

func (c *Config) unmarshalFeeds(node *yaml.Node) error {
	if node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("feeds must be a mapping of feed name to definition")
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		name := node.Content[i].Value

		var raw rawFeed
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return fmt.Errorf("feed %s: %w", name, err)
		}

		c.Feeds = append(c.Feeds, FeedSpec{
			Name:        name,
			URL:         raw.URL,
			TargetGraph: raw.TargetGraph,
			Overrides:   stringifyOverrides(raw.Environment),
		})
	}

	return nil
}

// validate rejects feeds whose derived container names collide.
func (c *Config) validate() error {
	seen := make(map[string]string, len(c.Feeds))
	for _, feed := range c.Feeds {
		name := container.NameFor(feed.Name)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("feeds %q and %q both map to container %s: %w", prev, feed.Name, name, ErrDuplicateFeed)
		}
		seen[name] = feed.Name
	}
	return nil
}

// stringifyOverrides renders override values the way they end up in a
// container environment: scalars become their string form.
func stringifyOverrides(env map[string]any) map[string]string {
	if len(env) == 0 {
		return nil
	}

	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = stringify(v)
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

package ldes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
feeds:
  sensors:
    url: https://example.org/ldes/sensors
    target_graph: urn:kgap:ldes:sensors
    environment:
      FOLLOW: true
      MEMBER_BATCH_SIZE: 200
      POLLING_FREQUENCY: 1.5
      SHAPE: https://example.org/shape.ttl
  observations:
    url: https://example.org/ldes/observations
`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	if len(cfg.Feeds) != 2 {
		t.Fatalf("len(Feeds) = %d, want 2", len(cfg.Feeds))
	}

	sensors := cfg.Feeds[0]
	if sensors.Name != "sensors" {
		t.Errorf("Feeds[0].Name = %q, want %q", sensors.Name, "sensors")
	}
	if sensors.URL != "https://example.org/ldes/sensors" {
		t.Errorf("Feeds[0].URL = %q", sensors.URL)
	}
	if sensors.TargetGraph != "urn:kgap:ldes:sensors" {
		t.Errorf("Feeds[0].TargetGraph = %q", sensors.TargetGraph)
	}

	overrides := map[string]string{
		"FOLLOW":            "true",
		"MEMBER_BATCH_SIZE": "200",
		"POLLING_FREQUENCY": "1.5",
		"SHAPE":             "https://example.org/shape.ttl",
	}
	for key, want := range overrides {
		if got := sensors.Overrides[key]; got != want {
			t.Errorf("Overrides[%q] = %q, want %q", key, got, want)
		}
	}

	observations := cfg.Feeds[1]
	if observations.Name != "observations" {
		t.Errorf("Feeds[1].Name = %q, want %q", observations.Name, "observations")
	}
	if observations.Overrides != nil {
		t.Errorf("Feeds[1].Overrides = %v, want nil", observations.Overrides)
	}
}

func TestParseConfigPreservesOrder(t *testing.T) {
	data := []byte(`
feeds:
  zulu:
    url: https://example.org/z
  alpha:
    url: https://example.org/a
  mike:
    url: https://example.org/m
  bravo:
    url: https://example.org/b
`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	want := []string{"zulu", "alpha", "mike", "bravo"}
	if len(cfg.Feeds) != len(want) {
		t.Fatalf("len(Feeds) = %d, want %d", len(cfg.Feeds), len(want))
	}
	for i, name := range want {
		if cfg.Feeds[i].Name != name {
			t.Errorf("Feeds[%d].Name = %q, want %q", i, cfg.Feeds[i].Name, name)
		}
	}
}

func TestParseConfigWithoutFeeds(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no feeds key", "other: value\n"},
		{"null feeds", "feeds:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseConfig() error = %v", err)
			}
			if len(cfg.Feeds) != 0 {
				t.Errorf("len(Feeds) = %d, want 0", len(cfg.Feeds))
			}
		})
	}
}

func TestParseConfigEmptyFeedDefinition(t *testing.T) {
	cfg, err := ParseConfig([]byte("feeds:\n  bare:\n"))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	if len(cfg.Feeds) != 1 {
		t.Fatalf("len(Feeds) = %d, want 1", len(cfg.Feeds))
	}
	if cfg.Feeds[0].Name != "bare" {
		t.Errorf("Feeds[0].Name = %q, want %q", cfg.Feeds[0].Name, "bare")
	}
	if cfg.Feeds[0].URL != "" {
		t.Errorf("Feeds[0].URL = %q, want empty", cfg.Feeds[0].URL)
	}
}

func TestParseConfigDuplicateAfterNormalization(t *testing.T) {
	data := []byte(`
feeds:
  My Feed:
    url: https://example.org/a
  my-feed:
    url: https://example.org/b
`)

	_, err := ParseConfig(data)
	if err == nil {
		t.Fatal("ParseConfig() error = nil, want duplicate feed error")
	}
	if !errors.Is(err, ErrDuplicateFeed) {
		t.Errorf("errors.Is(err, ErrDuplicateFeed) = false, err = %v", err)
	}
}

func TestParseConfigMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"root is a sequence", "- a\n- b\n"},
		{"feeds is a sequence", "feeds:\n  - sensors\n"},
		{"feed definition is a scalar list field", "feeds:\n  sensors:\n    url: [one, two]\n"},
		{"broken yaml", "feeds: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); err == nil {
				t.Error("ParseConfig() error = nil, want parse error")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ldes-feeds.yaml")
	data := []byte("feeds:\n  sensors:\n    url: https://example.org/feed\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Name != "sensors" {
		t.Errorf("unexpected feeds: %+v", cfg.Feeds)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want read error")
	}
}

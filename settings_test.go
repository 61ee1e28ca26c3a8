package ldes

import (
	"path/filepath"
	"testing"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LDES_CONFIG_PATH",
		"LDES2SPARQL_IMAGE",
		"HOST_PWD",
		"GRAPH_PREFIX",
		"GDB_REPO",
		"DEFAULT_SPARQL_ENDPOINT",
		"DOCKER_NETWORK",
		"LDES_LOG_LEVEL",
		"LOG_LEVEL",
		"LDES_METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	clearSettingsEnv(t)

	s := LoadSettings()

	if s.ConfigPath != DefaultConfigPath {
		t.Errorf("ConfigPath = %q, want %q", s.ConfigPath, DefaultConfigPath)
	}
	if s.Image != DefaultImage {
		t.Errorf("Image = %q, want %q", s.Image, DefaultImage)
	}
	if s.HostPwd == "" {
		t.Error("HostPwd is empty, want working directory fallback")
	}
	if s.GraphPrefix != DefaultGraphPrefix {
		t.Errorf("GraphPrefix = %q, want %q", s.GraphPrefix, DefaultGraphPrefix)
	}
	if s.Repository != DefaultRepository {
		t.Errorf("Repository = %q, want %q", s.Repository, DefaultRepository)
	}
	if want := "http://graphdb:7200/repositories/kgap/statements"; s.SPARQLEndpoint != want {
		t.Errorf("SPARQLEndpoint = %q, want %q", s.SPARQLEndpoint, want)
	}
	if s.Network != "" {
		t.Errorf("Network = %q, want empty", s.Network)
	}
	if s.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %q, want DEBUG", s.LogLevel)
	}
	if s.MetricsAddr != "" {
		t.Errorf("MetricsAddr = %q, want empty", s.MetricsAddr)
	}
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("LDES_CONFIG_PATH", "/etc/feeds.yaml")
	t.Setenv("LDES2SPARQL_IMAGE", "ghcr.io/example/ldes2sparql:v2")
	t.Setenv("HOST_PWD", "/srv/kgap")
	t.Setenv("GRAPH_PREFIX", "marine")
	t.Setenv("GDB_REPO", "lblod")
	t.Setenv("DOCKER_NETWORK", "kgap_default")
	t.Setenv("LDES_METRICS_ADDR", ":9464")

	s := LoadSettings()

	if s.ConfigPath != "/etc/feeds.yaml" {
		t.Errorf("ConfigPath = %q", s.ConfigPath)
	}
	if s.Image != "ghcr.io/example/ldes2sparql:v2" {
		t.Errorf("Image = %q", s.Image)
	}
	if s.HostPwd != "/srv/kgap" {
		t.Errorf("HostPwd = %q", s.HostPwd)
	}
	if s.GraphPrefix != "marine" {
		t.Errorf("GraphPrefix = %q", s.GraphPrefix)
	}
	if s.Network != "kgap_default" {
		t.Errorf("Network = %q", s.Network)
	}
	if s.MetricsAddr != ":9464" {
		t.Errorf("MetricsAddr = %q", s.MetricsAddr)
	}

	// The derived endpoint follows the configured repository.
	if want := "http://graphdb:7200/repositories/lblod/statements"; s.SPARQLEndpoint != want {
		t.Errorf("SPARQLEndpoint = %q, want %q", s.SPARQLEndpoint, want)
	}
}

func TestLoadSettingsExplicitEndpointWins(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("GDB_REPO", "lblod")
	t.Setenv("DEFAULT_SPARQL_ENDPOINT", "http://virtuoso:8890/sparql")

	s := LoadSettings()

	if s.SPARQLEndpoint != "http://virtuoso:8890/sparql" {
		t.Errorf("SPARQLEndpoint = %q, want explicit value", s.SPARQLEndpoint)
	}
}

func TestLoadSettingsLogLevelChain(t *testing.T) {
	tests := []struct {
		name      string
		ldesLevel string
		logLevel  string
		want      string
	}{
		{"specific beats generic", "INFO", "ERROR", "INFO"},
		{"generic as fallback", "", "ERROR", "ERROR"},
		{"default without either", "", "", "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSettingsEnv(t)
			t.Setenv("LDES_LOG_LEVEL", tt.ldesLevel)
			t.Setenv("LOG_LEVEL", tt.logLevel)

			if got := LoadSettings().LogLevel; got != tt.want {
				t.Errorf("LogLevel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateDir(t *testing.T) {
	s := Settings{HostPwd: "/srv/kgap"}

	want := filepath.Join("/srv/kgap", "data", "ldes-consumer", "state", "my-feed")
	if got := s.StateDir("My Feed"); got != want {
		t.Errorf("StateDir(%q) = %q, want %q", "My Feed", got, want)
	}
}

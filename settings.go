package ldes

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maregraph-eu/ldes-orchestrator/container"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	// DefaultConfigPath is where the feeds file is expected inside the
	// orchestrator's container.
	DefaultConfigPath = "/data/ldes-feeds.yaml"

	// DefaultImage is the consumer image spawned for each feed.
	DefaultImage = "ghcr.io/maregraph-eu/ldes2sparql:latest"

	// DefaultGraphPrefix is the middle segment of derived target graph URNs.
	DefaultGraphPrefix = "ldes"

	// DefaultRepository is the GraphDB repository used when deriving the
	// SPARQL endpoint.
	DefaultRepository = "kgap"

	defaultLogLevel = "DEBUG"
)

// Settings collects every process environment variable the orchestrator
// consumes, resolved with its documented fallback. Load once at startup and
// pass by value from there.
type Settings struct {
	// ConfigPath is the feeds file location (LDES_CONFIG_PATH).
	ConfigPath string

	// Image is the workload image for spawned consumers (LDES2SPARQL_IMAGE).
	Image string

	// HostPwd anchors per-feed state mounts on the host (HOST_PWD). Bind
	// mounts resolve on the host side of the Docker socket, so this must be
	// a host path, not a path inside the orchestrator's own container.
	HostPwd string

	// GraphPrefix is the prefix segment of derived target graph URNs
	// (GRAPH_PREFIX).
	GraphPrefix string

	// Repository is the GraphDB repository in the derived SPARQL endpoint
	// (GDB_REPO).
	Repository string

	// SPARQLEndpoint is the global default endpoint for feeds that specify
	// none (DEFAULT_SPARQL_ENDPOINT).
	SPARQLEndpoint string

	// Network attaches spawned containers to this network when runtime
	// context detection finds none (DOCKER_NETWORK).
	Network string

	// LogLevel is the level for the orchestrator and the default for its
	// consumers (LDES_LOG_LEVEL, falling back to LOG_LEVEL, then DEBUG).
	LogLevel string

	// MetricsAddr serves /metrics and /healthz when non-empty
	// (LDES_METRICS_ADDR).
	MetricsAddr string
}

// LoadSettings resolves settings from the process environment.
func LoadSettings() Settings {
	hostPwd := os.Getenv("HOST_PWD")
	if hostPwd == "" {
		hostPwd, _ = os.Getwd()
	}

	repo := envOr("GDB_REPO", DefaultRepository)

	return Settings{
		ConfigPath:     envOr("LDES_CONFIG_PATH", DefaultConfigPath),
		Image:          envOr("LDES2SPARQL_IMAGE", DefaultImage),
		HostPwd:        hostPwd,
		GraphPrefix:    envOr("GRAPH_PREFIX", DefaultGraphPrefix),
		Repository:     repo,
		SPARQLEndpoint: envOr("DEFAULT_SPARQL_ENDPOINT", fmt.Sprintf("http://graphdb:7200/repositories/%s/statements", repo)),
		Network:        os.Getenv("DOCKER_NETWORK"),
		LogLevel:       logLevelFromEnv(),
		MetricsAddr:    os.Getenv("LDES_METRICS_ADDR"),
	}
}

// StateDir returns the host directory holding one feed's consumer state.
// The feed name is normalized the same way as its container name, so the
// directory stays filesystem-safe and stable across runs.
func (s Settings) StateDir(feed string) string {
	return filepath.Join(s.HostPwd, "data", "ldes-consumer", "state", container.NormalizeFeed(feed))
}

func logLevelFromEnv() string {
	if v := os.Getenv("LDES_LOG_LEVEL"); v != "" {
		return v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		return v
	}
	return defaultLogLevel
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

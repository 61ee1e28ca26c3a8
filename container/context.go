package container

import (
	"context"
	"log/slog"
	"os"
	"sort"
)

// Compose label keys copied from the orchestrator's own container onto the
// workloads it spawns, so tooling groups them under the same project.
var composeLabelKeys = []string{
	"com.docker.compose.project",
	"com.docker.compose.project.working_dir",
	"com.docker.compose.project.config_files",
}

const (
	composeProjectLabel = "com.docker.compose.project"

	// ComposeServiceLabel names a spawned container as its own compose
	// service when project labels were propagated.
	ComposeServiceLabel = "com.docker.compose.service"
)

// SelfIdentity resolves the orchestrator's own container identity.
// Detection is best-effort: implementations report absence, not errors.
type SelfIdentity interface {
	// ContainerID returns the identity and whether one is available.
	ContainerID() (string, bool)
}

// HostnameIdentity resolves identity from the HOSTNAME environment variable,
// which Docker sets to the container ID inside a container.
func HostnameIdentity() SelfIdentity { return hostnameIdentity{} }

type hostnameIdentity struct{}

func (hostnameIdentity) ContainerID() (string, bool) {
	id := os.Getenv("HOSTNAME")
	return id, id != ""
}

// StaticIdentity returns a fixed identity; an empty id means none.
func StaticIdentity(id string) SelfIdentity { return staticIdentity(id) }

type staticIdentity string

func (s staticIdentity) ContainerID() (string, bool) { return string(s), s != "" }

// RuntimeContext is the ambient metadata propagated to spawned workloads.
// The zero value means nothing was detected and is valid everywhere.
type RuntimeContext struct {
	// Labels are the compose project labels found on the orchestrator's
	// own container, if any.
	Labels map[string]string

	// Network is the network the orchestrator's container is attached to.
	// When attached to several, the lexicographically first is used so the
	// choice is stable across runs.
	Network string
}

// DetectRuntimeContext inspects the orchestrator's own container and keeps
// the compose project labels and attached network. Every failure degrades to
// an empty context: running outside a container is a supported setup, not an
// error.
func DetectRuntimeContext(ctx context.Context, api API, self SelfIdentity) RuntimeContext {
	id, ok := self.ContainerID()
	if !ok {
		slog.Debug("runtime context: no container identity available")
		return RuntimeContext{}
	}

	inspect, err := api.ContainerInspect(ctx, id)
	if err != nil {
		slog.Warn("runtime context: could not inspect own container", "id", id, "error", err)
		return RuntimeContext{}
	}

	rc := RuntimeContext{}

	if inspect.Config != nil {
		for _, key := range composeLabelKeys {
			if v, ok := inspect.Config.Labels[key]; ok {
				if rc.Labels == nil {
					rc.Labels = make(map[string]string, len(composeLabelKeys))
				}
				rc.Labels[key] = v
			}
		}
	}
	if project := rc.Labels[composeProjectLabel]; project != "" {
		slog.Info("runtime context: compose project detected", "project", project)
	}

	if inspect.NetworkSettings != nil && len(inspect.NetworkSettings.Networks) > 0 {
		names := make([]string, 0, len(inspect.NetworkSettings.Networks))
		for name := range inspect.NetworkSettings.Networks {
			names = append(names, name)
		}
		sort.Strings(names)
		rc.Network = names[0]
		slog.Info("runtime context: parent network detected", "network", rc.Network)
	}

	return rc
}

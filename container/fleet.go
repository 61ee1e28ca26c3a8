package container

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/errdefs"
)

const (
	// NamePrefix starts every container name this orchestrator owns.
	NamePrefix = "ldes-consumer-"

	// StateMountPath is where a feed's state directory appears inside its
	// container.
	StateMountPath = "/state"

	// Labels stamped on every spawned container.
	LabelManagedBy = "ldes.managed-by"
	LabelFeed      = "ldes.feed"
	LabelRunID     = "ldes.run-id"

	// ManagedBy is the LabelManagedBy value identifying this orchestrator.
	ManagedBy = "ldes-orchestrator"

	// stopTimeout is the grace period, in seconds, a container gets before
	// the runtime kills it.
	stopTimeout = 10
)

// NormalizeFeed maps a feed name to its Docker-safe form: lowercased, with
// every run of characters outside [a-z0-9_.-] collapsed to a single dash.
// Distinct feed names may normalize to the same value; configuration loading
// rejects such collisions.
func NormalizeFeed(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
			dash = false
		default:
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return b.String()
}

// NameFor returns the container name owned by the named feed.
func NameFor(feed string) string {
	return NamePrefix + NormalizeFeed(feed)
}

// Status is a managed container's last observed lifecycle state.
type Status string

const (
	// StatusStarting is set at spawn, before the first status refresh.
	StatusStarting Status = "starting"
	// StatusRunning means the last refresh saw the container running.
	StatusRunning Status = "running"
	// StatusStopped means the container was observed not running, or was
	// torn down.
	StatusStopped Status = "stopped"
	// StatusVanished means a refresh could no longer find the container.
	StatusVanished Status = "vanished"
)

// Managed is the handle for one spawned consumer container.
type Managed struct {
	// ID is the runtime-assigned container identifier.
	ID string
	// Feed is the feed that produced this container.
	Feed string
	// Name is the derived container name.
	Name string

	status Status
}

// Status returns the last observed lifecycle state.
func (m *Managed) Status() Status {
	return m.status
}

// SpawnSpec describes one container to create and start.
type SpawnSpec struct {
	Feed     string
	Name     string
	Image    string
	Env      []string
	StateDir string            // host directory bind-mounted at StateMountPath
	Labels   map[string]string // applied verbatim
	Network  string            // empty means the runtime default
}

// Fleet spawns, tracks, polls and tears down the consumer containers of one
// orchestrator run. It is not safe for concurrent use: the orchestration
// driver owns it from a single goroutine.
type Fleet struct {
	api        API
	containers []*Managed

	onSpawned     []func(*Managed)
	onSpawnFailed []func(feed string, err error)
	onPoll        []func(running, total int)
	onGone        []func(*Managed)
}

// NewFleet creates an empty fleet backed by the given runtime API.
func NewFleet(api API) *Fleet {
	return &Fleet{api: api}
}

// OnSpawned registers a callback invoked after each successful spawn.
func (f *Fleet) OnSpawned(fn func(*Managed)) {
	f.onSpawned = append(f.onSpawned, fn)
}

// OnSpawnFailed registers a callback invoked when a spawn attempt fails.
func (f *Fleet) OnSpawnFailed(fn func(feed string, err error)) {
	f.onSpawnFailed = append(f.onSpawnFailed, fn)
}

// OnPoll registers a callback invoked after every status refresh pass.
func (f *Fleet) OnPoll(fn func(running, total int)) {
	f.onPoll = append(f.onPoll, fn)
}

// OnGone registers a callback invoked when a refresh finds a container gone.
func (f *Fleet) OnGone(fn func(*Managed)) {
	f.onGone = append(f.onGone, fn)
}

// Containers returns the tracked handles in spawn order.
func (f *Fleet) Containers() []*Managed {
	return f.containers
}

// Size returns the number of tracked handles.
func (f *Fleet) Size() int {
	return len(f.containers)
}

// Spawn creates and starts one detached container and begins tracking it.
// The image is pulled first when not present locally. A container that was
// created but could not be started is removed again so its name stays free.
func (f *Fleet) Spawn(ctx context.Context, spec SpawnSpec) (*Managed, error) {
	m, err := f.spawn(ctx, spec)
	if err != nil {
		for _, fn := range f.onSpawnFailed {
			fn(spec.Feed, err)
		}
		return nil, err
	}

	f.containers = append(f.containers, m)
	for _, fn := range f.onSpawned {
		fn(m)
	}

	slog.Info("container started", "feed", spec.Feed, "container", spec.Name, "id", shortID(m.ID))
	return m, nil
}

func (f *Fleet) spawn(ctx context.Context, spec SpawnSpec) (*Managed, error) {
	if err := f.ensureImage(ctx, spec.Image); err != nil {
		return nil, fmt.Errorf("failed to pull image %s: %w", spec.Image, err)
	}

	containerCfg := &container.Config{
		Image:  spec.Image,
		Env:    spec.Env,
		Labels: spec.Labels,
	}

	hostCfg := &container.HostConfig{
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: spec.StateDir,
				Target: StateMountPath,
			},
		},
	}
	if spec.Network != "" {
		hostCfg.NetworkMode = container.NetworkMode(spec.Network)
	}

	resp, err := f.api.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	if err := f.api.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		// Free the name; the container never started.
		if rmErr := f.api.ContainerRemove(ctx, resp.ID, container.RemoveOptions{}); rmErr != nil && !errdefs.IsNotFound(rmErr) {
			slog.Warn("could not remove unstarted container", "container", spec.Name, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	return &Managed{
		ID:     resp.ID,
		Feed:   spec.Feed,
		Name:   spec.Name,
		status: StatusStarting,
	}, nil
}

// PollAll refreshes the status of every tracked container and returns how
// many are running. Handles that can no longer be found are marked vanished
// and skipped by later polls; the poll itself never fails. A cancelled
// context stops the pass, leaving the remaining statuses as they were.
func (f *Fleet) PollAll(ctx context.Context) int {
	running := 0
	for _, m := range f.containers {
		if m.status == StatusVanished {
			continue
		}

		inspect, err := f.api.ContainerInspect(ctx, m.ID)
		if err != nil {
			if ctx.Err() != nil {
				return running
			}
			if !errdefs.IsNotFound(err) {
				slog.Warn("status refresh failed", "container", m.Name, "error", err)
			}
			m.status = StatusVanished
			slog.Info("container vanished", "feed", m.Feed, "container", m.Name)
			for _, fn := range f.onGone {
				fn(m)
			}
			continue
		}

		if inspect.State != nil && inspect.State.Running {
			m.status = StatusRunning
			running++
		} else {
			m.status = StatusStopped
		}
	}

	for _, fn := range f.onPoll {
		fn(running, len(f.containers))
	}
	return running
}

// TeardownAll stops and removes every tracked container. Each failure is
// logged and skipped so the remaining handles are still attempted. A handle
// already gone from the runtime counts as satisfied, which makes repeated
// teardowns of the same fleet harmless.
func (f *Fleet) TeardownAll(ctx context.Context) {
	for _, m := range f.containers {
		if err := f.teardown(ctx, m); err != nil {
			slog.Warn("teardown failed", "feed", m.Feed, "container", m.Name, "error", err)
			continue
		}
		slog.Info("container removed", "feed", m.Feed, "container", m.Name)
	}
}

func (f *Fleet) teardown(ctx context.Context, m *Managed) error {
	timeout := stopTimeout
	err := f.api.ContainerStop(ctx, m.ID, container.StopOptions{Timeout: &timeout})
	if err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("failed to stop container: %w", err)
	}

	if err := f.api.ContainerRemove(ctx, m.ID, container.RemoveOptions{}); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("failed to remove container: %w", err)
	}

	m.status = StatusStopped
	return nil
}

// ensureImage pulls an image if not present locally.
func (f *Fleet) ensureImage(ctx context.Context, imageName string) error {
	_, _, err := f.api.ImageInspectWithRaw(ctx, imageName)
	if err == nil {
		return nil // Image exists
	}

	slog.Info("pulling image", "image", imageName)
	reader, err := f.api.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()

	// Consume the reader to complete the pull
	_, err = io.Copy(io.Discard, reader)
	return err
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

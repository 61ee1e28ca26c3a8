package ldes

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/maregraph-eu/ldes-orchestrator/container"
)

// DefaultPollInterval is the period between fleet status refreshes.
const DefaultPollInterval = 10 * time.Second

// Orchestrator turns the feeds configuration into a supervised fleet of
// consumer containers for the duration of one run. Create it with
// NewOrchestrator and drive it with Run; the finer-grained Start, Supervise
// and Shutdown phases are exported for callers that need to interleave them.
type Orchestrator struct {
	cfg      *Config
	settings Settings
	api      container.API
	fleet    *container.Fleet

	// Configuration
	self     container.SelfIdentity
	interval time.Duration

	// Run state
	runID        string
	rctx         container.RuntimeContext
	reportedIdle bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSelfIdentity overrides how the orchestrator resolves its own container
// identity during runtime context detection.
func WithSelfIdentity(self container.SelfIdentity) Option {
	return func(o *Orchestrator) {
		o.self = self
	}
}

// WithPollInterval sets the supervision poll period.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.interval = d
	}
}

// NewOrchestrator creates an orchestrator for one run over the given
// configuration.
func NewOrchestrator(cfg *Config, settings Settings, api container.API, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		settings: settings,
		api:      api,
		fleet:    container.NewFleet(api),
		self:     container.HostnameIdentity(),
		interval: DefaultPollInterval,
		runID:    uuid.New().String()[:8],
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// RunID identifies this orchestration run; every spawned container carries
// it as a label.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Fleet returns the tracked fleet, mainly to register lifecycle hooks.
func (o *Orchestrator) Fleet() *container.Fleet {
	return o.fleet
}

// Run executes one orchestration pass: detect the runtime context, spawn one
// container per feed, supervise until ctx is cancelled, then tear the fleet
// down. Teardown runs under a fresh context so an already-delivered signal
// cannot interrupt it; a second signal during teardown is not handled.
func (o *Orchestrator) Run(ctx context.Context) {
	o.Start(ctx)
	o.Supervise(ctx)
	o.Shutdown(context.Background())
}

// Start detects the runtime context and spawns one container per configured
// feed. A feed that fails to spawn is logged and skipped; the remaining
// feeds still start.
func (o *Orchestrator) Start(ctx context.Context) {
	o.rctx = container.DetectRuntimeContext(ctx, o.api, o.self)

	network := o.rctx.Network
	if network == "" && o.settings.Network != "" {
		network = o.settings.Network
		slog.Info("using network from environment", "network", network)
	}

	if len(o.cfg.Feeds) == 0 {
		slog.Warn("no feeds defined in configuration")
	}

	for _, feed := range o.cfg.Feeds {
		if err := o.spawnFeed(ctx, feed, network); err != nil {
			slog.Error("feed spawn failed", "feed", feed.Name, "error", err)
			continue
		}
	}

	slog.Info("fleet started", "spawned", o.fleet.Size(), "feeds", len(o.cfg.Feeds), "run_id", o.runID)
}

func (o *Orchestrator) spawnFeed(ctx context.Context, feed FeedSpec, network string) error {
	env := BuildEnvironment(feed, o.settings)

	stateDir := o.settings.StateDir(feed.Name)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return &FeedError{Feed: feed.Name, Err: fmt.Errorf("failed to create state directory: %w", err)}
	}

	name := container.NameFor(feed.Name)
	slog.Debug("spawning consumer",
		"feed", feed.Name,
		"container", name,
		"url", feed.URL,
		"graph", env.Get(VarTargetGraph),
		"state_dir", stateDir)

	_, err := o.fleet.Spawn(ctx, container.SpawnSpec{
		Feed:     feed.Name,
		Name:     name,
		Image:    o.settings.Image,
		Env:      env.Slice(),
		StateDir: stateDir,
		Labels:   o.labelsFor(name, feed.Name),
		Network:  network,
	})
	if err != nil {
		return &FeedError{Feed: feed.Name, Err: err}
	}
	return nil
}

// labelsFor builds the label set for one spawned container: the management
// labels plus, when a compose project was detected, the propagated project
// labels with the service label naming the spawned unit.
func (o *Orchestrator) labelsFor(containerName, feed string) map[string]string {
	labels := map[string]string{
		container.LabelManagedBy: container.ManagedBy,
		container.LabelFeed:      feed,
		container.LabelRunID:     o.runID,
	}

	for k, v := range o.rctx.Labels {
		labels[k] = v
	}
	if len(o.rctx.Labels) > 0 {
		labels[container.ComposeServiceLabel] = containerName
	}

	return labels
}

// Supervise polls the fleet at the configured interval and reports aggregate
// counts until ctx is cancelled. It only observes; stopped containers are
// not restarted. The moment every spawned container has stopped is reported
// once, and supervision keeps running so the fleet is still torn down
// cleanly on shutdown.
func (o *Orchestrator) Supervise(ctx context.Context) {
	slog.Info("supervising fleet", "containers", o.fleet.Size(), "interval", o.interval)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		running := o.fleet.PollAll(ctx)
		if running > 0 {
			slog.Info("fleet status", "running", running, "total", o.fleet.Size())
			o.reportedIdle = false
		} else if !o.reportedIdle {
			slog.Info("all spawned containers have stopped")
			o.reportedIdle = true
		}

		select {
		case <-ctx.Done():
			slog.Info("shutdown requested")
			return
		case <-ticker.C:
		}
	}
}

// Shutdown stops and removes every container the run spawned, best-effort.
func (o *Orchestrator) Shutdown(ctx context.Context) {
	slog.Info("tearing down fleet", "containers", o.fleet.Size())
	o.fleet.TeardownAll(ctx)
}

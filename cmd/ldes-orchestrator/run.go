package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ldes "github.com/maregraph-eu/ldes-orchestrator"
	"github.com/maregraph-eu/ldes-orchestrator/container"
	"github.com/maregraph-eu/ldes-orchestrator/internal/telemetry"
)

// runCmd loads the configuration, connects to Docker and drives the
// orchestration pass until interrupted.
func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Feeds file (default $LDES_CONFIG_PATH or /data/ldes-feeds.yaml)")

	fs.Usage = func() {
		fmt.Println(`Usage: ldes-orchestrator run [options]

Spawn one consumer container per configured feed, supervise the fleet, and
tear it down again on SIGINT or SIGTERM.

Options:`)
		fs.PrintDefaults()
		fmt.Println(`
Examples:
  ldes-orchestrator run
  ldes-orchestrator run --config ./ldes-feeds.yaml`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	settings := ldes.LoadSettings()
	if *configPath != "" {
		settings.ConfigPath = *configPath
	}

	logger := telemetry.SetupLogger(settings.LogLevel)
	logger.Info("starting ldes-orchestrator",
		"version", version,
		"config", settings.ConfigPath,
		"image", settings.Image)

	cfg, err := ldes.LoadConfig(settings.ConfigPath)
	if err != nil {
		logger.Error("configuration load failed", "path", settings.ConfigPath, "error", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded", "feeds", len(cfg.Feeds))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli, err := container.NewClient(ctx)
	if err != nil {
		logger.Error("docker connection failed; is the Docker socket mounted?", "error", err)
		os.Exit(1)
	}
	defer cli.Close()
	logger.Info("docker connection established")

	if settings.MetricsAddr != "" {
		go func() {
			logger.Info("serving metrics", "addr", settings.MetricsAddr)
			if err := http.ListenAndServe(settings.MetricsAddr, telemetry.Handler()); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	orch := ldes.NewOrchestrator(cfg, settings, cli)
	wireMetrics(orch.Fleet())

	orch.Run(ctx)

	logger.Info("ldes-orchestrator stopped")
}

// wireMetrics connects fleet lifecycle hooks to the Prometheus collectors.
func wireMetrics(fleet *container.Fleet) {
	fleet.OnPoll(telemetry.RecordFleet)
	fleet.OnGone(func(*container.Managed) {
		telemetry.RecordVanished()
	})
	fleet.OnSpawnFailed(func(string, error) {
		telemetry.RecordSpawnFailure()
	})
}

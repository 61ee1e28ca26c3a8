// Package ldes orchestrates one ldes2sparql consumer container per
// configured LDES feed.
//
// The package reads a small YAML document naming feeds, derives a full
// container environment for each, spawns them through the Docker Engine API,
// supervises the fleet with periodic status polls, and tears everything down
// again on shutdown. It provides:
//
//   - Ordered feed configuration with per-feed environment overrides
//   - Deterministic environment derivation with a documented precedence
//   - Per-feed container lifecycle: spawn, poll, teardown
//   - Compose project label and network propagation to spawned workloads
//   - Per-feed failure isolation: one broken feed never stops the rest
//
// # Quick Start
//
// Load the configuration and run a fleet until interrupted:
//
//	settings := ldes.LoadSettings()
//	cfg, err := ldes.LoadConfig(settings.ConfigPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cli, err := container.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cli.Close()
//
//	orch := ldes.NewOrchestrator(cfg, settings, cli)
//	orch.Run(ctx)
//
// Run blocks until ctx is cancelled, then stops and removes every container
// it spawned.
//
// # Configuration
//
// The feeds file maps feed names to definitions:
//
//	feeds:
//	  sensors:
//	    url: https://example.org/ldes/sensors
//	    target_graph: urn:kgap:ldes:sensors
//	    environment:
//	      FOLLOW: true
//	      MEMBER_BATCH_SIZE: 200
//
// Every key under environment overrides the derived value for that feed;
// unknown keys pass through to the container verbatim.
//
// # Architecture
//
// The main components are:
//
//   - Config: Parsed feeds document, in document order
//   - Settings: Process environment resolved with fallbacks
//   - Environment: The variable set one consumer container receives
//   - Orchestrator: Spawns the fleet, supervises it, tears it down
//   - container.Fleet: Tracks the spawned containers of one run
//
// # Concurrency
//
// An Orchestrator serves one run and is driven from a single goroutine; it
// is not safe for concurrent use.
package ldes

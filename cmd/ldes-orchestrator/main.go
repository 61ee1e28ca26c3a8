// Package main provides the ldes-orchestrator CLI.
package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
)

func main() {
	// No arguments means run: the binary doubles as a container entrypoint.
	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "run":
		runCmd(args)
	case "validate":
		validateCmd(args)
	case "version":
		fmt.Printf("ldes-orchestrator %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ldes-orchestrator - one consumer container per configured LDES feed

Usage:
  ldes-orchestrator [command] [options]

Commands:
  run       Spawn and supervise the consumer fleet (default)
  validate  Validate a feeds file without touching Docker
  version   Print version information
  help      Show this help message

Environment:
  LDES_CONFIG_PATH         Feeds file (default /data/ldes-feeds.yaml)
  LDES2SPARQL_IMAGE        Consumer image (default ghcr.io/maregraph-eu/ldes2sparql:latest)
  HOST_PWD                 Host working directory anchoring state mounts
  GRAPH_PREFIX             Prefix segment of derived target graph URNs (default ldes)
  GDB_REPO                 Repository in the derived SPARQL endpoint (default kgap)
  DEFAULT_SPARQL_ENDPOINT  Global default endpoint for feeds
  DOCKER_NETWORK           Network to attach when detection finds none
  LDES_LOG_LEVEL           Log level (default DEBUG; LOG_LEVEL also honored)
  LDES_METRICS_ADDR        Serve /metrics and /healthz when set (e.g. :9464)

Examples:
  ldes-orchestrator run --config ./ldes-feeds.yaml
  ldes-orchestrator validate ./ldes-feeds.yaml --verbose

Run 'ldes-orchestrator <command> --help' for more information on a command.`)
}

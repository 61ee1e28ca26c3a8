package main

import (
	"flag"
	"fmt"
	"os"

	ldes "github.com/maregraph-eu/ldes-orchestrator"
	"github.com/maregraph-eu/ldes-orchestrator/container"
)

// validateCmd parses a feeds file and prints what would be spawned, without
// touching Docker.
func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Show the resolved environment for each feed")

	fs.Usage = func() {
		fmt.Println(`Usage: ldes-orchestrator validate [file] [options]

Validate a feeds file without executing it. Without a file argument the
configured path ($LDES_CONFIG_PATH or /data/ldes-feeds.yaml) is used.

Options:`)
		fs.PrintDefaults()
		fmt.Println(`
Examples:
  ldes-orchestrator validate ./ldes-feeds.yaml
  ldes-orchestrator validate ./ldes-feeds.yaml --verbose`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	settings := ldes.LoadSettings()
	path := settings.ConfigPath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	cfg, err := ldes.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Feeds (%d):\n", len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		url := feed.URL
		if url == "" {
			url = "(none)"
		}
		fmt.Printf("  - %s: url=%s container=%s\n", feed.Name, url, container.NameFor(feed.Name))

		if *verbose {
			env := ldes.BuildEnvironment(feed, settings)
			for _, pair := range env.Slice() {
				fmt.Printf("      %s\n", pair)
			}
		}
	}

	fmt.Printf("Valid: %s\n", path)
}

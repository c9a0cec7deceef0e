// Interactive console for planet workflows.
//
// A REPL that starts (or attaches to) one planet and drives it as both the
// orchestrator and an explorer: send sunrays and asteroids, start and stop
// the AI, generate and combine resources.
//
// Usage:
//
//	console                              Start a new planet with the default setup
//	console -definition waterworld.star  Start a planet from a Starlark definition
//	console -planet orbitron-ab12cd34    Attach to a running planet
package main

import (
	"flag"
	"fmt"
	"os"

	"go.temporal.io/sdk/contrib/envconfig"

	"github.com/galaxysim/orbitron/internal/cli"
)

func main() {
	planet := flag.String("planet", "", "Attach to an existing planet workflow")
	name := flag.String("name", "", "Planet ID for a new planet (default: generated)")
	definition := flag.String("definition", "", "Worker-side Starlark planet definition path")
	temporalHost := flag.String("temporal-host", "", "Temporal server address (overrides environment)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	options, err := envconfig.LoadDefaultClientOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *temporalHost != "" {
		options.HostPort = *temporalHost
	}

	app := cli.NewApp(cli.Config{
		ClientOptions:  options,
		WorkflowID:     *planet,
		PlanetID:       *name,
		DefinitionPath: *definition,
		NoColor:        *noColor,
	})
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

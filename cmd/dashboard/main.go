// Live dashboard for one planet workflow.
//
// Usage:
//
//	dashboard -planet orbitron-ab12cd34
package main

import (
	"flag"
	"fmt"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/envconfig"

	"github.com/galaxysim/orbitron/internal/dashboard"
)

func main() {
	planet := flag.String("planet", "", "Planet workflow to watch (required)")
	temporalHost := flag.String("temporal-host", "", "Temporal server address (overrides environment)")
	flag.Parse()

	if *planet == "" {
		fmt.Fprintln(os.Stderr, "Usage: dashboard -planet <workflow-id>")
		os.Exit(2)
	}

	options, err := envconfig.LoadDefaultClientOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *temporalHost != "" {
		options.HostPort = *temporalHost
	}

	c, err := client.Dial(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect to Temporal: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if err := dashboard.Run(c, *planet); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

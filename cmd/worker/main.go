// Worker hosting planet workflows.
//
// Runs the planet workflow plus its activities: Starlark definition
// loading and the SQLite game event journal. Temporal connection settings
// come from the standard TEMPORAL_* environment variables, with flags as
// overrides.
//
// Usage:
//
//	worker                          Run with defaults (local Temporal, orbitron.db)
//	worker -journal /var/lib/orbitron.db
//	worker -temporal-host temporal.example.com:7233
package main

import (
	"flag"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/envconfig"
	"go.temporal.io/sdk/worker"
	sdkworkflow "go.temporal.io/sdk/workflow"

	"github.com/galaxysim/orbitron/internal/activities"
	"github.com/galaxysim/orbitron/internal/journal"
	"github.com/galaxysim/orbitron/internal/workflow"
)

func main() {
	temporalHost := flag.String("temporal-host", "", "Temporal server address (overrides environment)")
	taskQueue := flag.String("task-queue", workflow.TaskQueue, "Task queue to poll")
	journalPath := flag.String("journal", "orbitron.db", "Path to the SQLite game event journal")
	flag.Parse()

	options, err := envconfig.LoadDefaultClientOptions()
	if err != nil {
		log.Fatalf("Failed to load Temporal client options: %v", err)
	}
	if *temporalHost != "" {
		options.HostPort = *temporalHost
	}

	c, err := client.Dial(options)
	if err != nil {
		log.Fatalf("Failed to connect to Temporal: %v", err)
	}
	defer c.Close()

	store, err := journal.Open(*journalPath)
	if err != nil {
		log.Fatalf("Failed to open journal %s: %v", *journalPath, err)
	}
	defer store.Close()

	w := worker.New(c, *taskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(workflow.PlanetWorkflow, sdkworkflow.RegisterOptions{
		Name: workflow.WorkflowName,
	})
	w.RegisterActivity(activities.NewJournalActivities(store))
	w.RegisterActivity(activities.NewDefinitionActivities())

	log.Printf("Worker started: queue=%s journal=%s", *taskQueue, *journalPath)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}

// Package activities contains the worker-side activities the planet
// workflow calls: loading planet definitions from the worker filesystem and
// journaling game events.
package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/galaxysim/orbitron/internal/game"
	"github.com/galaxysim/orbitron/internal/planetdef"
)

// LoadPlanetDefinitionInput is the input for LoadPlanetDefinition.
type LoadPlanetDefinitionInput struct {
	Path string `json:"path"`
}

// LoadPlanetDefinitionOutput carries the parsed planet configuration.
type LoadPlanetDefinitionOutput struct {
	Config game.Config `json:"config"`
}

// DefinitionActivities loads planet definitions. Runs on the worker so
// definition files live next to the worker, not the console.
type DefinitionActivities struct{}

// NewDefinitionActivities creates a DefinitionActivities instance.
func NewDefinitionActivities() *DefinitionActivities {
	return &DefinitionActivities{}
}

// LoadPlanetDefinition parses a Starlark planet definition from the worker
// filesystem.
func (a *DefinitionActivities) LoadPlanetDefinition(
	ctx context.Context, input LoadPlanetDefinitionInput,
) (LoadPlanetDefinitionOutput, error) {
	logger := activity.GetLogger(ctx)

	cfg, err := planetdef.ParseFile(input.Path)
	if err != nil {
		logger.Warn("Failed to parse planet definition", "path", input.Path, "error", err)
		return LoadPlanetDefinitionOutput{}, err
	}

	logger.Info("Planet definition loaded",
		"path", input.Path,
		"type", string(cfg.Type),
		"generates", len(cfg.Generates),
		"combines", len(cfg.Combines))
	return LoadPlanetDefinitionOutput{Config: cfg}, nil
}

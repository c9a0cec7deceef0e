// Package ai defines the decision-making contract a planet harness drives,
// plus the request/response shapes exchanged with explorers. Implementations
// must be deterministic and side-effect free apart from the injected game
// state and event recorder: the harness may run them inside a Temporal
// workflow.
package ai

import "github.com/galaxysim/orbitron/internal/game"

// ExplorerRequestType discriminates explorer requests.
type ExplorerRequestType string

const (
	ReqSupportedResources    ExplorerRequestType = "supported-resources"
	ReqSupportedCombinations ExplorerRequestType = "supported-combinations"
	ReqGenerateResource      ExplorerRequestType = "generate-resource"
	ReqCombineResource       ExplorerRequestType = "combine-resource"
	ReqAvailableCells        ExplorerRequestType = "available-cells"
)

// ExplorerRequest is one message from an explorer. Fields beyond Type and
// ExplorerID are populated per request type.
type ExplorerRequest struct {
	Type       ExplorerRequestType `json:"type"`
	ExplorerID string              `json:"explorer_id"`

	// generate-resource
	Resource game.BasicType `json:"resource,omitempty"`

	// combine-resource
	Product game.ComplexType `json:"product,omitempty"`
	Inputs  []game.Resource  `json:"inputs,omitempty"`
}

// ExplorerResponse answers an ExplorerRequest. Exactly the fields relevant
// to the request type are populated; Reason is set on failures.
type ExplorerResponse struct {
	Type ExplorerRequestType `json:"type"`

	SupportedResources    []game.BasicType   `json:"supported_resources,omitempty"`
	SupportedCombinations []game.ComplexType `json:"supported_combinations,omitempty"`

	Resource *game.Resource `json:"resource,omitempty"`

	Reason   string          `json:"reason,omitempty"`
	Returned []game.Resource `json:"returned,omitempty"`

	AvailableCells int `json:"available_cells,omitempty"`
}

// OK reports whether the request succeeded.
func (r ExplorerResponse) OK() bool {
	return r.Reason == ""
}

// SunrayOutcome reports what happened to an incoming sunray. Absorbed=false
// means every cell was full and the ray is acked back to the orchestrator.
type SunrayOutcome struct {
	Absorbed  bool `json:"absorbed"`
	CellIndex int  `json:"cell_index"`
}

// AsteroidOutcome reports the result of an asteroid strike. Survived=false
// means the planet had no rocket to launch and is destroyed.
type AsteroidOutcome struct {
	Survived bool         `json:"survived"`
	Rocket   *game.Rocket `json:"rocket,omitempty"`
}

// PlanetAI is the capability contract a planet harness drives. The harness
// owns the planet state, generator and combinator, and hands them to the AI
// on every decision.
type PlanetAI interface {
	// HandleSunray charges an energy cell if one has room.
	HandleSunray(state *game.PlanetState, ray game.Sunray) SunrayOutcome

	// HandleStateRequest returns a snapshot for the orchestrator.
	HandleStateRequest(state *game.PlanetState) game.Snapshot

	// HandleExplorerRequest answers one explorer message.
	HandleExplorerRequest(state *game.PlanetState, gen *game.Generator, comb *game.Combinator, req ExplorerRequest) ExplorerResponse

	// HandleAsteroid is the survival reflex: launch a rocket or perish.
	HandleAsteroid(state *game.PlanetState) AsteroidOutcome

	// OnExplorerArrival and OnExplorerDeparture observe explorer movement.
	OnExplorerArrival(state *game.PlanetState, explorerID string)
	OnExplorerDeparture(state *game.PlanetState, explorerID string)

	// OnStart and OnStop toggle decision making. Redundant transitions are
	// ignored.
	OnStart(state *game.PlanetState)
	OnStop(state *game.PlanetState)

	// Running reports whether the AI is accepting explorer traffic.
	Running() bool
}

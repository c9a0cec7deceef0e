package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galaxysim/orbitron/internal/ai"
	"github.com/galaxysim/orbitron/internal/game"
	"github.com/galaxysim/orbitron/internal/gamelog"
	"github.com/galaxysim/orbitron/internal/workflow"
)

func TestRenderer_RenderEvent(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true) // noColor=true for testing

	r.RenderEvent(gamelog.Event{
		Seq:     7,
		From:    &gamelog.Participant{Actor: gamelog.ActorPlanet, ID: "orbitron-1"},
		Type:    gamelog.EventInternalAction,
		Channel: gamelog.ChannelDebug,
		Payload: gamelog.Payload{"message": "sunray absorbed", "cell": "0"},
	})

	out := buf.String()
	assert.Contains(t, out, "#7 [debug] internal")
	assert.Contains(t, out, "from=planet:orbitron-1")
	assert.Contains(t, out, `cell="0"`)
}

func TestRenderer_RenderStateReport(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderStateReport(workflow.StateReport{
		Snapshot: game.Snapshot{
			PlanetID: "orbitron-1",
			Type:     game.TypeB,
			Cells: []game.EnergyCell{
				{Charge: 1, Capacity: 1},
				{Charge: 0, Capacity: 1},
			},
			ChargedCells: 1,
			HasRocket:    true,
		},
		Phase:   workflow.PhaseRunning,
		Running: true,
	})

	out := buf.String()
	assert.Contains(t, out, "planet orbitron-1 (type B)")
	assert.Contains(t, out, "phase: running")
	assert.Contains(t, out, "cell 0: █ 1/1")
	assert.Contains(t, out, "cell 1: ░ 0/1")
	assert.Contains(t, out, "rocket: ready")
}

func TestRenderer_RenderRecipes(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderRecipes(
		[]game.BasicType{game.Hydrogen, game.Oxygen},
		[]game.ComplexType{game.Water},
	)

	out := buf.String()
	assert.Contains(t, out, "generates: hydrogen, oxygen")
	assert.Contains(t, out, "water = hydrogen + oxygen")
}

func TestRenderer_RenderRecipes_NoCombinations(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderRecipes([]game.BasicType{game.Carbon}, nil)

	assert.Contains(t, buf.String(), "combines: nothing")
}

func TestRenderer_RenderExplorerResponse_Generated(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderExplorerResponse(ai.ExplorerResponse{
		Type: ai.ReqGenerateResource,
		Resource: &game.Resource{
			ID:    "orbitron-1-r1",
			Kind:  game.KindBasic,
			Basic: game.Hydrogen,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "received")
	assert.Contains(t, out, "orbitron-1-r1")
}

func TestRenderer_RenderExplorerResponse_Refused(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderExplorerResponse(ai.ExplorerResponse{
		Type:   ai.ReqCombineResource,
		Reason: "no charged energy cell available",
		Returned: []game.Resource{
			{ID: "a-r1", Kind: game.KindBasic, Basic: game.Hydrogen},
			{ID: "a-r2", Kind: game.KindBasic, Basic: game.Oxygen},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "refused: no charged energy cell available")
	assert.Contains(t, out, "returned")
	assert.Contains(t, out, "a-r1")
	assert.Contains(t, out, "a-r2")
}

func TestRenderer_RenderInventory(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderInventory(map[string]game.Resource{
		"p-r2": {ID: "p-r2", Kind: game.KindBasic, Basic: game.Oxygen},
		"p-r1": {ID: "p-r1", Kind: game.KindBasic, Basic: game.Hydrogen},
	})

	out := buf.String()
	// Sorted by ID.
	require.Less(t, bytes.Index(buf.Bytes(), []byte("p-r1")), bytes.Index(buf.Bytes(), []byte("p-r2")))
	assert.Contains(t, out, "hydrogen")
	assert.Contains(t, out, "oxygen")
}

func TestRenderer_RenderInventory_Empty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderInventory(nil)

	assert.Contains(t, buf.String(), "inventory empty")
}

func TestRenderer_RenderHelp_NoColor(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderHelp()

	out := buf.String()
	assert.Contains(t, out, "sunray")
	assert.Contains(t, out, "combine <product> <id> <id>")
}

func TestRenderer_RenderError(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderError(errors.New("planet is destroyed"))

	assert.Contains(t, buf.String(), "error: planet is destroyed")
}

package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galaxysim/orbitron/internal/game"
	"github.com/galaxysim/orbitron/internal/gamelog"
)

type fixture struct {
	ai    *Orbitron
	state *game.PlanetState
	gen   *game.Generator
	comb  *game.Combinator
	log   *gamelog.Recorder
}

// newFixture builds a default (Type B, hydrogen+oxygen, water) planet with
// a started Orbitron AI.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := game.DefaultConfig()
	state, err := game.NewPlanetState("orbitron-1", cfg)
	require.NoError(t, err)
	log := gamelog.NewRecorder(time.Now)
	o := NewOrbitron("orbitron-1", log)
	o.OnStart(state)
	return &fixture{
		ai:    o,
		state: state,
		gen:   game.NewGenerator(cfg.Generates),
		comb:  game.NewCombinator(cfg.Combines),
		log:   log,
	}
}

func (f *fixture) chargeAll() {
	for {
		if _, ok := f.state.ChargeCell(game.Sunray{}); !ok {
			return
		}
	}
}

func TestHandleSunray_AbsorbsUntilFull(t *testing.T) {
	f := newFixture(t)

	out := f.ai.HandleSunray(f.state, game.Sunray{})
	assert.True(t, out.Absorbed)
	assert.Equal(t, 0, out.CellIndex)

	out = f.ai.HandleSunray(f.state, game.Sunray{})
	assert.True(t, out.Absorbed)
	assert.Equal(t, 1, out.CellIndex)

	out = f.ai.HandleSunray(f.state, game.Sunray{})
	assert.False(t, out.Absorbed, "full bank acks the ray")
}

func TestHandleStateRequest(t *testing.T) {
	f := newFixture(t)
	f.ai.HandleSunray(f.state, game.Sunray{})

	snap := f.ai.HandleStateRequest(f.state)
	assert.Equal(t, "orbitron-1", snap.PlanetID)
	assert.Equal(t, game.TypeB, snap.Type)
	assert.Equal(t, 1, snap.ChargedCells)
	assert.False(t, snap.HasRocket)
}

func TestExplorerRequest_SupportedRecipes(t *testing.T) {
	f := newFixture(t)

	resp := f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqSupportedResources,
		ExplorerID: "e1",
	})
	require.True(t, resp.OK())
	assert.Equal(t, []game.BasicType{game.Hydrogen, game.Oxygen}, resp.SupportedResources)

	resp = f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqSupportedCombinations,
		ExplorerID: "e1",
	})
	require.True(t, resp.OK())
	assert.Equal(t, []game.ComplexType{game.Water}, resp.SupportedCombinations)
}

func TestExplorerRequest_GenerateResource(t *testing.T) {
	f := newFixture(t)
	f.chargeAll()

	resp := f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqGenerateResource,
		ExplorerID: "e1",
		Resource:   game.Hydrogen,
	})
	require.True(t, resp.OK())
	require.NotNil(t, resp.Resource)
	assert.Equal(t, game.Hydrogen, resp.Resource.Basic)
	assert.Equal(t, 1, f.state.ChargedCells())
}

func TestExplorerRequest_GenerateUnsupported(t *testing.T) {
	f := newFixture(t)
	f.chargeAll()

	resp := f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqGenerateResource,
		ExplorerID: "e1",
		Resource:   game.Silicon,
	})
	assert.False(t, resp.OK())
	assert.Nil(t, resp.Resource)
	assert.Contains(t, resp.Reason, "unsupported resource type")
	assert.Equal(t, 2, f.state.ChargedCells(), "failed generation keeps charge")
}

func TestExplorerRequest_GenerateWithoutCharge(t *testing.T) {
	f := newFixture(t)

	resp := f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqGenerateResource,
		ExplorerID: "e1",
		Resource:   game.Hydrogen,
	})
	assert.False(t, resp.OK())
	assert.Contains(t, resp.Reason, "no charged energy cell")
}

func TestExplorerRequest_CombineWater(t *testing.T) {
	f := newFixture(t)
	f.chargeAll()

	h := game.Resource{ID: "h1", Kind: game.KindBasic, Basic: game.Hydrogen}
	o2 := game.Resource{ID: "o1", Kind: game.KindBasic, Basic: game.Oxygen}

	resp := f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqCombineResource,
		ExplorerID: "e1",
		Product:    game.Water,
		Inputs:     []game.Resource{h, o2},
	})
	require.True(t, resp.OK())
	require.NotNil(t, resp.Resource)
	assert.Equal(t, game.Water, resp.Resource.Complex)
	assert.Empty(t, resp.Returned)
}

func TestExplorerRequest_CombineFailureReturnsInputs(t *testing.T) {
	f := newFixture(t)
	f.chargeAll()

	h := game.Resource{ID: "h1", Kind: game.KindBasic, Basic: game.Hydrogen}
	c := game.Resource{ID: "c1", Kind: game.KindBasic, Basic: game.Carbon}

	resp := f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqCombineResource,
		ExplorerID: "e1",
		Product:    game.Water,
		Inputs:     []game.Resource{h, c},
	})
	assert.False(t, resp.OK())
	assert.Equal(t, []game.Resource{h, c}, resp.Returned)
	assert.Equal(t, 2, f.state.ChargedCells())
}

func TestExplorerRequest_CombineUnsupportedProduct(t *testing.T) {
	f := newFixture(t)
	f.chargeAll()

	c1 := game.Resource{ID: "c1", Kind: game.KindBasic, Basic: game.Carbon}
	c2 := game.Resource{ID: "c2", Kind: game.KindBasic, Basic: game.Carbon}

	resp := f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqCombineResource,
		ExplorerID: "e1",
		Product:    game.Diamond,
		Inputs:     []game.Resource{c1, c2},
	})
	assert.False(t, resp.OK())
	assert.Contains(t, resp.Reason, "no recipe for diamond")
	assert.Equal(t, []game.Resource{c1, c2}, resp.Returned)
}

func TestExplorerRequest_CombineWrongInputCount(t *testing.T) {
	f := newFixture(t)

	resp := f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqCombineResource,
		ExplorerID: "e1",
		Product:    game.Water,
		Inputs:     []game.Resource{{ID: "h1", Kind: game.KindBasic, Basic: game.Hydrogen}},
	})
	assert.False(t, resp.OK())
	assert.Contains(t, resp.Reason, "exactly 2 inputs")
}

func TestExplorerRequest_AvailableCells(t *testing.T) {
	f := newFixture(t)
	f.ai.HandleSunray(f.state, game.Sunray{})

	resp := f.ai.HandleExplorerRequest(f.state, f.gen, f.comb, ExplorerRequest{
		Type:       ReqAvailableCells,
		ExplorerID: "e1",
	})
	require.True(t, resp.OK())
	assert.Equal(t, 1, resp.AvailableCells)
}

func TestHandleAsteroid_BuildsAtLastMoment(t *testing.T) {
	f := newFixture(t)
	f.chargeAll()

	out := f.ai.HandleAsteroid(f.state)
	require.True(t, out.Survived)
	require.NotNil(t, out.Rocket)
	assert.False(t, f.state.HasRocket(), "launch consumes the rocket")
	assert.Equal(t, 1, f.state.ChargedCells(), "build drained one cell")
}

func TestHandleAsteroid_NoChargeDestroys(t *testing.T) {
	f := newFixture(t)

	out := f.ai.HandleAsteroid(f.state)
	assert.False(t, out.Survived)
	assert.Nil(t, out.Rocket)
}

func TestHandleAsteroid_StoppedAIUsesOnlyPrebuiltRocket(t *testing.T) {
	f := newFixture(t)
	f.chargeAll()
	f.ai.OnStop(f.state)

	// Charged cells but no rocket: a stopped AI cannot react.
	out := f.ai.HandleAsteroid(f.state)
	assert.False(t, out.Survived)
	assert.Equal(t, 2, f.state.ChargedCells())

	// A rocket built while running survives a strike after stopping.
	f.ai.OnStart(f.state)
	_, err := f.state.BuildRocket()
	require.NoError(t, err)
	f.ai.OnStop(f.state)

	out = f.ai.HandleAsteroid(f.state)
	assert.True(t, out.Survived)
}

func TestLifecycle_RedundantTransitionsIgnored(t *testing.T) {
	log := gamelog.NewRecorder(time.Now)
	o := NewOrbitron("orbitron-1", log)
	state, err := game.NewPlanetState("orbitron-1", game.DefaultConfig())
	require.NoError(t, err)

	assert.False(t, o.Running(), "AI starts stopped")

	o.OnStart(state)
	assert.True(t, o.Running())
	before := log.Len()
	o.OnStart(state)
	assert.Equal(t, before, log.Len(), "redundant start emits nothing")

	o.OnStop(state)
	assert.False(t, o.Running())
	before = log.Len()
	o.OnStop(state)
	assert.Equal(t, before, log.Len(), "redundant stop emits nothing")
}

func TestExplorerMovement_Logged(t *testing.T) {
	f := newFixture(t)
	before := f.log.Len()

	f.ai.OnExplorerArrival(f.state, "e7")
	f.ai.OnExplorerDeparture(f.state, "e7")

	events := f.log.Since(int64(0))[before:]
	require.Len(t, events, 2)
	assert.Equal(t, "explorer arrived", events[0].Payload["message"])
	assert.Equal(t, "explorer departed", events[1].Payload["message"])
}

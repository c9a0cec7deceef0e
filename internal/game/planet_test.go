package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate_Default(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate_TooManyGenerationRules(t *testing.T) {
	cfg := Config{
		Type:      TypeB,
		Generates: []BasicType{Hydrogen, Oxygen, Carbon, Silicon},
		Combines:  []ComplexType{Water},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 2 generation rules")
}

func TestConfigValidate_DuplicateRule(t *testing.T) {
	cfg := Config{
		Type:      TypeB,
		Generates: []BasicType{Hydrogen, Hydrogen},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate generation rule")
}

func TestConfigValidate_UnknownPlanetType(t *testing.T) {
	cfg := Config{Type: "Z", Generates: []BasicType{Hydrogen}}
	require.Error(t, cfg.Validate())
}

func TestConfigValidate_CellCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CellCapacity = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")

	// Zero is the unset sentinel and falls back to the default.
	cfg.CellCapacity = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultCellCapacity, cfg.cellCapacity())
}

func TestConfigValidate_NoGenerationRules(t *testing.T) {
	cfg := Config{Type: TypeA}
	require.Error(t, cfg.Validate())
}

func TestNewPlanetState_CellBank(t *testing.T) {
	for _, tc := range []struct {
		planetType PlanetType
		cells      int
	}{
		{TypeA, 1},
		{TypeB, 2},
		{TypeC, 3},
		{TypeD, 4},
	} {
		cfg := Config{Type: tc.planetType, Generates: []BasicType{Hydrogen}}
		state, err := NewPlanetState("p1", cfg)
		require.NoError(t, err)
		assert.Len(t, state.Cells, tc.cells, "planet type %s", tc.planetType)
	}
}

func TestChargeCell_FillsThenAcks(t *testing.T) {
	state, err := NewPlanetState("p1", DefaultConfig())
	require.NoError(t, err)

	idx, charged := state.ChargeCell(Sunray{})
	require.True(t, charged)
	assert.Equal(t, 0, idx)

	idx, charged = state.ChargeCell(Sunray{})
	require.True(t, charged)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, state.ChargedCells())

	// Bank is full: the next ray is not absorbed.
	_, charged = state.ChargeCell(Sunray{})
	assert.False(t, charged)
	assert.Equal(t, 2, state.ChargedCells())
}

func TestChargeCell_MultiUnitCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CellCapacity = 2
	state, err := NewPlanetState("p1", cfg)
	require.NoError(t, err)

	_, charged := state.ChargeCell(Sunray{})
	require.True(t, charged)
	assert.Equal(t, 0, state.ChargedCells(), "half-charged cell is not usable")

	_, charged = state.ChargeCell(Sunray{})
	require.True(t, charged)
	assert.Equal(t, 1, state.ChargedCells())
}

func TestConsumeCharged_ResetsCell(t *testing.T) {
	state, err := NewPlanetState("p1", DefaultConfig())
	require.NoError(t, err)

	_, ok := state.ConsumeCharged()
	assert.False(t, ok, "nothing to consume on a cold planet")

	state.ChargeCell(Sunray{})
	idx, ok := state.ConsumeCharged()
	require.True(t, ok)
	assert.Equal(t, 0, state.Cells[idx].Charge)
	assert.Equal(t, 0, state.ChargedCells())
}

func TestBuildRocket(t *testing.T) {
	state, err := NewPlanetState("p1", DefaultConfig())
	require.NoError(t, err)

	_, err = state.BuildRocket()
	assert.ErrorIs(t, err, ErrNoChargedCell)

	state.ChargeCell(Sunray{})
	rocket, err := state.BuildRocket()
	require.NoError(t, err)
	assert.Equal(t, 1, rocket.Serial)
	assert.True(t, state.HasRocket())
	assert.Equal(t, 0, state.ChargedCells(), "building drains a cell")

	state.ChargeCell(Sunray{})
	_, err = state.BuildRocket()
	assert.ErrorIs(t, err, ErrRocketExists)

	launched := state.TakeRocket()
	require.NotNil(t, launched)
	assert.Equal(t, 1, launched.Serial)
	assert.False(t, state.HasRocket())
	assert.Nil(t, state.TakeRocket())
}

func TestSnapshot_CopiesCells(t *testing.T) {
	state, err := NewPlanetState("p1", DefaultConfig())
	require.NoError(t, err)
	state.ChargeCell(Sunray{})

	snap := state.Snapshot()
	assert.Equal(t, 1, snap.ChargedCells)
	assert.False(t, snap.HasRocket)

	// Mutating the snapshot must not touch planet state.
	snap.Cells[0].Charge = 99
	assert.Equal(t, 1, state.Cells[0].Charge)
}

func TestParsePlanetType(t *testing.T) {
	pt, err := ParsePlanetType("B")
	require.NoError(t, err)
	assert.Equal(t, TypeB, pt)

	_, err = ParsePlanetType("X")
	require.Error(t, err)
}

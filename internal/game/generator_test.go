package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SupportedType(t *testing.T) {
	state := chargedPlanet(t)
	gen := NewGenerator([]BasicType{Hydrogen, Oxygen})

	res, err := gen.Generate(state, Hydrogen)
	require.NoError(t, err)
	assert.Equal(t, KindBasic, res.Kind)
	assert.Equal(t, Hydrogen, res.Basic)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 1, state.ChargedCells(), "generation drains one cell")
}

func TestGenerate_UnsupportedTypeKeepsCharge(t *testing.T) {
	state := chargedPlanet(t)
	gen := NewGenerator([]BasicType{Hydrogen, Oxygen})

	_, err := gen.Generate(state, Carbon)
	assert.ErrorIs(t, err, ErrUnsupportedResource)
	assert.Equal(t, 2, state.ChargedCells())
}

func TestGenerate_NoCharge(t *testing.T) {
	state, err := NewPlanetState("p1", DefaultConfig())
	require.NoError(t, err)
	gen := NewGenerator([]BasicType{Hydrogen})

	_, err = gen.Generate(state, Hydrogen)
	assert.ErrorIs(t, err, ErrNoChargedCell)
}

func TestGenerate_UniqueIDs(t *testing.T) {
	state := chargedPlanet(t)
	gen := NewGenerator([]BasicType{Hydrogen})

	r1, err := gen.Generate(state, Hydrogen)
	require.NoError(t, err)
	r2, err := gen.Generate(state, Hydrogen)
	require.NoError(t, err)
	assert.NotEqual(t, r1.ID, r2.ID)
}

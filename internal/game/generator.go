package game

import (
	"errors"
	"fmt"
)

// ErrUnsupportedResource is returned when a planet is asked for a resource
// type outside its configured rules.
var ErrUnsupportedResource = errors.New("unsupported resource type")

// Generator produces basic resources according to a planet's generation
// rules. Every successful generation drains one charged energy cell.
type Generator struct {
	rules []BasicType
}

// NewGenerator builds a generator from the configured rules.
func NewGenerator(rules []BasicType) *Generator {
	out := make([]BasicType, len(rules))
	copy(out, rules)
	return &Generator{rules: out}
}

// Recipes returns the basic resource types this generator supports.
func (g *Generator) Recipes() []BasicType {
	out := make([]BasicType, len(g.rules))
	copy(out, g.rules)
	return out
}

// Supports reports whether the generator can produce the given type.
func (g *Generator) Supports(t BasicType) bool {
	for _, r := range g.rules {
		if r == t {
			return true
		}
	}
	return false
}

// Generate produces one basic resource of the requested type, consuming a
// charged cell from the planet. Unsupported types and missing charge fail
// without side effects.
func (g *Generator) Generate(state *PlanetState, t BasicType) (Resource, error) {
	if !g.Supports(t) {
		return Resource{}, fmt.Errorf("%w: %s", ErrUnsupportedResource, t)
	}
	if _, ok := state.ConsumeCharged(); !ok {
		return Resource{}, ErrNoChargedCell
	}
	return Resource{
		ID:    state.newResourceID(),
		Kind:  KindBasic,
		Basic: t,
	}, nil
}

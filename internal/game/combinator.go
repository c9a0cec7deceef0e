package game

import "fmt"

// CombineError is a failed combination. The two input resources are handed
// back to the requester untouched.
type CombineError struct {
	Reason   string
	Returned [2]Resource
}

func (e *CombineError) Error() string {
	return e.Reason
}

// Combinator forms complex resources according to a planet's combination
// rules. Every successful combination consumes the two inputs and one
// charged energy cell; failures consume nothing and return the inputs.
type Combinator struct {
	rules []ComplexType
}

// NewCombinator builds a combinator from the configured rules.
func NewCombinator(rules []ComplexType) *Combinator {
	out := make([]ComplexType, len(rules))
	copy(out, rules)
	return &Combinator{rules: out}
}

// Recipes returns the complex resource types this combinator supports.
func (c *Combinator) Recipes() []ComplexType {
	out := make([]ComplexType, len(c.rules))
	copy(out, c.rules)
	return out
}

// Supports reports whether the combinator can form the given type.
func (c *Combinator) Supports(t ComplexType) bool {
	for _, r := range c.rules {
		if r == t {
			return true
		}
	}
	return false
}

// Combine forms one complex resource of the requested type from the two
// inputs. On failure it returns a *CombineError carrying the inputs back.
func (c *Combinator) Combine(state *PlanetState, t ComplexType, r1, r2 Resource) (Resource, error) {
	fail := func(reason string) (Resource, error) {
		return Resource{}, &CombineError{Reason: reason, Returned: [2]Resource{r1, r2}}
	}

	if !c.Supports(t) {
		return fail(fmt.Sprintf("no recipe for %s on this planet", t))
	}
	a, b, ok := RecipeFor(t)
	if !ok {
		return fail(fmt.Sprintf("unknown complex type %s", t))
	}
	if !recipeMatches(t, r1, r2) {
		return fail(fmt.Sprintf("%s requires %s + %s, got %s + %s",
			t, a, b, r1.TypeName(), r2.TypeName()))
	}
	if _, consumed := state.ConsumeCharged(); !consumed {
		return fail(ErrNoChargedCell.Error())
	}

	return Resource{
		ID:      state.newResourceID(),
		Kind:    KindComplex,
		Complex: t,
	}, nil
}

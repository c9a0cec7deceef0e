// Package game holds the pure domain rules of a planet: resources and
// recipes, energy cells, rockets, and planet state. Nothing in this package
// knows about Temporal; everything is serializable so it can travel through
// workflow payloads and survive ContinueAsNew.
package game

import (
	"errors"
	"fmt"
	"strings"
)

// BasicType is a raw resource a planet can generate on its own.
type BasicType string

const (
	Hydrogen BasicType = "hydrogen"
	Oxygen   BasicType = "oxygen"
	Carbon   BasicType = "carbon"
	Silicon  BasicType = "silicon"
)

// BasicTypes lists every basic resource type in canonical order.
var BasicTypes = []BasicType{Hydrogen, Oxygen, Carbon, Silicon}

// ComplexType is a compound resource formed by combining two inputs.
type ComplexType string

const (
	Water     ComplexType = "water"
	Diamond   ComplexType = "diamond"
	Life      ComplexType = "life"
	Robot     ComplexType = "robot"
	Dolphin   ComplexType = "dolphin"
	AIPartner ComplexType = "ai-partner"
)

// ComplexTypes lists every complex resource type in canonical order.
var ComplexTypes = []ComplexType{Water, Diamond, Life, Robot, Dolphin, AIPartner}

// ErrUnknownResourceType is returned when parsing an unrecognized type name.
var ErrUnknownResourceType = errors.New("unknown resource type")

// ParseBasicType parses a case-insensitive basic resource type name.
func ParseBasicType(name string) (BasicType, error) {
	t := BasicType(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range BasicTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResourceType, name)
}

// ParseComplexType parses a case-insensitive complex resource type name.
func ParseComplexType(name string) (ComplexType, error) {
	t := ComplexType(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range ComplexTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResourceType, name)
}

// Kind discriminates basic from complex resources.
type Kind string

const (
	KindBasic   Kind = "basic"
	KindComplex Kind = "complex"
)

// Resource is a concrete resource instance owned by somebody (a planet
// hands them to explorers; explorers hand them back for combination).
// Exactly one of Basic/Complex is set, matching Kind.
type Resource struct {
	ID      string      `json:"id"`
	Kind    Kind        `json:"kind"`
	Basic   BasicType   `json:"basic,omitempty"`
	Complex ComplexType `json:"complex,omitempty"`
}

// TypeName returns the resource's type name regardless of kind.
func (r Resource) TypeName() string {
	if r.Kind == KindComplex {
		return string(r.Complex)
	}
	return string(r.Basic)
}

func (r Resource) String() string {
	return fmt.Sprintf("%s(%s)", r.TypeName(), r.ID)
}

// recipe is a pair of ingredient type names. Matching is order-insensitive.
type recipe struct {
	a, b string
}

// recipes maps each complex type to the two ingredient type names it
// consumes. Ingredients may themselves be complex.
var recipes = map[ComplexType]recipe{
	Water:     {string(Hydrogen), string(Oxygen)},
	Diamond:   {string(Carbon), string(Carbon)},
	Robot:     {string(Silicon), string(Silicon)},
	Life:      {string(Water), string(Carbon)},
	Dolphin:   {string(Water), string(Life)},
	AIPartner: {string(Robot), string(Life)},
}

// RecipeFor returns the two ingredient type names for a complex type.
func RecipeFor(t ComplexType) (string, string, bool) {
	r, ok := recipes[t]
	return r.a, r.b, ok
}

// recipeMatches reports whether the two resources satisfy the recipe,
// in either order.
func recipeMatches(t ComplexType, r1, r2 Resource) bool {
	r, ok := recipes[t]
	if !ok {
		return false
	}
	n1, n2 := r1.TypeName(), r2.TypeName()
	return (n1 == r.a && n2 == r.b) || (n1 == r.b && n2 == r.a)
}

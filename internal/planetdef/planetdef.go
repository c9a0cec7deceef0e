// Package planetdef loads planet definitions written in Starlark. A
// definition file calls the planet(...) builtin exactly once:
//
//	planet(
//	    type = "B",
//	    generates = ["hydrogen", "oxygen"],
//	    combines = ["water"],
//	)
//
// The result is a validated game.Config.
package planetdef

import (
	"errors"
	"fmt"
	"os"

	"go.starlark.net/starlark"

	"github.com/galaxysim/orbitron/internal/game"
)

// ErrNoPlanet is returned when the file never calls planet(...).
var ErrNoPlanet = errors.New("definition must call planet(...) exactly once")

// Parse executes a Starlark planet definition and returns the config.
// filename is used for error positions only.
func Parse(filename string, src []byte) (game.Config, error) {
	var (
		cfg     game.Config
		defined bool
	)

	planetBuiltin := starlark.NewBuiltin("planet", func(
		thread *starlark.Thread,
		b *starlark.Builtin,
		args starlark.Tuple,
		kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		if defined {
			return nil, fmt.Errorf("planet(...) called more than once")
		}

		var (
			typeName     string
			generates    *starlark.List
			combines     *starlark.List
			cellCapacity int
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"type", &typeName,
			"generates", &generates,
			"combines?", &combines,
			"cell_capacity?", &cellCapacity,
		); err != nil {
			return nil, err
		}

		planetType, err := game.ParsePlanetType(typeName)
		if err != nil {
			return nil, err
		}

		genRules, err := stringList(generates, "generates")
		if err != nil {
			return nil, err
		}
		combRules, err := stringList(combines, "combines")
		if err != nil {
			return nil, err
		}

		cfg = game.Config{Type: planetType, CellCapacity: cellCapacity}
		for _, name := range genRules {
			t, err := game.ParseBasicType(name)
			if err != nil {
				return nil, fmt.Errorf("generates: %w", err)
			}
			cfg.Generates = append(cfg.Generates, t)
		}
		for _, name := range combRules {
			t, err := game.ParseComplexType(name)
			if err != nil {
				return nil, fmt.Errorf("combines: %w", err)
			}
			cfg.Combines = append(cfg.Combines, t)
		}

		defined = true
		return starlark.None, nil
	})

	thread := &starlark.Thread{Name: "planetdef"}
	predeclared := starlark.StringDict{"planet": planetBuiltin}

	if _, err := starlark.ExecFile(thread, filename, src, predeclared); err != nil {
		return game.Config{}, fmt.Errorf("execute planet definition: %w", err)
	}
	if !defined {
		return game.Config{}, ErrNoPlanet
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// ParseFile loads and parses a planet definition from disk.
func ParseFile(path string) (game.Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return game.Config{}, fmt.Errorf("read planet definition: %w", err)
	}
	return Parse(path, src)
}

// stringList converts a Starlark list of strings. A nil list is empty.
func stringList(list *starlark.List, field string) ([]string, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		s, ok := starlark.AsString(list.Index(i))
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected string, got %s", field, i, list.Index(i).Type())
		}
		out = append(out, s)
	}
	return out, nil
}

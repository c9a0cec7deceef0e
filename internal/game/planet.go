package game

import (
	"errors"
	"fmt"
)

// PlanetType determines how many energy cells a planet carries and how many
// generation/combination rules its configuration may declare.
type PlanetType string

const (
	TypeA PlanetType = "A"
	TypeB PlanetType = "B"
	TypeC PlanetType = "C"
	TypeD PlanetType = "D"
)

// size returns the cell count and per-kind rule limit for a planet type.
// Both scale together: bigger planets have more cells and more recipes.
func (t PlanetType) size() (int, bool) {
	switch t {
	case TypeA:
		return 1, true
	case TypeB:
		return 2, true
	case TypeC:
		return 3, true
	case TypeD:
		return 4, true
	}
	return 0, false
}

// CellCount returns the number of energy cells a planet of this type owns.
func (t PlanetType) CellCount() int {
	n, _ := t.size()
	return n
}

// MaxRules returns the maximum number of generation rules (and, equally,
// combination rules) a planet of this type may declare.
func (t PlanetType) MaxRules() int {
	n, _ := t.size()
	return n
}

// ParsePlanetType parses a planet type letter ("A".."D").
func ParsePlanetType(name string) (PlanetType, error) {
	t := PlanetType(name)
	if _, ok := t.size(); !ok {
		return "", fmt.Errorf("unknown planet type %q", name)
	}
	return t, nil
}

// Sunray is a unit of solar energy beamed at the planet by the orchestrator.
type Sunray struct{}

// DefaultCellCapacity is the charge a cell needs before it can be consumed.
const DefaultCellCapacity = 1

// EnergyCell stores sunray charge. A cell is usable once Charge reaches
// Capacity; consuming it resets Charge to zero.
type EnergyCell struct {
	Charge   int `json:"charge"`
	Capacity int `json:"capacity"`
}

// IsCharged reports whether the cell holds a full charge.
func (c EnergyCell) IsCharged() bool {
	return c.Charge >= c.Capacity
}

// Rocket is the planet's asteroid defense. A planet holds at most one;
// launching it consumes it.
type Rocket struct {
	Serial int `json:"serial"`
}

// Config is a planet's static configuration: its type and the resource
// rules it is allowed to apply.
type Config struct {
	Type         PlanetType    `json:"type"`
	Generates    []BasicType   `json:"generates"`
	Combines     []ComplexType `json:"combines"`
	CellCapacity int           `json:"cell_capacity,omitempty"`
}

// DefaultConfig is the classic Orbitron setup: a Type B planet generating
// hydrogen and oxygen and combining water.
func DefaultConfig() Config {
	return Config{
		Type:      TypeB,
		Generates: []BasicType{Hydrogen, Oxygen},
		Combines:  []ComplexType{Water},
	}
}

// Validate checks the configuration against planet-type constraints.
func (c Config) Validate() error {
	if _, ok := c.Type.size(); !ok {
		return fmt.Errorf("unknown planet type %q", c.Type)
	}
	max := c.Type.MaxRules()
	if len(c.Generates) == 0 {
		return errors.New("planet must declare at least one generation rule")
	}
	if len(c.Generates) > max {
		return fmt.Errorf("planet type %s allows at most %d generation rules, got %d",
			c.Type, max, len(c.Generates))
	}
	if len(c.Combines) > max {
		return fmt.Errorf("planet type %s allows at most %d combination rules, got %d",
			c.Type, max, len(c.Combines))
	}
	seen := make(map[BasicType]bool, len(c.Generates))
	for _, g := range c.Generates {
		if _, err := ParseBasicType(string(g)); err != nil {
			return err
		}
		if seen[g] {
			return fmt.Errorf("duplicate generation rule %q", g)
		}
		seen[g] = true
	}
	seenC := make(map[ComplexType]bool, len(c.Combines))
	for _, cb := range c.Combines {
		if _, err := ParseComplexType(string(cb)); err != nil {
			return err
		}
		if seenC[cb] {
			return fmt.Errorf("duplicate combination rule %q", cb)
		}
		seenC[cb] = true
	}
	// Zero means DefaultCellCapacity, see cellCapacity.
	if c.CellCapacity < 0 {
		return fmt.Errorf("cell capacity must not be negative, got %d", c.CellCapacity)
	}
	return nil
}

// cellCapacity returns the configured capacity, defaulting when unset.
func (c Config) cellCapacity() int {
	if c.CellCapacity > 0 {
		return c.CellCapacity
	}
	return DefaultCellCapacity
}

// errors shared by state operations.
var (
	ErrNoChargedCell = errors.New("no charged energy cell")
	ErrRocketExists  = errors.New("rocket already built")
)

// PlanetState is the mutable physical state of a planet. All fields are
// exported for serialization; mutate only through methods.
type PlanetState struct {
	PlanetID    string       `json:"planet_id"`
	Type        PlanetType   `json:"type"`
	Cells       []EnergyCell `json:"cells"`
	Rocket      *Rocket      `json:"rocket,omitempty"`
	ResourceSeq int          `json:"resource_seq"`
	RocketSeq   int          `json:"rocket_seq"`
}

// NewPlanetState builds planet state from a validated configuration.
func NewPlanetState(planetID string, cfg Config) (*PlanetState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid planet configuration: %w", err)
	}
	cells := make([]EnergyCell, cfg.Type.CellCount())
	for i := range cells {
		cells[i] = EnergyCell{Capacity: cfg.cellCapacity()}
	}
	return &PlanetState{
		PlanetID: planetID,
		Type:     cfg.Type,
		Cells:    cells,
	}, nil
}

// ChargeCell feeds a sunray to the first non-full cell. It returns the index
// of the charged cell, or ok=false when every cell is already full and the
// ray must be acked back to the orchestrator.
func (s *PlanetState) ChargeCell(_ Sunray) (int, bool) {
	for i := range s.Cells {
		if !s.Cells[i].IsCharged() {
			s.Cells[i].Charge++
			return i, true
		}
	}
	return 0, false
}

// ChargedCells counts cells holding a full charge.
func (s *PlanetState) ChargedCells() int {
	n := 0
	for _, c := range s.Cells {
		if c.IsCharged() {
			n++
		}
	}
	return n
}

// ConsumeCharged drains one fully charged cell, returning its index.
// ok=false means no cell was charged and nothing changed.
func (s *PlanetState) ConsumeCharged() (int, bool) {
	for i := range s.Cells {
		if s.Cells[i].IsCharged() {
			s.Cells[i].Charge = 0
			return i, true
		}
	}
	return 0, false
}

// HasRocket reports whether a rocket is ready for launch.
func (s *PlanetState) HasRocket() bool {
	return s.Rocket != nil
}

// BuildRocket constructs a rocket, consuming one charged cell.
func (s *PlanetState) BuildRocket() (*Rocket, error) {
	if s.Rocket != nil {
		return nil, ErrRocketExists
	}
	if _, ok := s.ConsumeCharged(); !ok {
		return nil, ErrNoChargedCell
	}
	s.RocketSeq++
	s.Rocket = &Rocket{Serial: s.RocketSeq}
	return s.Rocket, nil
}

// TakeRocket removes and returns the rocket, or nil when none is built.
func (s *PlanetState) TakeRocket() *Rocket {
	r := s.Rocket
	s.Rocket = nil
	return r
}

// newResourceID allocates a planet-scoped resource ID. A counter keeps the
// IDs deterministic inside a workflow.
func (s *PlanetState) newResourceID() string {
	s.ResourceSeq++
	return fmt.Sprintf("%s-r%d", s.PlanetID, s.ResourceSeq)
}

// Snapshot is a read-only dump of planet state for state reports.
type Snapshot struct {
	PlanetID     string       `json:"planet_id"`
	Type         PlanetType   `json:"type"`
	Cells        []EnergyCell `json:"cells"`
	ChargedCells int          `json:"charged_cells"`
	HasRocket    bool         `json:"has_rocket"`
}

// Snapshot returns a copy of the observable state.
func (s *PlanetState) Snapshot() Snapshot {
	cells := make([]EnergyCell, len(s.Cells))
	copy(cells, s.Cells)
	return Snapshot{
		PlanetID:     s.PlanetID,
		Type:         s.Type,
		Cells:        cells,
		ChargedCells: s.ChargedCells(),
		HasRocket:    s.Rocket != nil,
	}
}

// Package gamelog defines the structured game event model: who did what to
// whom, on which channel, with a small key/value payload. Events are the
// observable trace of a planet: the console renders them live and the
// journal persists them. This is deliberately separate from process logging.
package gamelog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ActorType identifies a party in the simulation.
type ActorType string

const (
	ActorOrchestrator ActorType = "orchestrator"
	ActorPlanet       ActorType = "planet"
	ActorExplorer     ActorType = "explorer"
)

// Participant is a typed actor with its identifier.
type Participant struct {
	Actor ActorType `json:"actor"`
	ID    string    `json:"id"`
}

func (p Participant) String() string {
	return string(p.Actor) + ":" + p.ID
}

// EventType classifies the direction or nature of an event.
type EventType string

const (
	EventOrchestratorToPlanet EventType = "orchestrator->planet"
	EventPlanetToOrchestrator EventType = "planet->orchestrator"
	EventExplorerToPlanet     EventType = "explorer->planet"
	EventPlanetToExplorer     EventType = "planet->explorer"
	EventInternalAction       EventType = "internal"
)

// Channel is the severity/verbosity of an event.
type Channel string

const (
	ChannelDebug Channel = "debug"
	ChannelInfo  Channel = "info"
	ChannelWarn  Channel = "warn"
	ChannelError Channel = "error"
)

// Payload is a small bag of event details.
type Payload map[string]string

// Event is one entry in a planet's game log. Seq is assigned by the
// Recorder and is strictly increasing for the lifetime of a planet,
// including across workflow ContinueAsNew.
type Event struct {
	Seq     int64        `json:"seq"`
	Time    time.Time    `json:"time"`
	From    *Participant `json:"from,omitempty"`
	To      *Participant `json:"to,omitempty"`
	Type    EventType    `json:"type"`
	Channel Channel      `json:"channel"`
	Payload Payload      `json:"payload,omitempty"`
}

// String renders a stable one-line form. Payload keys are sorted so the
// output is deterministic.
func (e Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d [%s] %s", e.Seq, e.Channel, e.Type)
	if e.From != nil {
		fmt.Fprintf(&b, " from=%s", e.From)
	}
	if e.To != nil {
		fmt.Fprintf(&b, " to=%s", e.To)
	}
	keys := make([]string, 0, len(e.Payload))
	for k := range e.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, e.Payload[k])
	}
	return b.String()
}

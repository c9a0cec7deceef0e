// orbitron.go implements the Orbitron planet AI: charge every sunray it
// can, serve explorer recipe and generation requests from the configured
// rules, and answer asteroids by building a rocket at the last moment if
// none is ready.
package ai

import (
	"fmt"

	"github.com/galaxysim/orbitron/internal/game"
	"github.com/galaxysim/orbitron/internal/gamelog"
)

// Orbitron is the concrete planet AI. It starts stopped and begins serving
// explorer traffic only after OnStart.
type Orbitron struct {
	planetID string
	log      *gamelog.Recorder
	running  bool
}

// NewOrbitron creates the AI in the stopped state. Events describing its
// decisions are emitted on the given recorder.
func NewOrbitron(planetID string, log *gamelog.Recorder) *Orbitron {
	o := &Orbitron{planetID: planetID, log: log}
	o.emitInternal(gamelog.ChannelInfo, gamelog.Payload{"message": "orbitron AI created"})
	return o
}

// RestoreOrbitron rebuilds the AI with a prior running flag, emitting no
// creation event. Used when a workflow continues as new.
func RestoreOrbitron(planetID string, log *gamelog.Recorder, running bool) *Orbitron {
	return &Orbitron{planetID: planetID, log: log, running: running}
}

// Running reports whether the AI is accepting explorer traffic.
func (o *Orbitron) Running() bool {
	return o.running
}

func (o *Orbitron) planet() *gamelog.Participant {
	return &gamelog.Participant{Actor: gamelog.ActorPlanet, ID: o.planetID}
}

func (o *Orbitron) emitInternal(ch gamelog.Channel, payload gamelog.Payload) {
	o.log.Emit(gamelog.Event{
		From:    o.planet(),
		Type:    gamelog.EventInternalAction,
		Channel: ch,
		Payload: payload,
	})
}

// HandleSunray charges the first non-full cell. A full bank is reported on
// the info channel so the orchestrator's ack is visible in the log.
func (o *Orbitron) HandleSunray(state *game.PlanetState, ray game.Sunray) SunrayOutcome {
	idx, charged := state.ChargeCell(ray)
	if charged {
		o.emitInternal(gamelog.ChannelDebug, gamelog.Payload{
			"message": "sunray absorbed",
			"cell":    fmt.Sprintf("%d", idx),
		})
		return SunrayOutcome{Absorbed: true, CellIndex: idx}
	}
	o.emitInternal(gamelog.ChannelInfo, gamelog.Payload{
		"message": "sunray acked, all cells full",
	})
	return SunrayOutcome{Absorbed: false}
}

// HandleStateRequest snapshots planet state for the orchestrator.
func (o *Orbitron) HandleStateRequest(state *game.PlanetState) game.Snapshot {
	snap := state.Snapshot()
	o.log.Emit(gamelog.Event{
		From:    o.planet(),
		To:      &gamelog.Participant{Actor: gamelog.ActorOrchestrator, ID: "0"},
		Type:    gamelog.EventPlanetToOrchestrator,
		Channel: gamelog.ChannelDebug,
		Payload: gamelog.Payload{
			"message":       "state report",
			"charged_cells": fmt.Sprintf("%d", snap.ChargedCells),
			"has_rocket":    fmt.Sprintf("%t", snap.HasRocket),
		},
	})
	return snap
}

// HandleExplorerRequest serves one explorer message against the planet's
// generator and combinator. Failures are answered, never swallowed: a
// combine error hands the inputs back to the explorer.
func (o *Orbitron) HandleExplorerRequest(
	state *game.PlanetState,
	gen *game.Generator,
	comb *game.Combinator,
	req ExplorerRequest,
) ExplorerResponse {
	explorer := &gamelog.Participant{Actor: gamelog.ActorExplorer, ID: req.ExplorerID}
	o.log.Emit(gamelog.Event{
		From:    explorer,
		To:      o.planet(),
		Type:    gamelog.EventExplorerToPlanet,
		Channel: gamelog.ChannelDebug,
		Payload: gamelog.Payload{"request": string(req.Type)},
	})

	resp := ExplorerResponse{Type: req.Type}
	payload := gamelog.Payload{"request": string(req.Type)}

	switch req.Type {
	case ReqSupportedResources:
		resp.SupportedResources = gen.Recipes()
		payload["supported"] = fmt.Sprintf("%v", resp.SupportedResources)

	case ReqSupportedCombinations:
		resp.SupportedCombinations = comb.Recipes()
		payload["supported"] = fmt.Sprintf("%v", resp.SupportedCombinations)

	case ReqGenerateResource:
		res, err := gen.Generate(state, req.Resource)
		if err != nil {
			resp.Reason = err.Error()
			payload["generated"] = "none"
			payload["reason"] = resp.Reason
		} else {
			resp.Resource = &res
			payload["generated"] = res.String()
		}

	case ReqCombineResource:
		resp = o.combine(state, comb, req)
		if resp.OK() {
			payload["combined"] = resp.Resource.String()
		} else {
			payload["combined"] = "none"
			payload["reason"] = resp.Reason
		}

	case ReqAvailableCells:
		resp.AvailableCells = state.ChargedCells()
		payload["available_cells"] = fmt.Sprintf("%d", resp.AvailableCells)

	default:
		resp.Reason = fmt.Sprintf("unknown explorer request %q", req.Type)
		payload["reason"] = resp.Reason
	}

	ch := gamelog.ChannelDebug
	if !resp.OK() {
		ch = gamelog.ChannelWarn
	}
	o.log.Emit(gamelog.Event{
		From:    o.planet(),
		To:      explorer,
		Type:    gamelog.EventPlanetToExplorer,
		Channel: ch,
		Payload: payload,
	})
	return resp
}

func (o *Orbitron) combine(state *game.PlanetState, comb *game.Combinator, req ExplorerRequest) ExplorerResponse {
	resp := ExplorerResponse{Type: req.Type}
	if len(req.Inputs) != 2 {
		resp.Reason = fmt.Sprintf("combination needs exactly 2 inputs, got %d", len(req.Inputs))
		resp.Returned = req.Inputs
		return resp
	}
	res, err := comb.Combine(state, req.Product, req.Inputs[0], req.Inputs[1])
	if err != nil {
		resp.Reason = err.Error()
		if cerr, ok := err.(*game.CombineError); ok {
			resp.Returned = cerr.Returned[:]
		} else {
			resp.Returned = req.Inputs
		}
		return resp
	}
	resp.Resource = &res
	return resp
}

// HandleAsteroid launches a rocket to survive the strike. When the AI is
// running and no rocket is ready it attempts a last-moment build from a
// charged cell. A stopped AI can only launch a rocket built earlier.
func (o *Orbitron) HandleAsteroid(state *game.PlanetState) AsteroidOutcome {
	payload := gamelog.Payload{"message": "asteroid inbound"}

	if !state.HasRocket() && o.running {
		if _, err := state.BuildRocket(); err != nil {
			payload["build"] = err.Error()
		} else {
			payload["build"] = "rocket built"
		}
	}

	rocket := state.TakeRocket()
	if rocket == nil {
		payload["result"] = "no rocket, planet destroyed"
		o.emitInternal(gamelog.ChannelError, payload)
		return AsteroidOutcome{Survived: false}
	}

	payload["result"] = fmt.Sprintf("rocket %d launched", rocket.Serial)
	o.emitInternal(gamelog.ChannelInfo, payload)
	return AsteroidOutcome{Survived: true, Rocket: rocket}
}

// OnExplorerArrival records an explorer landing.
func (o *Orbitron) OnExplorerArrival(_ *game.PlanetState, explorerID string) {
	o.emitInternal(gamelog.ChannelDebug, gamelog.Payload{
		"message":  "explorer arrived",
		"explorer": explorerID,
	})
}

// OnExplorerDeparture records an explorer leaving.
func (o *Orbitron) OnExplorerDeparture(_ *game.PlanetState, explorerID string) {
	o.emitInternal(gamelog.ChannelDebug, gamelog.Payload{
		"message":  "explorer departed",
		"explorer": explorerID,
	})
}

// OnStart enables decision making. Redundant starts are ignored.
func (o *Orbitron) OnStart(_ *game.PlanetState) {
	if o.running {
		return
	}
	o.running = true
	o.emitInternal(gamelog.ChannelInfo, gamelog.Payload{"message": "planet AI started"})
}

// OnStop disables decision making. Redundant stops are ignored.
func (o *Orbitron) OnStop(_ *game.PlanetState) {
	if !o.running {
		return
	}
	o.running = false
	o.emitInternal(gamelog.ChannelInfo, gamelog.Payload{"message": "planet AI stopped"})
}

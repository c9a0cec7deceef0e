// handlers.go registers the update and query handlers that make up the
// planet's message surface.

package workflow

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"github.com/galaxysim/orbitron/internal/ai"
	"github.com/galaxysim/orbitron/internal/game"
	"github.com/galaxysim/orbitron/internal/gamelog"
)

// registerHandlers wires every update and query. Handlers are registered
// before init so early messages park on s.Ready instead of failing.
func (s *PlanetSession) registerHandlers(ctx workflow.Context) error {
	if err := s.registerQueries(ctx); err != nil {
		return err
	}

	updates := []struct {
		name      string
		handler   interface{}
		validator interface{}
	}{
		{UpdateSunray, s.handleSunray, func(SunrayRequest) error { return s.ensureAlive() }},
		{UpdateAsteroid, s.handleAsteroid, func(AsteroidRequest) error { return s.ensureAlive() }},
		{UpdateStartAI, s.handleStartAI, s.validateStartAI},
		{UpdateStopAI, s.handleStopAI, s.validateStopAI},
		{UpdateStateReport, s.handleStateReport, func(StateReportRequest) error { return s.ensureAlive() }},
		{UpdateExplorerArrive, s.handleExplorerArrive, func(r ExplorerMoveRequest) error { return s.validateExplorerMove(r) }},
		{UpdateExplorerDepart, s.handleExplorerDepart, func(r ExplorerMoveRequest) error { return s.validateExplorerMove(r) }},
		{UpdateExplorerRequest, s.handleExplorerRequest, s.validateExplorerRequest},
		{UpdateShutdown, s.handleShutdown, nil},
	}
	for _, u := range updates {
		opts := workflow.UpdateHandlerOptions{}
		if u.validator != nil {
			opts.Validator = u.validator
		}
		if err := workflow.SetUpdateHandlerWithOptions(ctx, u.name, u.handler, opts); err != nil {
			return fmt.Errorf("register update %s: %w", u.name, err)
		}
	}
	return nil
}

func (s *PlanetSession) registerQueries(ctx workflow.Context) error {
	queries := []struct {
		name    string
		handler interface{}
	}{
		{QueryPlanetState, func() (StateReport, error) { return s.stateReport(), nil }},
		{QueryEventLog, func() ([]gamelog.Event, error) {
			if s.Log == nil {
				return nil, nil
			}
			return s.Log.Events(), nil
		}},
		{QueryStatus, func() (Status, error) {
			status := Status{Phase: s.Phase, Stats: s.Stats}
			if s.Log != nil {
				status.LastSeq = s.Log.LastSeq()
				status.EventCount = s.Log.Len()
			}
			return status, nil
		}},
		{QuerySupportedResources, func() ([]game.BasicType, error) {
			if s.Generator == nil {
				return nil, nil
			}
			return s.Generator.Recipes(), nil
		}},
		{QuerySupportedCombinations, func() ([]game.ComplexType, error) {
			if s.Combinator == nil {
				return nil, nil
			}
			return s.Combinator.Recipes(), nil
		}},
	}
	for _, q := range queries {
		if err := workflow.SetQueryHandler(ctx, q.name, q.handler); err != nil {
			return fmt.Errorf("register query %s: %w", q.name, err)
		}
	}
	return nil
}

// stateReport builds the read-only planet state view. Queries may run
// before init; they see an empty snapshot rather than blocking.
func (s *PlanetSession) stateReport() StateReport {
	report := StateReport{
		Phase:     s.Phase,
		Destroyed: s.Destroyed,
	}
	if s.State != nil {
		report.Snapshot = s.State.Snapshot()
	}
	report.Running = s.Running
	return report
}

func (s *PlanetSession) handleSunray(ctx workflow.Context, _ SunrayRequest) (ai.SunrayOutcome, error) {
	if err := s.awaitReady(ctx); err != nil {
		return ai.SunrayOutcome{}, err
	}
	out := s.AI.HandleSunray(s.State, game.Sunray{})
	if out.Absorbed {
		s.Stats.SunraysAbsorbed++
	} else {
		s.Stats.SunraysAcked++
	}
	return out, nil
}

func (s *PlanetSession) handleAsteroid(ctx workflow.Context, _ AsteroidRequest) (ai.AsteroidOutcome, error) {
	if err := s.awaitReady(ctx); err != nil {
		return ai.AsteroidOutcome{}, err
	}
	out := s.AI.HandleAsteroid(s.State)
	if out.Survived {
		s.Stats.AsteroidsSurvived++
	} else {
		s.Destroyed = true
		s.Phase = PhaseDestroyed
	}
	return out, nil
}

// Lifecycle validators check s.Running rather than the AI itself. The AI
// is nil while init awaits the definition activity, and a new planet is
// stopped, so messages admitted during that window must be gated the same
// way as on a stopped planet.
func (s *PlanetSession) validateStartAI(_ LifecycleRequest) error {
	if err := s.ensureAlive(); err != nil {
		return err
	}
	if s.Running {
		return fmt.Errorf("planet AI already running")
	}
	return nil
}

func (s *PlanetSession) handleStartAI(ctx workflow.Context, _ LifecycleRequest) (LifecycleAck, error) {
	if err := s.awaitReady(ctx); err != nil {
		return LifecycleAck{}, err
	}
	s.AI.OnStart(s.State)
	s.Running = true
	s.Phase = PhaseRunning
	return LifecycleAck{Running: true}, nil
}

func (s *PlanetSession) validateStopAI(_ LifecycleRequest) error {
	if err := s.ensureAlive(); err != nil {
		return err
	}
	if !s.Running {
		return fmt.Errorf("planet AI already stopped")
	}
	return nil
}

func (s *PlanetSession) handleStopAI(ctx workflow.Context, _ LifecycleRequest) (LifecycleAck, error) {
	if err := s.awaitReady(ctx); err != nil {
		return LifecycleAck{}, err
	}
	s.AI.OnStop(s.State)
	s.Running = false
	s.Phase = PhaseStopped
	return LifecycleAck{Running: false}, nil
}

func (s *PlanetSession) handleStateReport(ctx workflow.Context, _ StateReportRequest) (StateReport, error) {
	if err := s.awaitReady(ctx); err != nil {
		return StateReport{}, err
	}
	// Goes through the AI so the report lands in the game log, unlike the
	// read-only planet-state query.
	snap := s.AI.HandleStateRequest(s.State)
	return StateReport{
		Snapshot:  snap,
		Phase:     s.Phase,
		Running:   s.AI.Running(),
		Destroyed: s.Destroyed,
	}, nil
}

func (s *PlanetSession) validateExplorerMove(req ExplorerMoveRequest) error {
	if err := s.ensureAlive(); err != nil {
		return err
	}
	if req.ExplorerID == "" {
		return fmt.Errorf("explorer id is required")
	}
	return nil
}

func (s *PlanetSession) handleExplorerArrive(ctx workflow.Context, req ExplorerMoveRequest) (Ack, error) {
	if err := s.awaitReady(ctx); err != nil {
		return Ack{}, err
	}
	s.AI.OnExplorerArrival(s.State, req.ExplorerID)
	s.Stats.ExplorerVisits++
	return Ack{}, nil
}

func (s *PlanetSession) handleExplorerDepart(ctx workflow.Context, req ExplorerMoveRequest) (Ack, error) {
	if err := s.awaitReady(ctx); err != nil {
		return Ack{}, err
	}
	s.AI.OnExplorerDeparture(s.State, req.ExplorerID)
	return Ack{}, nil
}

// validateExplorerRequest gates explorer traffic: the planet must be alive
// and its AI running, and the request must be well formed.
func (s *PlanetSession) validateExplorerRequest(req ai.ExplorerRequest) error {
	if err := s.ensureAlive(); err != nil {
		return err
	}
	if !s.Running {
		return fmt.Errorf("planet AI is stopped")
	}
	if req.ExplorerID == "" {
		return fmt.Errorf("explorer id is required")
	}
	switch req.Type {
	case ai.ReqSupportedResources, ai.ReqSupportedCombinations, ai.ReqAvailableCells:
		return nil
	case ai.ReqGenerateResource:
		if _, err := game.ParseBasicType(string(req.Resource)); err != nil {
			return err
		}
		return nil
	case ai.ReqCombineResource:
		if _, err := game.ParseComplexType(string(req.Product)); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown explorer request %q", req.Type)
	}
}

func (s *PlanetSession) handleExplorerRequest(ctx workflow.Context, req ai.ExplorerRequest) (ai.ExplorerResponse, error) {
	if err := s.awaitReady(ctx); err != nil {
		return ai.ExplorerResponse{}, err
	}
	resp := s.AI.HandleExplorerRequest(s.State, s.Generator, s.Combinator, req)
	switch {
	case !resp.OK():
		s.Stats.FailedRequests++
	case req.Type == ai.ReqGenerateResource:
		s.Stats.ResourcesGenerated++
	case req.Type == ai.ReqCombineResource:
		s.Stats.ResourcesCombined++
	}
	return resp, nil
}

func (s *PlanetSession) handleShutdown(ctx workflow.Context, _ ShutdownRequest) (Ack, error) {
	if err := s.awaitReady(ctx); err != nil {
		return Ack{}, err
	}
	s.ShutdownRequested = true
	s.Phase = PhaseShuttingDown
	return Ack{}, nil
}

// Package workflow contains the Temporal workflow that runs a planet.
//
// workflow.go defines the workflow entry point, the session state carried
// across ContinueAsNew, and the main loop that journals game events.
package workflow

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/galaxysim/orbitron/internal/activities"
	"github.com/galaxysim/orbitron/internal/ai"
	"github.com/galaxysim/orbitron/internal/game"
	"github.com/galaxysim/orbitron/internal/gamelog"
)

// WorkflowName is the registered name of the planet workflow.
const WorkflowName = "PlanetWorkflow"

// TaskQueue is the default task queue planets run on.
const TaskQueue = "orbitron-planet"

// Update names. Orchestrator and explorer messages all arrive as updates so
// callers get a synchronous response.
const (
	UpdateSunray          = "sunray"
	UpdateAsteroid        = "asteroid"
	UpdateStartAI         = "start-ai"
	UpdateStopAI          = "stop-ai"
	UpdateStateReport     = "state-report"
	UpdateExplorerArrive  = "explorer-arrive"
	UpdateExplorerDepart  = "explorer-depart"
	UpdateExplorerRequest = "explorer-request"
	UpdateShutdown        = "shutdown"
)

// Query names.
const (
	QueryPlanetState           = "planet-state"
	QueryEventLog              = "event-log"
	QueryStatus                = "status"
	QuerySupportedResources    = "supported-resources"
	QuerySupportedCombinations = "supported-combinations"
)

// maxRetainedEvents caps the in-workflow event log; reaching it triggers
// ContinueAsNew. retainAfterCAN is the window carried into the next run so
// pollers do not lose recent history.
const (
	maxRetainedEvents = 256
	retainAfterCAN    = 64
)

// Phase describes where the planet is in its lifecycle.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseStopped      Phase = "stopped"
	PhaseRunning      Phase = "running"
	PhaseDestroyed    Phase = "destroyed"
	PhaseShuttingDown Phase = "shutting-down"
)

// PlanetInput starts (or continues) a planet workflow. Config wins over
// DefinitionPath; with neither, the planet boots with game.DefaultConfig.
type PlanetInput struct {
	PlanetID       string        `json:"planet_id"`
	DefinitionPath string        `json:"definition_path,omitempty"`
	Config         *game.Config  `json:"config,omitempty"`
	Carried        *CarriedState `json:"carried,omitempty"`
}

// CarriedState is everything a planet carries across ContinueAsNew.
type CarriedState struct {
	Config     game.Config       `json:"config"`
	State      *game.PlanetState `json:"state"`
	Running    bool              `json:"running"`
	Events     []gamelog.Event   `json:"events"`
	NextSeq    int64             `json:"next_seq"`
	FlushedSeq int64             `json:"flushed_seq"`
	Stats      PlanetStats       `json:"stats"`
}

// PlanetStats counts what happened over the planet's lifetime.
type PlanetStats struct {
	SunraysAbsorbed    int `json:"sunrays_absorbed"`
	SunraysAcked       int `json:"sunrays_acked"`
	ResourcesGenerated int `json:"resources_generated"`
	ResourcesCombined  int `json:"resources_combined"`
	FailedRequests     int `json:"failed_requests"`
	AsteroidsSurvived  int `json:"asteroids_survived"`
	ExplorerVisits     int `json:"explorer_visits"`
}

// PlanetResult is the workflow return value: how the planet ended.
type PlanetResult struct {
	PlanetID  string      `json:"planet_id"`
	Destroyed bool        `json:"destroyed"`
	Stats     PlanetStats `json:"stats"`
}

// StateReport answers planet-state queries and state-report updates.
type StateReport struct {
	Snapshot  game.Snapshot `json:"snapshot"`
	Phase     Phase         `json:"phase"`
	Running   bool          `json:"running"`
	Destroyed bool          `json:"destroyed"`
}

// Status answers status queries.
type Status struct {
	Phase      Phase       `json:"phase"`
	Stats      PlanetStats `json:"stats"`
	LastSeq    int64       `json:"last_seq"`
	EventCount int         `json:"event_count"`
}

// LifecycleAck answers start-ai/stop-ai updates.
type LifecycleAck struct {
	Running bool `json:"running"`
}

// Ack is an empty acknowledgement.
type Ack struct{}

// Empty update requests, kept as structs so payloads can grow.
type (
	SunrayRequest      struct{}
	AsteroidRequest    struct{}
	LifecycleRequest   struct{}
	StateReportRequest struct{}
	ShutdownRequest    struct{}
)

// ExplorerMoveRequest notifies the planet of explorer movement.
type ExplorerMoveRequest struct {
	ExplorerID string `json:"explorer_id"`
}

// PlanetSession is the live state of one planet workflow run.
type PlanetSession struct {
	Input  PlanetInput
	Config game.Config
	State  *game.PlanetState

	AI         ai.PlanetAI
	Generator  *game.Generator
	Combinator *game.Combinator
	Log        *gamelog.Recorder

	Phase             Phase
	Stats             PlanetStats
	Ready             bool
	Running           bool // mirrors the AI lifecycle; false until start-ai, so validators reject explorer traffic even before init finishes
	Destroyed         bool
	ShutdownRequested bool
}

// PlanetWorkflow runs one planet until it is destroyed by an asteroid or
// shut down by the orchestrator. Messages arrive as updates; observable
// state is exposed through queries; game events are journaled by activity.
func PlanetWorkflow(ctx workflow.Context, input PlanetInput) (PlanetResult, error) {
	logger := workflow.GetLogger(ctx)

	s := &PlanetSession{Input: input, Phase: PhaseInitializing}
	if err := s.registerHandlers(ctx); err != nil {
		return PlanetResult{}, err
	}
	if err := s.init(ctx); err != nil {
		return PlanetResult{}, err
	}

	logger.Info("Planet online",
		"planet_id", s.State.PlanetID,
		"type", string(s.Config.Type),
		"cells", len(s.State.Cells),
		"phase", string(s.Phase))

	for {
		err := workflow.Await(ctx, func() bool {
			return len(s.Log.Unflushed()) > 0 || s.ShutdownRequested || s.Destroyed
		})
		if err != nil {
			return PlanetResult{}, err
		}

		s.flushJournal(ctx)

		if s.ShutdownRequested || s.Destroyed {
			break
		}
		if s.Log.Len() >= maxRetainedEvents || workflow.GetInfo(ctx).GetContinueAsNewSuggested() {
			return PlanetResult{}, s.continueAsNew(ctx)
		}
	}

	// Let in-flight updates finish before the workflow returns.
	if err := workflow.Await(ctx, func() bool { return workflow.AllHandlersFinished(ctx) }); err != nil {
		return PlanetResult{}, err
	}
	s.flushJournal(ctx)

	logger.Info("Planet offline",
		"planet_id", s.State.PlanetID,
		"destroyed", s.Destroyed,
		"asteroids_survived", s.Stats.AsteroidsSurvived)

	return PlanetResult{
		PlanetID:  s.State.PlanetID,
		Destroyed: s.Destroyed,
		Stats:     s.Stats,
	}, nil
}

// init resolves configuration and builds (or restores) planet state.
// Update handlers are already registered; they block on s.Ready.
func (s *PlanetSession) init(ctx workflow.Context) error {
	nowFn := func() time.Time { return workflow.Now(ctx) }

	if c := s.Input.Carried; c != nil {
		s.Config = c.Config
		s.State = c.State
		s.Log = gamelog.Restore(nowFn, c.Events, c.NextSeq, c.FlushedSeq)
		s.Stats = c.Stats
		s.AI = ai.RestoreOrbitron(s.State.PlanetID, s.Log, c.Running)
	} else {
		cfg := s.resolveConfig(ctx)
		state, err := game.NewPlanetState(s.Input.PlanetID, cfg)
		if err != nil {
			return err
		}
		s.Config = cfg
		s.State = state
		s.Log = gamelog.NewRecorder(nowFn)
		s.AI = ai.NewOrbitron(s.State.PlanetID, s.Log)
	}

	s.Generator = game.NewGenerator(s.Config.Generates)
	s.Combinator = game.NewCombinator(s.Config.Combines)
	s.Running = s.AI.Running()
	if s.Running {
		s.Phase = PhaseRunning
	} else {
		s.Phase = PhaseStopped
	}
	s.Ready = true
	return nil
}

// resolveConfig picks the planet configuration: inline config wins, then a
// worker-side definition file, then the default Orbitron setup. Definition
// load failures are non-fatal.
func (s *PlanetSession) resolveConfig(ctx workflow.Context) game.Config {
	logger := workflow.GetLogger(ctx)

	if s.Input.Config != nil {
		return *s.Input.Config
	}
	if s.Input.DefinitionPath == "" {
		return game.DefaultConfig()
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	}
	loadCtx := workflow.WithActivityOptions(ctx, actOpts)

	var out activities.LoadPlanetDefinitionOutput
	err := workflow.ExecuteActivity(loadCtx, "LoadPlanetDefinition",
		activities.LoadPlanetDefinitionInput{Path: s.Input.DefinitionPath}).Get(ctx, &out)
	if err != nil {
		logger.Warn("Failed to load planet definition, using default config",
			"path", s.Input.DefinitionPath, "error", err)
		return game.DefaultConfig()
	}
	return out.Config
}

// flushJournal sends unjournaled events to the journal activity. The
// journal is best-effort: after retries are exhausted the batch is dropped
// rather than wedging the planet.
func (s *PlanetSession) flushJournal(ctx workflow.Context) {
	events := s.Log.Unflushed()
	if len(events) == 0 {
		return
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	actx := workflow.WithActivityOptions(ctx, actOpts)

	var out activities.RecordEventsOutput
	err := workflow.ExecuteActivity(actx, "RecordEvents", activities.RecordEventsInput{
		PlanetID: s.State.PlanetID,
		Events:   events,
	}).Get(ctx, &out)
	if err != nil {
		workflow.GetLogger(ctx).Warn("Journal flush failed, dropping batch",
			"batch", len(events), "error", err)
	}
	s.Log.MarkFlushed(events[len(events)-1].Seq)
}

// continueAsNew drains handlers, trims the event log, and restarts the
// workflow with carried state. Event sequence numbers keep increasing.
func (s *PlanetSession) continueAsNew(ctx workflow.Context) error {
	if err := workflow.Await(ctx, func() bool { return workflow.AllHandlersFinished(ctx) }); err != nil {
		return err
	}
	s.flushJournal(ctx)
	s.Log.TrimTo(retainAfterCAN)

	carried := &CarriedState{
		Config:     s.Config,
		State:      s.State,
		Running:    s.AI.Running(),
		Events:     s.Log.Events(),
		NextSeq:    s.Log.NextSeq(),
		FlushedSeq: s.Log.FlushedSeq(),
		Stats:      s.Stats,
	}
	next := PlanetInput{
		PlanetID:       s.Input.PlanetID,
		DefinitionPath: s.Input.DefinitionPath,
		Carried:        carried,
	}

	workflow.GetLogger(ctx).Info("Continuing planet as new",
		"planet_id", s.State.PlanetID, "last_seq", s.Log.LastSeq())
	return workflow.NewContinueAsNewError(ctx, WorkflowName, next)
}

// ensureAlive is the shared validator guard: destroyed or shutting-down
// planets reject new messages.
func (s *PlanetSession) ensureAlive() error {
	if s.Destroyed {
		return errors.New("planet is destroyed")
	}
	if s.ShutdownRequested {
		return errors.New("planet is shutting down")
	}
	return nil
}

// awaitReady blocks an update handler until init has finished.
func (s *PlanetSession) awaitReady(ctx workflow.Context) error {
	return workflow.Await(ctx, func() bool { return s.Ready })
}

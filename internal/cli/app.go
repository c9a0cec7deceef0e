// Package cli implements the interactive planet console. The console plays
// two roles against one planet workflow: the orchestrator (sunrays,
// asteroids, lifecycle) and a single explorer carrying an inventory of
// collected resources.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/galaxysim/orbitron/internal/ai"
	"github.com/galaxysim/orbitron/internal/game"
	"github.com/galaxysim/orbitron/internal/workflow"
)

// PollInterval is how often watchers re-query the event log.
const PollInterval = 200 * time.Millisecond

// Config holds console configuration.
type Config struct {
	ClientOptions  client.Options
	WorkflowID     string // attach to an existing planet
	PlanetID       string // name for a new planet
	DefinitionPath string // worker-side Starlark definition for a new planet
	NoColor        bool
}

// App is the interactive console application.
type App struct {
	config   Config
	client   client.Client
	renderer *Renderer
	spinner  *Spinner
	poller   *Poller
	rl       *readline.Instance

	workflowID  string
	explorerID  string
	onPlanet    bool
	inventory   map[string]game.Resource
	lastSeenSeq int64
}

// NewApp creates a console app.
func NewApp(config Config) *App {
	return &App{
		config:    config,
		inventory: make(map[string]game.Resource),
	}
}

// Run is the main entry point.
func (a *App) Run() error {
	c, err := client.Dial(a.config.ClientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to Temporal: %w", err)
	}
	defer c.Close()
	a.client = c

	a.renderer = NewRenderer(os.Stdout, a.config.NoColor)
	a.spinner = NewSpinner(os.Stderr)
	a.explorerID = fmt.Sprintf("explorer-%s", uuid.New().String()[:8])

	a.rl, err = readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to init readline: %w", err)
	}
	defer a.rl.Close()

	if a.config.WorkflowID != "" {
		if err := a.attachPlanet(); err != nil {
			return err
		}
	} else {
		if err := a.startPlanet(); err != nil {
			return err
		}
	}

	return a.repl()
}

func (a *App) startPlanet() error {
	planetID := a.config.PlanetID
	if planetID == "" {
		planetID = fmt.Sprintf("orbitron-%s", uuid.New().String()[:8])
	}
	a.workflowID = planetID

	input := workflow.PlanetInput{
		PlanetID:       planetID,
		DefinitionPath: a.config.DefinitionPath,
	}

	ctx := context.Background()
	_, err := a.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        a.workflowID,
		TaskQueue: workflow.TaskQueue,
	}, workflow.WorkflowName, input)
	if err != nil {
		return fmt.Errorf("failed to start planet: %w", err)
	}

	a.poller = NewPoller(a.client, a.workflowID, PollInterval)
	fmt.Fprintf(os.Stderr, "Planet: %s (type help for commands)\n", planetID)
	return nil
}

func (a *App) attachPlanet() error {
	a.workflowID = a.config.WorkflowID
	a.poller = NewPoller(a.client, a.workflowID, PollInterval)

	fmt.Fprintf(os.Stderr, "Attaching to planet: %s\n", a.workflowID)

	result := a.poller.Poll(context.Background())
	if result.Err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(result.Err, &notFound) {
			return fmt.Errorf("planet %q does not exist", a.workflowID)
		}
		return fmt.Errorf("failed to query planet: %w", result.Err)
	}

	// Show recent history for context.
	events := result.Events
	if len(events) > 20 {
		fmt.Fprintf(os.Stderr, "... showing last 20 of %d events ...\n", len(events))
		events = events[len(events)-20:]
	}
	a.renderer.RenderEvents(events)
	if n := len(result.Events); n > 0 {
		a.lastSeenSeq = result.Events[n-1].Seq
	}
	return nil
}

func (a *App) repl() error {
	for {
		line, err := a.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				fmt.Fprintln(os.Stderr, "(type exit to shut the planet down)")
				continue
			}
			if errors.Is(err, io.EOF) {
				return a.shutdown()
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			a.renderer.RenderError(err)
			continue
		}

		done, err := a.dispatch(cmd)
		if err != nil {
			a.renderer.RenderError(err)
		}
		a.drainEvents()
		if done {
			return nil
		}
	}
}

// dispatch runs one command. It returns true when the console should exit.
func (a *App) dispatch(cmd Command) (bool, error) {
	switch cmd.Kind {
	case CmdHelp:
		a.renderer.RenderHelp()
		return false, nil

	case CmdSunray:
		var out ai.SunrayOutcome
		if err := a.update(workflow.UpdateSunray, workflow.SunrayRequest{}, &out); err != nil {
			return false, err
		}
		if out.Absorbed {
			a.renderer.RenderNotice(fmt.Sprintf("sunray absorbed into cell %d", out.CellIndex))
		} else {
			a.renderer.RenderNotice("sunray acked, all cells full")
		}
		return false, nil

	case CmdAsteroid:
		var out ai.AsteroidOutcome
		if err := a.update(workflow.UpdateAsteroid, workflow.AsteroidRequest{}, &out); err != nil {
			return false, err
		}
		if out.Survived {
			a.renderer.RenderNotice(fmt.Sprintf("rocket %d launched, planet survived", out.Rocket.Serial))
			return false, nil
		}
		a.renderer.RenderError(errors.New("planet destroyed"))
		a.drainEvents()
		return true, a.waitForCompletion()

	case CmdStart:
		var ack workflow.LifecycleAck
		if err := a.update(workflow.UpdateStartAI, workflow.LifecycleRequest{}, &ack); err != nil {
			return false, err
		}
		a.renderer.RenderNotice("planet AI started")
		return false, nil

	case CmdStop:
		var ack workflow.LifecycleAck
		if err := a.update(workflow.UpdateStopAI, workflow.LifecycleRequest{}, &ack); err != nil {
			return false, err
		}
		a.renderer.RenderNotice("planet AI stopped")
		return false, nil

	case CmdState:
		var report workflow.StateReport
		if err := a.update(workflow.UpdateStateReport, workflow.StateReportRequest{}, &report); err != nil {
			return false, err
		}
		a.renderer.RenderStateReport(report)
		return false, nil

	case CmdStatus:
		var status workflow.Status
		if err := a.query(workflow.QueryStatus, &status); err != nil {
			return false, err
		}
		a.renderer.RenderStatus(status)
		return false, nil

	case CmdArrive:
		if err := a.update(workflow.UpdateExplorerArrive,
			workflow.ExplorerMoveRequest{ExplorerID: a.explorerID}, nil); err != nil {
			return false, err
		}
		a.onPlanet = true
		a.renderer.RenderNotice(fmt.Sprintf("%s landed", a.explorerID))
		return false, nil

	case CmdDepart:
		if err := a.update(workflow.UpdateExplorerDepart,
			workflow.ExplorerMoveRequest{ExplorerID: a.explorerID}, nil); err != nil {
			return false, err
		}
		a.onPlanet = false
		a.renderer.RenderNotice(fmt.Sprintf("%s departed", a.explorerID))
		return false, nil

	case CmdRecipes:
		resources, err := a.explorerRequest(ai.ExplorerRequest{Type: ai.ReqSupportedResources})
		if err != nil {
			return false, err
		}
		combinations, err := a.explorerRequest(ai.ExplorerRequest{Type: ai.ReqSupportedCombinations})
		if err != nil {
			return false, err
		}
		a.renderer.RenderRecipes(resources.SupportedResources, combinations.SupportedCombinations)
		return false, nil

	case CmdCells:
		resp, err := a.explorerRequest(ai.ExplorerRequest{Type: ai.ReqAvailableCells})
		if err != nil {
			return false, err
		}
		a.renderer.RenderExplorerResponse(resp)
		return false, nil

	case CmdGenerate:
		resp, err := a.explorerRequest(ai.ExplorerRequest{
			Type:     ai.ReqGenerateResource,
			Resource: cmd.Resource,
		})
		if err != nil {
			return false, err
		}
		if resp.OK() && resp.Resource != nil {
			a.inventory[resp.Resource.ID] = *resp.Resource
		}
		a.renderer.RenderExplorerResponse(resp)
		return false, nil

	case CmdCombine:
		return false, a.combine(cmd)

	case CmdInventory:
		a.renderer.RenderInventory(a.inventory)
		return false, nil

	case CmdLog:
		events := a.poller.Poll(context.Background())
		if events.Err != nil {
			return false, events.Err
		}
		tail := events.Events
		if len(tail) > cmd.Tail {
			tail = tail[len(tail)-cmd.Tail:]
		}
		a.renderer.RenderEvents(tail)
		if n := len(events.Events); n > 0 {
			a.lastSeenSeq = events.Events[n-1].Seq
		}
		return false, nil

	case CmdWatch:
		return false, a.watch()

	case CmdExit:
		return true, a.shutdown()

	default:
		return false, fmt.Errorf("unknown command %q", cmd.Kind)
	}
}

// combine spends two inventory resources on a combination request. Refused
// combinations put the returned resources back in the inventory.
func (a *App) combine(cmd Command) error {
	inputs := make([]game.Resource, 0, 2)
	for _, id := range cmd.InputIDs {
		res, ok := a.inventory[id]
		if !ok {
			return fmt.Errorf("resource %q is not in your inventory", id)
		}
		inputs = append(inputs, res)
	}
	for _, res := range inputs {
		delete(a.inventory, res.ID)
	}

	resp, err := a.explorerRequest(ai.ExplorerRequest{
		Type:    ai.ReqCombineResource,
		Product: cmd.Product,
		Inputs:  inputs,
	})
	if err != nil {
		// The request never reached the planet; keep the resources.
		for _, res := range inputs {
			a.inventory[res.ID] = res
		}
		return err
	}

	if resp.OK() && resp.Resource != nil {
		a.inventory[resp.Resource.ID] = *resp.Resource
	}
	for _, res := range resp.Returned {
		a.inventory[res.ID] = res
	}
	a.renderer.RenderExplorerResponse(resp)
	return nil
}

func (a *App) explorerRequest(req ai.ExplorerRequest) (ai.ExplorerResponse, error) {
	if !a.onPlanet {
		return ai.ExplorerResponse{}, errors.New("not on the planet (use arrive first)")
	}
	req.ExplorerID = a.explorerID
	var resp ai.ExplorerResponse
	if err := a.update(workflow.UpdateExplorerRequest, req, &resp); err != nil {
		return ai.ExplorerResponse{}, err
	}
	return resp, nil
}

// update sends one workflow update and waits for its result.
func (a *App) update(name string, arg, out interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.spinner.Start("Waiting for planet...")
	defer a.spinner.Stop()

	handle, err := a.client.UpdateWorkflow(ctx, client.UpdateWorkflowOptions{
		WorkflowID:   a.workflowID,
		UpdateName:   name,
		Args:         []interface{}{arg},
		WaitForStage: client.WorkflowUpdateStageCompleted,
	})
	if err != nil {
		return err
	}
	return handle.Get(ctx, out)
}

func (a *App) query(name string, out interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := a.client.QueryWorkflow(ctx, a.workflowID, "", name)
	if err != nil {
		return err
	}
	return resp.Get(out)
}

// watch streams game events live until the user presses enter. Useful when
// another console (or the orchestrator) is driving the planet.
func (a *App) watch() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan PollResult, 1)
	go a.poller.RunPolling(ctx, results)

	stop := make(chan struct{})
	go func() {
		_, _ = a.rl.Readline()
		close(stop)
	}()

	fmt.Fprintln(os.Stderr, "Watching planet events (press enter to stop)")
	for {
		select {
		case <-stop:
			return nil
		case result := <-results:
			if result.Err != nil {
				return result.Err
			}
			for _, e := range result.Events {
				if e.Seq <= a.lastSeenSeq {
					continue
				}
				a.renderer.RenderEvent(e)
				a.lastSeenSeq = e.Seq
			}
		}
	}
}

// drainEvents renders game events that arrived since the last command.
func (a *App) drainEvents() {
	result := a.poller.Poll(context.Background())
	if result.Err != nil {
		return // planet gone or completing, commands surface real errors
	}
	for _, e := range result.Events {
		if e.Seq <= a.lastSeenSeq {
			continue
		}
		a.renderer.RenderEvent(e)
		a.lastSeenSeq = e.Seq
	}
}

func (a *App) shutdown() error {
	a.spinner.Start("Shutting down...")
	err := a.update(workflow.UpdateShutdown, workflow.ShutdownRequest{}, nil)
	a.spinner.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending shutdown: %v\n", err)
	}
	return a.waitForCompletion()
}

func (a *App) waitForCompletion() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	run := a.client.GetWorkflow(ctx, a.workflowID, "")
	var result workflow.PlanetResult
	if err := run.Get(ctx, &result); err != nil {
		fmt.Fprintln(os.Stderr, "Planet closed.")
		return nil
	}

	fate := "shut down"
	if result.Destroyed {
		fate = "destroyed"
	}
	fmt.Fprintf(os.Stderr, "Planet %s %s. Sunrays: %d, resources: %d, asteroids survived: %d\n",
		result.PlanetID, fate,
		result.Stats.SunraysAbsorbed,
		result.Stats.ResourcesGenerated+result.Stats.ResourcesCombined,
		result.Stats.AsteroidsSurvived)
	return nil
}

package cli

import (
	"context"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/galaxysim/orbitron/internal/gamelog"
	"github.com/galaxysim/orbitron/internal/workflow"
)

// PollResult holds the results from a single poll cycle.
type PollResult struct {
	Events []gamelog.Event
	Status workflow.Status
	Err    error
}

// Poller queries the planet workflow for game events and status.
type Poller struct {
	client     client.Client
	workflowID string
	interval   time.Duration
}

// NewPoller creates a poller for the given planet workflow.
func NewPoller(c client.Client, workflowID string, interval time.Duration) *Poller {
	return &Poller{
		client:     c,
		workflowID: workflowID,
		interval:   interval,
	}
}

// Poll performs a single poll cycle: queries the event log and status.
func (p *Poller) Poll(ctx context.Context) PollResult {
	var result PollResult

	resp, err := p.client.QueryWorkflow(ctx, p.workflowID, "", workflow.QueryEventLog)
	if err != nil {
		result.Err = err
		return result
	}
	if err := resp.Get(&result.Events); err != nil {
		result.Err = err
		return result
	}

	statusResp, err := p.client.QueryWorkflow(ctx, p.workflowID, "", workflow.QueryStatus)
	if err != nil {
		result.Err = err
		return result
	}
	if err := statusResp.Get(&result.Status); err != nil {
		result.Err = err
		return result
	}

	return result
}

// RunPolling polls in a loop, sending results to the channel.
// Stops when the context is cancelled.
func (p *Poller) RunPolling(ctx context.Context, ch chan<- PollResult) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result := p.Poll(ctx)
			select {
			case ch <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

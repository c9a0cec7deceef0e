package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"github.com/galaxysim/orbitron/internal/gamelog"
	"github.com/galaxysim/orbitron/internal/workflow"
)

// queryResult is a minimal converter.EncodedValue for stubbed queries.
type queryResult struct{ v interface{} }

func (q queryResult) HasValue() bool { return q.v != nil }

func (q queryResult) Get(out interface{}) error {
	b, err := json.Marshal(q.v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// stubClient answers event-log and status queries from canned data. The
// embedded client.Client panics on anything the poller should not call.
type stubClient struct {
	client.Client

	mu      sync.Mutex
	events  []gamelog.Event
	status  workflow.Status
	failing bool
}

func (s *stubClient) QueryWorkflow(_ context.Context, _, _, queryType string, _ ...interface{}) (converter.EncodedValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errors.New("planet gone")
	}
	switch queryType {
	case workflow.QueryEventLog:
		return queryResult{s.events}, nil
	case workflow.QueryStatus:
		return queryResult{s.status}, nil
	default:
		return nil, fmt.Errorf("unexpected query %q", queryType)
	}
}

func stubEvents() []gamelog.Event {
	return []gamelog.Event{
		{Seq: 1, Type: gamelog.EventInternalAction, Channel: gamelog.ChannelInfo},
		{Seq: 2, Type: gamelog.EventInternalAction, Channel: gamelog.ChannelDebug},
	}
}

func TestPoll(t *testing.T) {
	stub := &stubClient{
		events: stubEvents(),
		status: workflow.Status{Phase: workflow.PhaseRunning, LastSeq: 2},
	}
	p := NewPoller(stub, "orbitron-1", time.Millisecond)

	result := p.Poll(context.Background())
	require.NoError(t, result.Err)
	require.Len(t, result.Events, 2)
	assert.Equal(t, int64(2), result.Events[1].Seq)
	assert.Equal(t, workflow.PhaseRunning, result.Status.Phase)
}

func TestPoll_QueryError(t *testing.T) {
	stub := &stubClient{failing: true}
	p := NewPoller(stub, "orbitron-1", time.Millisecond)

	result := p.Poll(context.Background())
	require.Error(t, result.Err)
	assert.Empty(t, result.Events)
}

func TestRunPolling_DeliversAndStopsOnCancel(t *testing.T) {
	stub := &stubClient{
		events: stubEvents(),
		status: workflow.Status{Phase: workflow.PhaseRunning},
	}
	p := NewPoller(stub, "orbitron-1", time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.RunPolling(ctx, results)
		close(done)
	}()

	select {
	case result := <-results:
		require.NoError(t, result.Err)
		assert.Len(t, result.Events, 2)
	case <-time.After(time.Second):
		t.Fatal("no poll result before timeout")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunPolling did not stop on context cancel")
	}
}

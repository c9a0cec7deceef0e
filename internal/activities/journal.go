package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/galaxysim/orbitron/internal/gamelog"
	"github.com/galaxysim/orbitron/internal/journal"
)

// RecordEventsInput is the input for RecordEvents.
type RecordEventsInput struct {
	PlanetID string          `json:"planet_id"`
	Events   []gamelog.Event `json:"events"`
}

// RecordEventsOutput reports how many events were newly journaled.
type RecordEventsOutput struct {
	Inserted int `json:"inserted"`
}

// JournalActivities persists game events to the worker's journal store.
type JournalActivities struct {
	store *journal.Store
}

// NewJournalActivities creates JournalActivities backed by the given store.
func NewJournalActivities(store *journal.Store) *JournalActivities {
	return &JournalActivities{store: store}
}

// RecordEvents journals a batch of game events. Inserts are idempotent on
// (planet_id, seq), so retries and replays of the same batch are safe.
func (a *JournalActivities) RecordEvents(
	ctx context.Context, input RecordEventsInput,
) (RecordEventsOutput, error) {
	logger := activity.GetLogger(ctx)

	inserted, err := a.store.RecordEvents(ctx, input.PlanetID, input.Events)
	if err != nil {
		logger.Warn("Failed to journal events",
			"planet_id", input.PlanetID, "batch", len(input.Events), "error", err)
		return RecordEventsOutput{}, err
	}

	if inserted > 0 {
		logger.Debug("Journaled events", "planet_id", input.PlanetID, "inserted", inserted)
	}
	return RecordEventsOutput{Inserted: inserted}, nil
}

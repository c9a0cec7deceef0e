// Package journal persists planet game events to SQLite. The journal is the
// durable history of a planet beyond the window its workflow retains in
// memory; inserts are idempotent on (planet_id, seq) so activity retries and
// ContinueAsNew replays are harmless.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/galaxysim/orbitron/internal/gamelog"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_events (
    planet_id   TEXT    NOT NULL,
    seq         INTEGER NOT NULL,
    occurred_at INTEGER NOT NULL,
    actor_from  TEXT,
    actor_to    TEXT,
    event_type  TEXT    NOT NULL,
    channel     TEXT    NOT NULL,
    payload     TEXT    NOT NULL,
    PRIMARY KEY (planet_id, seq)
);
`

// Store is a SQLite-backed game event journal.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordEvents inserts events for a planet in one transaction. Events whose
// (planet_id, seq) already exist are skipped. Returns the number inserted.
func (s *Store) RecordEvents(ctx context.Context, planetID string, events []gamelog.Event) (int, error) {
	if planetID == "" {
		return 0, fmt.Errorf("planet id is required")
	}
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin journal tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO game_events
		(planet_id, seq, occurred_at, actor_from, actor_to, event_type, channel, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare journal insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return inserted, fmt.Errorf("marshal payload for seq %d: %w", e.Seq, err)
		}
		res, err := stmt.ExecContext(ctx,
			planetID,
			e.Seq,
			e.Time.UTC().UnixMilli(),
			participantText(e.From),
			participantText(e.To),
			string(e.Type),
			string(e.Channel),
			string(payload),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert event seq %d: %w", e.Seq, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit journal tx: %w", err)
	}
	return inserted, nil
}

// ListEvents returns up to limit events for a planet with seq > sinceSeq,
// in ascending sequence order. limit <= 0 means no limit.
func (s *Store) ListEvents(ctx context.Context, planetID string, sinceSeq int64, limit int) ([]gamelog.Event, error) {
	query := `
		SELECT seq, occurred_at, actor_from, actor_to, event_type, channel, payload
		FROM game_events
		WHERE planet_id = ? AND seq > ?
		ORDER BY seq ASC`
	args := []any{planetID, sinceSeq}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var events []gamelog.Event
	for rows.Next() {
		var (
			e          gamelog.Event
			occurredAt int64
			from, to   sql.NullString
			payload    string
		)
		if err := rows.Scan(&e.Seq, &occurredAt, &from, &to, &e.Type, &e.Channel, &payload); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.Time = time.UnixMilli(occurredAt).UTC()
		e.From = parseParticipant(from)
		e.To = parseParticipant(to)
		if payload != "" && payload != "null" {
			if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal payload for seq %d: %w", e.Seq, err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// participantText encodes a participant as "actor:id", or NULL when absent.
func participantText(p *gamelog.Participant) any {
	if p == nil {
		return nil
	}
	return p.String()
}

func parseParticipant(v sql.NullString) *gamelog.Participant {
	if !v.Valid || v.String == "" {
		return nil
	}
	actor, id, found := strings.Cut(v.String, ":")
	if !found {
		return &gamelog.Participant{Actor: gamelog.ActorType(v.String)}
	}
	return &gamelog.Participant{Actor: gamelog.ActorType(actor), ID: id}
}

package gamelog

import "time"

// Recorder accumulates events with monotonic sequence numbers. The workflow
// owns one Recorder per planet; the clock is injected so workflow code can
// supply deterministic time.
//
// Recorder is not safe for concurrent use. Inside a workflow that is fine:
// handlers run on a single thread.
type Recorder struct {
	now        func() time.Time
	events     []Event
	nextSeq    int64
	flushedSeq int64
}

// NewRecorder creates a Recorder starting at sequence 1.
func NewRecorder(now func() time.Time) *Recorder {
	return &Recorder{now: now, nextSeq: 1}
}

// Restore rebuilds a Recorder from state carried across ContinueAsNew.
func Restore(now func() time.Time, events []Event, nextSeq, flushedSeq int64) *Recorder {
	r := &Recorder{now: now, nextSeq: nextSeq, flushedSeq: flushedSeq}
	r.events = append(r.events, events...)
	return r
}

// Emit assigns sequence and time to the event, retains it, and returns it.
func (r *Recorder) Emit(e Event) Event {
	e.Seq = r.nextSeq
	r.nextSeq++
	e.Time = r.now()
	r.events = append(r.events, e)
	return e
}

// Events returns all retained events in order.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Since returns retained events with Seq greater than seq.
func (r *Recorder) Since(seq int64) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

// Unflushed returns retained events not yet marked as journaled.
func (r *Recorder) Unflushed() []Event {
	return r.Since(r.flushedSeq)
}

// MarkFlushed records that everything up to and including seq is journaled.
func (r *Recorder) MarkFlushed(seq int64) {
	if seq > r.flushedSeq {
		r.flushedSeq = seq
	}
}

// FlushedSeq returns the highest journaled sequence number.
func (r *Recorder) FlushedSeq() int64 {
	return r.flushedSeq
}

// NextSeq returns the sequence number the next event will receive.
func (r *Recorder) NextSeq() int64 {
	return r.nextSeq
}

// Len returns the number of retained events.
func (r *Recorder) Len() int {
	return len(r.events)
}

// LastSeq returns the sequence of the most recent event, or 0 when empty.
func (r *Recorder) LastSeq() int64 {
	if len(r.events) == 0 {
		return 0
	}
	return r.events[len(r.events)-1].Seq
}

// TrimTo drops the oldest events, keeping at most keep entries. Only
// flushed events are dropped; unflushed events are always retained.
func (r *Recorder) TrimTo(keep int) {
	if len(r.events) <= keep {
		return
	}
	cut := len(r.events) - keep
	// Never drop events the journal has not seen yet.
	for cut > 0 && r.events[cut-1].Seq > r.flushedSeq {
		cut--
	}
	if cut > 0 {
		r.events = append([]Event(nil), r.events[cut:]...)
	}
}

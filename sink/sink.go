// Package sink receives progress and final records from search runs and
// persists them: a plain-text results log, JSON lines, or SQLite.
package sink

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

// TriggerFinal marks the record written when a run terminates.
const TriggerFinal = "final"

// Record is one report about a run.
type Record struct {
	RunID         string        `json:"run_id"`
	Strategy      string        `json:"strategy"`
	Trigger       string        `json:"trigger"`
	Path          []string      `json:"path"`
	Found         bool          `json:"found"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	InfectedNodes int           `json:"infected_nodes"`
	InfectedFiles int           `json:"infected_files"`
	RecordedAt    time.Time     `json:"recorded_at"`
}

// ThresholdTrigger names the trigger for a file-count milestone.
func ThresholdTrigger(threshold int) string {
	return strconv.Itoa(threshold)
}

// IsFinal reports whether r was written at termination.
func (r Record) IsFinal() bool { return r.Trigger == TriggerFinal }

// Sink receives records. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, record Record) error
}

// Discard drops every record.
type Discard struct{}

func (Discard) Emit(context.Context, Record) error { return nil }

// Multi fans a record out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, record Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Collector keeps records in memory.
type Collector struct {
	mu      sync.Mutex
	records []Record
}

func (c *Collector) Emit(_ context.Context, record Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	record.Path = append([]string(nil), record.Path...)
	c.records = append(c.records, record)
	return nil
}

// Records returns a copy of everything emitted so far.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record(nil), c.records...)
}

// Package indexer exports the receipts of committed academy actions to an
// external store. Indexing is best effort: the runtime logs sink failures and
// never rolls an action back because of them.
package indexer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/google/uuid"
)

// Receipt is the record of one successfully applied action.
type Receipt struct {
	ID     string          `json:"id"`
	Height int64           `json:"height"`
	Action string          `json:"action"`
	Msg    json.RawMessage `json:"msg"`
	Events []abci.Event    `json:"events"`
	Time   time.Time       `json:"time"`
}

// NewReceipt stamps a receipt with a fresh id.
func NewReceipt(height int64, action string, msg json.RawMessage, events []abci.Event, at time.Time) Receipt {
	return Receipt{
		ID:     uuid.NewString(),
		Height: height,
		Action: action,
		Msg:    msg,
		Events: events,
		Time:   at.UTC(),
	}
}

// Sink receives receipts in commit order.
type Sink interface {
	Index(ctx context.Context, receipt Receipt) error
	Close() error
}

// EventRow is the flattened form of one event stored by sinks.
type EventRow struct {
	Index      int               `json:"index"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// EventRows flattens the receipt events. A repeated attribute key keeps its
// last value.
func (r Receipt) EventRows() []EventRow {
	rows := make([]EventRow, 0, len(r.Events))
	for i, ev := range r.Events {
		attrs := make(map[string]string, len(ev.Attributes))
		for _, attr := range ev.Attributes {
			attrs[attr.Key] = attr.Value
		}
		rows = append(rows, EventRow{Index: i, Type: ev.Type, Attributes: attrs})
	}
	return rows
}

// MemorySink keeps receipts in memory. It backs tests and the default devnet
// configuration.
type MemorySink struct {
	mu       sync.RWMutex
	receipts []Receipt
	limit    int
}

var _ Sink = (*MemorySink)(nil)

// NewMemorySink keeps at most limit receipts, dropping the oldest. A limit
// of zero keeps everything.
func NewMemorySink(limit int) *MemorySink {
	return &MemorySink{limit: limit}
}

func (s *MemorySink) Index(_ context.Context, receipt Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.receipts = append(s.receipts, receipt)
	if s.limit > 0 && len(s.receipts) > s.limit {
		s.receipts = append([]Receipt(nil), s.receipts[len(s.receipts)-s.limit:]...)
	}
	return nil
}

// Receipts returns a copy of the stored receipts, oldest first.
func (s *MemorySink) Receipts() []Receipt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Receipt(nil), s.receipts...)
}

// ByAction returns the stored receipts for action, oldest first.
func (s *MemorySink) ByAction(action string) []Receipt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Receipt
	for _, r := range s.receipts {
		if r.Action == action {
			out = append(out, r)
		}
	}
	return out
}

func (s *MemorySink) Close() error { return nil }

// Multi fans a receipt out to every sink and returns the first error.
type Multi []Sink

func (m Multi) Index(ctx context.Context, receipt Receipt) error {
	var first error
	for _, s := range m {
		if err := s.Index(ctx, receipt); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

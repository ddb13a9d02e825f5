// Package record provides a volatile core.RecordStore implementation. The
// production record layer is an external relational service; this store
// mirrors its observable contract (ordering, soft delete, ErrNoRecords) for
// tests and ephemeral demo servers.
package record

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/dialogmesh/core"
)

// InMemoryStore keeps records in a process local map keyed by conversation.
// It is safe for concurrent access. Returned slices are copies, so callers
// can never mutate internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string][]core.Record
	now     func() time.Time
}

// Option customizes InMemoryStore construction.
type Option func(*InMemoryStore)

// WithNow overrides the clock used to stamp CreatedAt. Tests use this for
// deterministic records.
func WithNow(now func() time.Time) Option {
	return func(s *InMemoryStore) { s.now = now }
}

// NewInMemoryStore constructs an empty in-memory record store.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{records: make(map[string][]core.Record), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create implements core.RecordStore. It assigns an ID and CreatedAt and
// appends the record to its conversation.
func (s *InMemoryStore) Create(rec core.Record) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = s.now()
	s.records[rec.ConversationID] = append(s.records[rec.ConversationID], rec)
	return rec, nil
}

// ListByConversation implements core.RecordStore. Soft-deleted records are
// excluded; when nothing remains the store reports core.ErrNoRecords.
func (s *InMemoryStore) ListByConversation(conversationID string, lastN int) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, ok := s.records[conversationID]
	if !ok {
		return nil, core.ErrNoRecords
	}

	live := make([]core.Record, 0, len(all))
	for _, rec := range all {
		if rec.IsRemoved {
			continue
		}
		live = append(live, rec)
	}
	if len(live) == 0 {
		return nil, core.ErrNoRecords
	}

	if lastN > 0 && len(live) > lastN {
		live = live[len(live)-lastN:]
	}
	out := make([]core.Record, len(live))
	copy(out, live)
	return out, nil
}

// Remove soft-deletes a record by id. Removed records stay stored but are
// invisible to listings, matching the external layer's cascade semantics.
func (s *InMemoryStore) Remove(recordID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for convID, recs := range s.records {
		for i := range recs {
			if recs[i].ID == recordID {
				s.records[convID][i].IsRemoved = true
				return true
			}
		}
	}
	return false
}

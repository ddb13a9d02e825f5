package testutil

import (
	"fmt"
	"time"

	"github.com/hupe1980/dialogmesh/core"
)

// RecordBuilder provides a fluent helper for seeding conversation records in
// tests. Example:
//
//	recs := NewRecordBuilder("conv-1", "user-1").
//		Turn("hello", "hi there").
//		Turn("weather?", "sunny").
//		Build()
//
// Chain only the parts you need; sensible defaults are applied.
type RecordBuilder struct {
	conversationID string
	userID         string
	base           time.Time
	records        []core.Record
}

// NewRecordBuilder creates a builder for the given conversation and user.
func NewRecordBuilder(conversationID, userID string) *RecordBuilder {
	return &RecordBuilder{
		conversationID: conversationID,
		userID:         userID,
		base:           time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Base overrides the starting timestamp; successive turns advance from it
// (chainable).
func (b *RecordBuilder) Base(t time.Time) *RecordBuilder { b.base = t; return b }

// Turn appends one completed query/response exchange (chainable).
func (b *RecordBuilder) Turn(query, response string) *RecordBuilder {
	n := len(b.records)
	b.records = append(b.records, core.Record{
		ID:                 fmt.Sprintf("rec-%d", n+1),
		ConversationID:     b.conversationID,
		UserID:             b.userID,
		UserQuery:          query,
		SystemResponse:     response,
		QuerySentAt:        b.base.Add(time.Duration(n) * time.Minute),
		ResponseReceivedAt: b.base.Add(time.Duration(n)*time.Minute + 5*time.Second),
		CreatedAt:          b.base.Add(time.Duration(n)*time.Minute + 5*time.Second),
	})
	return b
}

// Removed marks the most recently added turn as soft-deleted (chainable).
func (b *RecordBuilder) Removed() *RecordBuilder {
	if len(b.records) > 0 {
		b.records[len(b.records)-1].IsRemoved = true
	}
	return b
}

// Build returns the assembled records, oldest first.
func (b *RecordBuilder) Build() []core.Record {
	return append([]core.Record(nil), b.records...)
}

// Seed stores every built record through the given store, failing the
// build-time contract loudly if the store rejects one.
func (b *RecordBuilder) Seed(store core.RecordStore) error {
	for _, rec := range b.records {
		if _, err := store.Create(rec); err != nil {
			return fmt.Errorf("seed record %q: %w", rec.ID, err)
		}
	}
	return nil
}

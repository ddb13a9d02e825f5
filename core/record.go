package core

import (
	"errors"
	"time"
)

// ErrNoRecords is returned by RecordStore implementations when a conversation
// has no (live) records. The core treats it as "empty history", not a failure.
var ErrNoRecords = errors.New("no records for conversation")

// Record is one persisted turn of a conversation as stored by the external
// record layer. SystemThoughts carries the JSON-serialized context trace.
type Record struct {
	ID                 string    `json:"id"`
	ConversationID     string    `json:"conversation_id"`
	UserID             string    `json:"user_id"`
	UserQuery          string    `json:"user_query"`
	SystemResponse     string    `json:"system_response"`
	SystemThoughts     string    `json:"system_thoughts"`
	ImageList          []string  `json:"image_list"`
	IsRemoved          bool      `json:"is_removed"`
	QuerySentAt        time.Time `json:"query_sent_at"`
	ResponseReceivedAt time.Time `json:"response_received_at"`
	CreatedAt          time.Time `json:"created_at"`
}

// RecordStore persists completed turns and replays conversation history.
// Implementations live outside the core (a relational CRUD layer in
// production, record.InMemoryStore in tests and demos).
type RecordStore interface {
	// Create persists one turn record and returns the stored form
	// (with ID and CreatedAt assigned).
	Create(rec Record) (Record, error)

	// ListByConversation returns up to lastN live records of a conversation
	// ordered oldest to newest. It returns ErrNoRecords when the
	// conversation has none.
	ListByConversation(conversationID string, lastN int) ([]Record, error)
}

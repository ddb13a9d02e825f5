package picture

import "fmt"

// ErrNotFound is returned when no picture exists for the given
// conversation / id pair.
var ErrNotFound = fmt.Errorf("picture not found")

// Store persists generated images per conversation. Implementations must be
// safe for concurrent use; turns in different sessions may save at the same
// time.
type Store interface {
	// Save stores (or overwrites) the picture bytes under the given id.
	Save(conversationID, pictureID string, data []byte) error

	// Get returns the stored bytes or ErrNotFound.
	Get(conversationID, pictureID string) ([]byte, error)

	// List returns the picture ids stored for the conversation.
	List(conversationID string) ([]string, error)

	// Delete removes the picture or returns ErrNotFound.
	Delete(conversationID, pictureID string) error
}

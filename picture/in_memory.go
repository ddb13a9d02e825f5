package picture

import "sync"

// InMemoryStore keeps pictures in a nested map guarded by an RWMutex. Bytes
// are copied on save and retrieval so callers cannot mutate internal
// buffers. Suitable for tests, examples and single-process deployments; it
// enforces no retention limits or size quotas.
//
// Layout: conversationID -> pictureID -> raw bytes
type InMemoryStore struct {
	mu       sync.RWMutex
	pictures map[string]map[string][]byte
}

// NewInMemoryStore returns an empty in-memory picture store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{pictures: make(map[string]map[string][]byte)}
}

// Save implements Store. The input slice is copied before storage.
func (s *InMemoryStore) Save(conversationID, pictureID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pictures[conversationID]; !ok {
		s.pictures[conversationID] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.pictures[conversationID][pictureID] = cp
	return nil
}

// Get implements Store; it returns a copy of the stored bytes.
func (s *InMemoryStore) Get(conversationID, pictureID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.pictures[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := m[pictureID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List implements Store. The returned slice is a snapshot safe for caller
// mutation.
func (s *InMemoryStore) List(conversationID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.pictures[conversationID]
	if !ok {
		return []string{}, nil
	}
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete implements Store.
func (s *InMemoryStore) Delete(conversationID, pictureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.pictures[conversationID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[pictureID]; !ok {
		return ErrNotFound
	}
	delete(m, pictureID)
	return nil
}

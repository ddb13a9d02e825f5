package picture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreSaveAndGet(t *testing.T) {
	s := NewInMemoryStore()

	require.NoError(t, s.Save("c1", "p1", []byte{0x89, 0x50, 0x4e, 0x47}))

	data, err := s.Get("c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)
}

func TestInMemoryStoreCopiesBytes(t *testing.T) {
	s := NewInMemoryStore()

	original := []byte("image-bytes")
	require.NoError(t, s.Save("c1", "p1", original))
	original[0] = 'X'

	stored, err := s.Get("c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), stored)

	stored[0] = 'Y'
	again, err := s.Get("c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), again)
}

func TestInMemoryStoreGetMissing(t *testing.T) {
	s := NewInMemoryStore()

	_, err := s.Get("c1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreList(t *testing.T) {
	s := NewInMemoryStore()

	ids, err := s.List("empty")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.Save("c1", "a", []byte("1")))
	require.NoError(t, s.Save("c1", "b", []byte("2")))

	ids, err = s.List("c1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestInMemoryStoreDelete(t *testing.T) {
	s := NewInMemoryStore()

	require.NoError(t, s.Save("c1", "p1", []byte("1")))
	require.NoError(t, s.Delete("c1", "p1"))

	_, err := s.Get("c1", "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete("c1", "p1"), ErrNotFound)
	assert.ErrorIs(t, s.Delete("other", "p1"), ErrNotFound)
}

package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooperDefaults(t *testing.T) {
	l := NewLooper(0)
	assert.Equal(t, 0, l.Count())
	assert.False(t, l.MaxedOut())

	// Non-positive budget falls back to the default.
	for i := 0; i < DefaultPatience; i++ {
		l.Increment()
	}
	assert.False(t, l.MaxedOut())
	l.Increment()
	assert.True(t, l.MaxedOut())
}

func TestLooperIncrementAndMaxedOut(t *testing.T) {
	l := NewLooper(3)

	for i := 1; i <= 3; i++ {
		l.Increment()
		assert.Equal(t, i, l.Count())
		assert.False(t, l.MaxedOut(), "count %d within budget", i)
	}

	l.Increment()
	assert.Equal(t, 4, l.Count())
	assert.True(t, l.MaxedOut())
}

func TestLooperBreakLoop(t *testing.T) {
	l := NewLooper(3)
	l.Increment()

	l.BreakLoop()
	assert.True(t, l.Breaked())
	assert.True(t, l.MaxedOut())
	assert.Equal(t, 6, l.Count())

	// Idempotent under repeat and under further increments.
	l.BreakLoop()
	l.Increment()
	l.Increment()
	assert.Equal(t, 6, l.Count())
}

func TestLooperReset(t *testing.T) {
	l := NewLooper(2)
	l.Increment()
	l.BreakLoop()

	l.Reset()
	assert.Equal(t, 0, l.Count())
	assert.False(t, l.Breaked())
	assert.False(t, l.MaxedOut())
}

// The counter must stay within [0, 2*maxCount] no matter how Increment,
// BreakLoop and Reset interleave.
func TestLooperBoundsUnderArbitrarySequences(t *testing.T) {
	const max = 3

	sequences := [][]func(*Looper){
		{(*Looper).Increment, (*Looper).Increment, (*Looper).BreakLoop, (*Looper).Increment},
		{(*Looper).BreakLoop, (*Looper).BreakLoop, (*Looper).Increment},
		{(*Looper).Increment, (*Looper).Reset, (*Looper).Increment, (*Looper).BreakLoop},
		{(*Looper).Increment, (*Looper).Increment, (*Looper).Increment, (*Looper).Increment, (*Looper).Increment, (*Looper).Increment, (*Looper).Increment, (*Looper).Increment},
	}

	for i, seq := range sequences {
		l := NewLooper(max)
		for _, op := range seq {
			op(l)
			assert.GreaterOrEqual(t, l.Count(), 0, "sequence %d", i)
			assert.LessOrEqual(t, l.Count(), 2*max, "sequence %d", i)
			assert.Equal(t, l.Count() > max, l.MaxedOut(), "sequence %d", i)
		}
	}
}

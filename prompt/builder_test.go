package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 7, 23, 10, 0, 0, 0, time.UTC)
}

func testBuilder() *Builder {
	return NewBuilder(
		`{"name" = "weather_query", "description" = "look up weather"}`,
		[]string{"weather_query", "food_query"},
		WithNow(fixedNow),
	)
}

func TestBuild_SystemMessageAndTemplate(t *testing.T) {
	b := testBuilder()
	msgs, err := b.Build("hello", nil, nil, true)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, core.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "weather_query, food_query")
	assert.Contains(t, msgs[0].Content, "2025-07-23 10:00:00")
	assert.Contains(t, msgs[0].Content, "look up weather")

	assert.Equal(t, core.RoleUser, msgs[1].Role)
	assert.True(t, strings.HasSuffix(msgs[1].Content, "hello"))
	assert.Contains(t, msgs[1].Content, "Question:")
}

func TestBuild_WithoutSystemPrompt(t *testing.T) {
	b := testBuilder()
	history := []core.Message{
		core.UserMessage("earlier question"),
		core.AssistantMessage("earlier answer"),
	}
	msgs, err := b.Build("hello", history, nil, false)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	assert.Equal(t, history[0], msgs[0])
	assert.Equal(t, history[1], msgs[1])
	assert.Equal(t, core.UserMessage("hello"), msgs[2])
}

func TestBuild_ContextRawsAppendedInOrder(t *testing.T) {
	b := testBuilder()
	context := []core.Decision{
		{Raw: "Thought: a\nAction: x\nAction Input: {}\nObservation: one"},
		{Raw: "Thought: b\nAction: y\nAction Input: {}\nObservation: two"},
	}
	msgs, err := b.Build("q", nil, context, false)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	content := msgs[0].Content
	first := strings.Index(content, "Observation: one")
	second := strings.Index(content, "Observation: two")
	assert.Greater(t, first, -1)
	assert.Greater(t, second, first)

	// Raw entries are replayed as JSON strings, newline-joined after the query.
	assert.True(t, strings.HasPrefix(content, "q\n\""))
}

func TestBuild_SkipsEmptyRaws(t *testing.T) {
	b := testBuilder()
	context := []core.Decision{{Raw: ""}, {Raw: "Thought: only"}}
	msgs, err := b.Build("q", nil, context, false)
	require.NoError(t, err)
	assert.Equal(t, "q\n\"Thought: only\"", msgs[0].Content)
}

func TestBuild_Idempotent(t *testing.T) {
	b := testBuilder()
	history := []core.Message{core.UserMessage("h")}
	context := []core.Decision{{Raw: "Thought: t\nAction: a\nAction Input: {}\nObservation: o"}}

	first, err := b.Build("q", history, context, true)
	require.NoError(t, err)
	second, err := b.Build("q", history, context, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

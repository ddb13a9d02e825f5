package parser

import (
	"testing"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFinalAnswer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"marker", "Final Answer: ...", true},
		{"embedded marker", `something Final Answer: {"answer": "ok"}`, true},
		{"bare json", `{"answer": "qwee", "picture": []}`, true},
		{"thought only", "Thought: t", false},
		{"action only", "Action: ...", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFinalAnswer(tt.text))
		})
	}
}

func TestParseThoughtAction(t *testing.T) {
	d := ParseThoughtAction("Thought: think\nAction: weather_query\nAction Input: {\"city\":\"Beijing\"}")
	assert.Equal(t, "think", d.Thought)
	assert.Equal(t, "weather_query", d.Action)
	assert.Equal(t, map[string]interface{}{"city": "Beijing"}, d.ActionInput.Map())
	assert.Equal(t, "Thought: think\nAction: weather_query\nAction Input: {\"city\":\"Beijing\"}", d.Raw)
}

func TestParseThoughtAction_WhitespaceVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unix newlines", "Thought: think\nAction: act\nAction Input: {\"param\": 1}"},
		{"windows newlines", "Thought: think\r\nAction: act\r\nAction Input: {\"param\": 1}"},
		{"extra spaces", "Thought:   think   \nAction:   act   \nAction Input:   {  \"param\"  : 1  }"},
		{"no spaces", "Thought:think\nAction:act\nAction Input:{\"param\":1}"},
		{"newline padded", "Thought:\n  think\nAction:\n  act\nAction Input:\n  {\"param\": 1}"},
		{"bare carriage returns", "Thought: think\rAction: act\rAction Input: {\"param\": 1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseThoughtAction(tt.text)
			assert.Equal(t, "think", d.Thought)
			assert.Equal(t, "act", d.Action)
			assert.Equal(t, map[string]interface{}{"param": float64(1)}, d.ActionInput.Map())
			assert.Empty(t, d.Observation)
			assert.Equal(t, tt.text, d.Raw)
		})
	}
}

func TestParseThoughtAction_MissingMarkersYieldsErrorSentinel(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no action", "Thought: I am lost"},
		{"no thought", "Action: act\nAction Input: {}"},
		{"free text", "hello there"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseThoughtAction(tt.text)
			assert.Equal(t, core.ActionError, d.Action)
			assert.True(t, d.IsError())
			assert.Equal(t, tt.text, d.Thought)
			assert.True(t, d.ActionInput.IsEmpty())
		})
	}
}

func TestParseThoughtAction_InputFallbacks(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		d := ParseThoughtAction("Thought: t\nAction: a\nAction Input:")
		assert.True(t, d.ActionInput.IsEmpty())
		assert.True(t, d.ActionInput.IsJSON())
	})

	t.Run("brace span inside prose", func(t *testing.T) {
		d := ParseThoughtAction("Thought: t\nAction: a\nAction Input: here you go {\"city\": \"Paris\"} thanks")
		assert.True(t, d.ActionInput.IsJSON())
		assert.Equal(t, map[string]interface{}{"city": "Paris"}, d.ActionInput.Map())
	})

	t.Run("verbatim string", func(t *testing.T) {
		d := ParseThoughtAction("Thought: t\nAction: a\nAction Input: just some text")
		assert.False(t, d.ActionInput.IsJSON())
		assert.Equal(t, "just some text", d.ActionInput.String())
	})
}

func TestParseFinalAnswer(t *testing.T) {
	fa, err := ParseFinalAnswer("Thought: t\nFinal Answer: {\"answer\": \"ok\", \"picture\": [\"img1\"]}")
	require.NoError(t, err)
	assert.Equal(t, "t", fa.Thought)
	assert.Equal(t, "ok", fa.Answer)
	assert.Equal(t, []string{"img1"}, fa.Picture)
}

func TestParseFinalAnswer_WhitespaceVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unix newlines", "Thought: t\nFinal Answer: {\"answer\": \"ok\", \"picture\": [\"img1\"]}"},
		{"windows newlines", "Thought: t\r\nFinal Answer: {\"answer\": \"ok\", \"picture\": [\"img1\"]}"},
		{"extra spaces", "Thought:   t   \nFinal Answer:   {  \"answer\"  : \"ok\" ,  \"picture\" : [ \"img1\" ]  }"},
		{"no spaces", "Thought:t\nFinal Answer:{\"answer\":\"ok\",\"picture\":[\"img1\"]}"},
		{"newline padded", "Thought:\n  t\nFinal Answer:\n  {\"answer\": \"ok\", \"picture\": [\"img1\"]}"},
		{"bare carriage returns", "Thought: t\rFinal Answer: {\"answer\": \"ok\", \"picture\": [\"img1\"]}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa, err := ParseFinalAnswer(tt.text)
			require.NoError(t, err)
			assert.Equal(t, "t", fa.Thought)
			assert.Equal(t, "ok", fa.Answer)
			assert.Equal(t, []string{"img1"}, fa.Picture)
		})
	}
}

func TestParseFinalAnswer_BareJSON(t *testing.T) {
	fa, err := ParseFinalAnswer(`{"answer": "qwee", "picture": []}`)
	require.NoError(t, err)
	assert.Empty(t, fa.Thought)
	assert.Equal(t, "qwee", fa.Answer)
	assert.Empty(t, fa.Picture)
}

func TestParseFinalAnswer_Defaults(t *testing.T) {
	fa, err := ParseFinalAnswer(`Final Answer: {"picture": []}`)
	require.NoError(t, err)
	assert.Equal(t, DefaultApologyAnswer, fa.Answer)
	assert.Equal(t, []string{}, fa.Picture)
}

func TestParseFinalAnswer_LastMarkerWins(t *testing.T) {
	text := "Final Answer: {\"answer\": \"draft\"}\nThought: again\nFinal Answer: {\"answer\": \"final\", \"picture\": []}"
	fa, err := ParseFinalAnswer(text)
	require.NoError(t, err)
	assert.Equal(t, "final", fa.Answer)
}

func TestParseFinalAnswer_VerbatimFallback(t *testing.T) {
	fa, err := ParseFinalAnswer("Thought: t\nFinal Answer: the plain answer")
	require.NoError(t, err)
	assert.Equal(t, "the plain answer", fa.Answer)
	assert.Empty(t, fa.Picture)
}

func TestParseFinalAnswer_Errors(t *testing.T) {
	t.Run("empty after marker", func(t *testing.T) {
		_, err := ParseFinalAnswer("Thought: t\nFinal Answer:")
		assert.ErrorIs(t, err, ErrEmptyFinalAnswer)
	})

	t.Run("no marker and no json", func(t *testing.T) {
		_, err := ParseFinalAnswer("Thought: t")
		assert.ErrorIs(t, err, ErrMalformedFinalAnswer)
	})
}

func TestFinalAnswerRoundTrip(t *testing.T) {
	// A serialized final answer framed the way prompts instruct the model
	// must reproduce the original fields.
	fa, err := ParseFinalAnswer("Thought: t\nFinal Answer: {\"answer\": \"ok\", \"picture\": [\"x\"]}")
	require.NoError(t, err)
	assert.Equal(t, core.FinalAnswer{Thought: "t", Answer: "ok", Picture: []string{"x"}}, fa)
}

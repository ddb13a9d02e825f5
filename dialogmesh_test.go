package dialogmesh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/model"
	"github.com/hupe1980/dialogmesh/tool"
)

func TestAskEndToEnd(t *testing.T) {
	client := model.NewScriptedClient(
		"Thought: look it up\nAction: lookup\nAction Input: {\"key\": \"greeting\"}",
		`Thought: done.`+"\n"+`Final Answer: {"answer": "hello world", "picture": []}`,
	)

	mesh := New(client)
	defer mesh.Close()

	require.NoError(t, mesh.RegisterTool(tool.NewFunctionTool("lookup", "Key-value lookup.",
		func(ctx context.Context, input core.ActionInput, user core.UserContext, history []core.Message) (interface{}, error) {
			return "hello world", nil
		})))

	result, err := mesh.Ask(context.Background(), "u1", "s1", "greet me")
	require.NoError(t, err)
	assert.Equal(t, "hello world", result.SystemResponse)
	assert.Equal(t, 1, mesh.Tools().Len())
}

func TestRegisterToolDuplicate(t *testing.T) {
	mesh := New(model.NewScriptedClient())
	defer mesh.Close()

	greet := tool.NewFunctionTool("greet", "Say hi.",
		func(ctx context.Context, input core.ActionInput, user core.UserContext, history []core.Message) (interface{}, error) {
			return "hi", nil
		})

	require.NoError(t, mesh.RegisterTool(greet))
	assert.ErrorIs(t, mesh.RegisterTool(greet), tool.ErrDuplicateName)
}

func TestPicturesDefault(t *testing.T) {
	mesh := New(model.NewScriptedClient())
	defer mesh.Close()

	require.NotNil(t, mesh.Pictures())
	require.NoError(t, mesh.Pictures().Save("s1", "p1", []byte("png")))

	data, err := mesh.Pictures().Get("s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

// Package openai provides a model.Client backed by the OpenAI Chat
// Completions API (or any compatible endpoint). It streams token fragments
// internally and aggregates them into the single response string the
// orchestration loop consumes.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/model"
	"github.com/openai/openai-go"
)

// DefaultStopWord cuts generation before the model fabricates its own
// observations; the loop supplies the real one after the tool runs.
const DefaultStopWord = "Observation"

// Options configure the OpenAI client adapter. Fields mirror a subset of
// Chat Completion parameters intentionally kept minimal; extend via
// functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	Stop                string
	Stream              bool
}

// Client wraps the OpenAI Chat Completions API behind the generic
// model.Client interface.
type Client struct {
	client *openai.Client
	opts   Options
}

// NewClient creates a new OpenAI client using the official SDK with
// environment-based authentication.
func NewClient(optFns ...func(o *Options)) *Client {
	client := openai.NewClient()
	return NewClientFromClient(&client, optFns...)
}

// NewClientFromClient creates a new OpenAI adapter from an existing SDK client.
func NewClientFromClient(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
		Stop:                DefaultStopWord,
		Stream:              true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Generate implements model.Client. Streamed fragments are aggregated into
// one string before returning; this is the loop's single blocking point per
// iteration.
func (c *Client) Generate(ctx context.Context, messages []core.Message) (string, error) {
	params := c.buildParams(messages)
	if c.opts.Stream {
		return c.generateStreaming(ctx, params)
	}
	return c.generateOnce(ctx, params)
}

// buildParams assembles the request from normalized messages and options.
func (c *Client) buildParams(messages []core.Message) openai.ChatCompletionNewParams {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			converted = append(converted, openai.SystemMessage(m.Content))
		case core.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(m.Content))
		default:
			converted = append(converted, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages:            converted,
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	}
	if c.opts.Stop != "" {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfString: openai.String(c.opts.Stop)}
	}
	return params
}

// generateStreaming drains the SSE stream accumulating text deltas.
func (c *Client) generateStreaming(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	var builder strings.Builder
	for stream.Next() {
		ck := stream.Current()
		for _, ch := range ck.Choices {
			builder.WriteString(ch.Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("openai streaming error: %w", err)
	}
	return builder.String(), nil
}

// generateOnce performs a normal (non-streaming) completion.
func (c *Client) generateOnce(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Info returns metadata describing this OpenAI client implementation.
func (c *Client) Info() model.Info {
	return model.Info{Name: c.opts.Model, Provider: "openai"}
}

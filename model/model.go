package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/dialogmesh/core"
)

// Info contains metadata about a client implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "scripted", etc.
}

// Client is the minimal interface the orchestration loop requires from a
// text-generation service. Generate is synchronous from the caller's
// perspective; implementations may stream internally and aggregate the
// fragments before returning. The loop imposes no retry or rate-limit
// contract on it.
type Client interface {
	Generate(ctx context.Context, messages []core.Message) (string, error)

	// Info returns information about the client implementation.
	Info() Info
}

// ScriptedClient is a deterministic in-memory Client for tests. It pops
// queued responses in order and records every message list it receives.
// Safe for concurrent use.
type ScriptedClient struct {
	mu        sync.Mutex
	responses []string
	calls     [][]core.Message
}

// NewScriptedClient queues the given responses for successive Generate calls.
func NewScriptedClient(responses ...string) *ScriptedClient {
	return &ScriptedClient{responses: append([]string(nil), responses...)}
}

// Enqueue appends further responses to the script.
func (s *ScriptedClient) Enqueue(responses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, responses...)
}

// Generate implements Client; it returns the next scripted response or an
// error once the script is exhausted.
func (s *ScriptedClient) Generate(ctx context.Context, messages []core.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]core.Message(nil), messages...))
	if len(s.responses) == 0 {
		return "", fmt.Errorf("scripted client: no responses left (call %d)", len(s.calls))
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next, nil
}

// Calls returns a copy of every message list Generate received, in order.
func (s *ScriptedClient) Calls() [][]core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([][]core.Message, len(s.calls))
	copy(calls, s.calls)
	return calls
}

// Info implements Client.
func (s *ScriptedClient) Info() Info {
	return Info{Name: "scripted", Provider: "scripted"}
}

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/logging"
	"github.com/hupe1980/dialogmesh/model"
	"github.com/hupe1980/dialogmesh/parser"
	"github.com/hupe1980/dialogmesh/prompt"
	"github.com/hupe1980/dialogmesh/tool"
)

// FallbackAnswer is returned when a turn exhausts its loop budget without a
// genuine final answer.
const FallbackAnswer = "I'm sorry, I couldn't arrive at a final answer within the allowed number of steps."

// formatViolationObservation is fed back when decision text lacks the
// required markers, prompting the model to self-correct.
const formatViolationObservation = "Your last response did not follow the required format. " +
	"Reply with either:\n" +
	"Thought: <your reasoning>\nAction: <one of the available tools>\nAction Input: <JSON arguments>\n" +
	"or\n" +
	"Thought: <your reasoning>\nFinal Answer: <JSON with \"answer\" and \"picture\" fields>"

// turnLogger is the richer surface some loggers provide (notably
// logging.DialogMeshLogger). When the configured logger implements it, the
// loop emits uniform model, tool and turn events through it instead of
// plain Debug/Info lines.
type turnLogger interface {
	LogModelCall(model string, dur time.Duration, success bool, err error)
	LogToolCall(tool string, dur time.Duration, success bool, err error)
	LogTurn(conversationID string, steps int, dur time.Duration, fallback bool)
}

// Agent orchestrates one conversational turn at a time: it drives State,
// the prompt builder, the generation-service client, the output parser and
// the tool registry through the bounded retry loop.
//
// An Agent is bound to one session. It holds no lock itself; the Manager
// (or any other caller) is responsible for serializing Run calls.
type Agent struct {
	state   *State
	client  model.Client
	tools   *tool.Registry
	builder *prompt.Builder
	user    core.UserContext
	logger  logging.Logger
}

// Option customizes Agent construction.
type Option func(*Agent)

// WithLogger overrides the default NoOp logger.
func WithLogger(l logging.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithUserContext supplies the opaque per-user profile passed to tools.
func WithUserContext(user core.UserContext) Option {
	return func(a *Agent) { a.user = user }
}

// New constructs an Agent from its collaborators.
func New(state *State, client model.Client, tools *tool.Registry, builder *prompt.Builder, opts ...Option) *Agent {
	a := &Agent{
		state:   state,
		client:  client,
		tools:   tools,
		builder: builder,
		user:    core.UserContext{UserID: state.UserID()},
		logger:  logging.NoOpLogger{},
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// State exposes the agent's session state, mainly for tests and wiring.
func (a *Agent) State() *State { return a.state }

// Run executes one turn: it repeatedly builds the prompt, calls the
// generation service, and interprets the response as either a tool
// invocation or a final answer until one is produced or the loop budget is
// exhausted.
//
// Parse failures and tool failures never abort the turn; they become
// observations replayed into the next prompt so the model can self-correct.
// Only collaborator failures (generation service, record store) propagate.
func (a *Agent) Run(ctx context.Context, query string) (core.TurnResult, error) {
	start := time.Now()

	a.state.InitQuery(query)
	looper := a.state.Looper()

	// Records only change between turns, so one load serves every
	// iteration of this turn.
	history, err := a.state.History()
	if err != nil {
		return core.TurnResult{}, err
	}

	fellBack := false
	for {
		messages, err := a.builder.Build(query, history, a.state.Context(), true)
		if err != nil {
			return core.TurnResult{}, fmt.Errorf("build prompt: %w", err)
		}

		genStart := time.Now()
		response, err := a.client.Generate(ctx, messages)
		a.logModelCall(time.Since(genStart), err)
		if err != nil {
			return core.TurnResult{}, fmt.Errorf("generation service: %w", err)
		}

		if parser.IsFinalAnswer(response) {
			fa, perr := parser.ParseFinalAnswer(response)
			if perr == nil {
				a.state.SetFinalAnswer(fa)
				looper.BreakLoop()
				if err := a.state.SaveRecord(""); err != nil {
					return core.TurnResult{}, err
				}
				break
			}
			// Recoverable: reinterpret the text as a thought/action
			// decision instead of aborting the turn.
			a.logger.Warn("final answer unparseable, falling through", "error", perr)
		}

		decision := parser.ParseThoughtAction(response)
		a.state.SetThoughtAction(decision)

		if looper.MaxedOut() {
			fa := core.FinalAnswer{
				Thought: "Max steps reached",
				Answer:  FallbackAnswer,
				Picture: []string{},
			}
			a.state.SetFinalAnswer(fa)
			fellBack = true
			if err := a.state.SaveRecord(FallbackAnswer); err != nil {
				return core.TurnResult{}, err
			}
			break
		}
		looper.Increment()

		a.state.UpdateObservation(a.observe(ctx, decision, history))
	}

	a.logTurn(looper.Count(), time.Since(start), fellBack)
	return a.state.FinalResult(), nil
}

// observe resolves one non-final decision into the observation text fed
// back to the model. Every failure mode maps to text; observe never fails.
func (a *Agent) observe(ctx context.Context, decision core.Decision, history []core.Message) string {
	switch {
	case decision.IsError():
		return formatViolationObservation

	case decision.Action == "":
		return fmt.Sprintf("No action produced by LLM. action_input=%s", decision.ActionInput.String())
	}

	t, err := a.tools.Get(decision.Action)
	if errors.Is(err, tool.ErrNotFound) {
		return fmt.Sprintf("Service %q not found. Available services: %v", decision.Action, a.tools.Names())
	}
	if err != nil {
		return fmt.Sprintf("Service %q unavailable: %v", decision.Action, err)
	}

	// Tools see the conversation without the system prompt.
	toolHistory, err := a.builder.Build(a.state.Query(), history, a.state.Context(), false)
	if err != nil {
		toolHistory = history
	}

	toolStart := time.Now()
	result, err := t.Invoke(ctx, decision.ActionInput, a.user, toolHistory)
	a.logToolCall(decision.Action, time.Since(toolStart), err)
	if err != nil {
		return fmt.Sprintf("Error executing tool %q: %v", decision.Action, err)
	}

	return stringifyResult(result)
}

// logModelCall emits one generation-service event, through the rich surface
// when available.
func (a *Agent) logModelCall(dur time.Duration, err error) {
	if tl, ok := a.logger.(turnLogger); ok {
		tl.LogModelCall(a.client.Info().Name, dur, err == nil, err)
		return
	}
	if err != nil {
		a.logger.Error("model call failed", "model", a.client.Info().Name, "duration", dur, "error", err)
		return
	}
	a.logger.Debug("model call completed", "model", a.client.Info().Name, "duration", dur)
}

// logToolCall emits one tool-dispatch event.
func (a *Agent) logToolCall(name string, dur time.Duration, err error) {
	if tl, ok := a.logger.(turnLogger); ok {
		tl.LogToolCall(name, dur, err == nil, err)
		return
	}
	if err != nil {
		a.logger.Warn("tool failed", "tool", name, "duration", dur, "error", err)
		return
	}
	a.logger.Debug("tool succeeded", "tool", name, "duration", dur)
}

// logTurn emits the aggregate record for one completed turn.
func (a *Agent) logTurn(steps int, dur time.Duration, fallback bool) {
	if tl, ok := a.logger.(turnLogger); ok {
		tl.LogTurn(a.state.ConversationID(), steps, dur, fallback)
		return
	}
	a.logger.Info("turn complete",
		"conversation_id", a.state.ConversationID(),
		"steps", steps,
		"fallback", fallback,
		"duration", dur,
	)
}

// stringifyResult serializes a tool result for replay into the prompt,
// falling back to plain formatting when the value is not serializable.
func stringifyResult(result interface{}) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(b)
}

package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/dialogmesh/core"
)

// DefaultHistoryWindow is the number of prior turns replayed into prompts.
const DefaultHistoryWindow = 10

// State is the per-turn and per-session data holder: the live query, the
// accumulated context of decisions, the current decision and the final
// answer. It is bound to one (user, conversation) pair and persists
// completed turns through the external record store.
//
// State is not safe for concurrent use on its own; the owning Agent's lock
// serializes all access.
type State struct {
	userID         string
	conversationID string
	store          core.RecordStore
	historyWindow  int
	looper         *Looper
	now            func() time.Time

	query         string
	querySentAt   time.Time
	context       []core.Decision
	thoughtAction core.Decision
	hasDecision   bool
	finalAnswer   core.FinalAnswer
	hasFinal      bool
}

// StateOption customizes State construction.
type StateOption func(*State)

// WithStateHistoryWindow sets how many prior turns History loads.
func WithStateHistoryWindow(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}

// WithStatePatience sets the loop budget of the state's Looper.
func WithStatePatience(n int) StateOption {
	return func(s *State) { s.looper = NewLooper(n) }
}

// WithStateNow overrides the clock used for record timestamps.
func WithStateNow(now func() time.Time) StateOption {
	return func(s *State) { s.now = now }
}

// NewState binds a fresh state to a (user, conversation) pair and its
// record store.
func NewState(userID, conversationID string, store core.RecordStore, opts ...StateOption) *State {
	s := &State{
		userID:         userID,
		conversationID: conversationID,
		store:          store,
		historyWindow:  DefaultHistoryWindow,
		looper:         NewLooper(DefaultPatience),
		now:            time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Looper returns the turn's iteration counter.
func (s *State) Looper() *Looper { return s.looper }

// ConversationID returns the bound conversation identifier.
func (s *State) ConversationID() string { return s.conversationID }

// UserID returns the bound user identifier.
func (s *State) UserID() string { return s.userID }

// InitQuery resets all per-turn fields and the Looper for a new user query.
func (s *State) InitQuery(query string) {
	s.query = query
	s.querySentAt = s.now()
	s.context = nil
	s.thoughtAction = core.Decision{}
	s.hasDecision = false
	s.finalAnswer = core.FinalAnswer{}
	s.hasFinal = false
	s.looper.Reset()
}

// Query returns the live user query.
func (s *State) Query() string { return s.query }

// Context returns a copy of the decisions accumulated this turn, in
// insertion order.
func (s *State) Context() []core.Decision {
	out := make([]core.Decision, len(s.context))
	copy(out, s.context)
	return out
}

// History loads the last historyWindow turns of the conversation from the
// record store and converts them to message pairs, oldest to newest. A
// conversation without records yields an empty history, not an error.
func (s *State) History() ([]core.Message, error) {
	records, err := s.store.ListByConversation(s.conversationID, s.historyWindow)
	if errors.Is(err, core.ErrNoRecords) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	history := make([]core.Message, 0, 2*len(records))
	for _, rec := range records {
		history = append(history, core.UserMessage(rec.UserQuery))
		history = append(history, core.AssistantMessage(rec.SystemResponse))
	}
	return history, nil
}

// SetThoughtAction stores the current decision.
func (s *State) SetThoughtAction(d core.Decision) {
	s.thoughtAction = d
	s.hasDecision = true
}

// CurrentAction returns the action name and input of the current decision.
func (s *State) CurrentAction() (string, core.ActionInput) {
	return s.thoughtAction.Action, s.thoughtAction.ActionInput
}

// UpdateObservation attaches text to the current decision, extends its Raw
// replay form and pushes the completed decision onto the context. The
// decision is immutable from then on.
func (s *State) UpdateObservation(text string) {
	if !s.hasDecision {
		return
	}
	s.thoughtAction.Observation = text
	s.thoughtAction.Raw += "\nObservation: " + text
	s.context = append(s.context, s.thoughtAction)
	s.thoughtAction = core.Decision{}
	s.hasDecision = false
}

// SetFinalAnswer stores the terminal answer and appends a trailing
// thought-only marker to the context, preserving the closing reasoning in
// the persisted trace.
func (s *State) SetFinalAnswer(fa core.FinalAnswer) {
	s.finalAnswer = fa
	s.hasFinal = true
	s.context = append(s.context, core.Decision{Thought: fa.Thought})
}

// FinalAnswer returns the stored final answer and whether one was set.
func (s *State) FinalAnswer() (core.FinalAnswer, bool) {
	return s.finalAnswer, s.hasFinal
}

// SaveRecord persists the completed turn. When no final answer was stored,
// fallback becomes the system response. Store failures propagate unmodified;
// they are the only failure fatal to a turn.
func (s *State) SaveRecord(fallback string) error {
	response := s.finalAnswer.Answer
	if !s.hasFinal || response == "" {
		response = fallback
	}
	pictures := s.finalAnswer.Picture
	if pictures == nil {
		pictures = []string{}
	}

	thoughts, err := json.Marshal(s.context)
	if err != nil {
		return fmt.Errorf("serialize context: %w", err)
	}

	_, err = s.store.Create(core.Record{
		ConversationID:     s.conversationID,
		UserID:             s.userID,
		UserQuery:          s.query,
		QuerySentAt:        s.querySentAt,
		SystemResponse:     response,
		SystemThoughts:     string(thoughts),
		ImageList:          pictures,
		ResponseReceivedAt: s.now(),
	})
	return err
}

// FinalResult assembles the caller-facing turn outcome.
func (s *State) FinalResult() core.TurnResult {
	thoughts, err := json.Marshal(s.context)
	if err != nil {
		thoughts = []byte("[]")
	}
	pictures := s.finalAnswer.Picture
	if pictures == nil {
		pictures = []string{}
	}
	return core.TurnResult{
		SystemResponse: s.finalAnswer.Answer,
		SystemThoughts: string(thoughts),
		ImageList:      pictures,
	}
}

package core

// ActionError is the sentinel action name the output parser assigns when
// decision text lacks the required Thought/Action markers. The orchestration
// loop recognizes it and feeds a format-violation observation back to the
// model instead of failing the turn.
const ActionError = "ERROR"

// Decision is one parsed loop iteration: the model's reasoning, the tool it
// selected, the input it supplied and, once the tool ran, the observation.
//
// Raw holds the literal decision text with "\nObservation: <text>" appended
// after the observation is attached; it is the unit replayed into future
// prompts. A Decision is append-only: once its observation is attached and
// it is pushed onto the turn context it is never edited.
type Decision struct {
	Thought     string      `json:"thought"`
	Action      string      `json:"action"`
	ActionInput ActionInput `json:"action_input"`
	Observation string      `json:"observation"`
	Raw         string      `json:"raw"`
}

// IsError reports whether this decision carries the parser's soft-failure
// sentinel rather than a usable action.
func (d Decision) IsError() bool { return d.Action == ActionError }

// FinalAnswer is the terminal artifact of a turn. Immutable after creation.
type FinalAnswer struct {
	Thought string   `json:"thought"`
	Answer  string   `json:"answer"`
	Picture []string `json:"picture"`
}

// TurnResult is the caller-facing outcome of one turn. SystemThoughts is the
// JSON-serialized context (the full reasoning trace), ImageList the picture
// references from the final answer.
type TurnResult struct {
	SystemResponse string   `json:"system_response"`
	SystemThoughts string   `json:"system_thoughts"`
	ImageList      []string `json:"image_list"`
}

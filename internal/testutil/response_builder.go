package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecisionText renders a marker-formatted tool decision the way a compliant
// model would emit it. Example:
//
//	resp := DecisionText("check forecast", "weather", `{"city": "Paris"}`)
func DecisionText(thought, action, input string) string {
	if input == "" {
		input = "{}"
	}
	return fmt.Sprintf("Thought: %s\nAction: %s\nAction Input: %s", thought, action, input)
}

// FinalAnswerText renders a marker-formatted terminal response carrying a
// JSON answer object with the given answer and picture list.
func FinalAnswerText(thought, answer string, pictures ...string) string {
	pics, _ := json.Marshal(append([]string{}, pictures...))
	ans, _ := json.Marshal(answer)
	return fmt.Sprintf("Thought: %s\nFinal Answer: {\"answer\": %s, \"picture\": %s}", thought, ans, pics)
}

// ObservationSuffix renders the observation continuation appended to a
// decision's replay form.
func ObservationSuffix(observation string) string {
	return "\nObservation: " + observation
}

// Gibberish returns response text guaranteed to carry none of the expected
// markers, for exercising format-violation recovery.
func Gibberish() string {
	return strings.Repeat("let me think about this differently. ", 2)
}

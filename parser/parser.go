// Package parser turns raw generation-service text into structured decisions.
// It implements a deliberately forgiving, layered strategy: strict marker and
// JSON parsing first, then a bounded brace-span extraction, then a verbatim
// string fallback. Marker failures never raise; they produce the ActionError
// sentinel so the orchestration loop can feed a correction back to the model.
package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/tidwall/gjson"
)

// DefaultApologyAnswer is substituted when a final answer object carries no
// usable "answer" field.
const DefaultApologyAnswer = "I'm sorry, I couldn't provide a valid answer."

// finalAnswerMarker is the literal token that flags a terminal response.
const finalAnswerMarker = "Final Answer:"

var (
	// ErrMalformedFinalAnswer indicates final-answer text from which no
	// structured answer could be extracted.
	ErrMalformedFinalAnswer = errors.New("malformed final answer")

	// ErrEmptyFinalAnswer indicates a "Final Answer:" marker followed by
	// nothing extractable.
	ErrEmptyFinalAnswer = errors.New("empty final answer")
)

// Marker patterns tolerate \r\n, \r and missing spaces after the colon.
var (
	thoughtActionRe = regexp.MustCompile(`(?s)Thought:\s*(.*?)\s*Action:`)
	actionInputRe   = regexp.MustCompile(`(?s)Action:\s*(.*?)\s*Action Input:`)
	inputTailRe     = regexp.MustCompile(`(?s)Action Input:\s*(.*)`)
	finalThoughtRe  = regexp.MustCompile(`(?s)Thought:\s*(.*?)\s*Final Answer:`)
)

// IsFinalAnswer reports whether text should be treated as a terminal
// response: either it contains the literal "Final Answer" marker or the text
// itself is a well-formed JSON value (models sometimes emit the bare answer
// object without any framing).
func IsFinalAnswer(text string) bool {
	if strings.Contains(text, "Final Answer") {
		return true
	}
	return gjson.Valid(strings.TrimSpace(text))
}

// ParseThoughtAction extracts the thought, action and action input from
// decision text. When either the thought or the action marker is absent it
// returns the soft-failure sentinel (Action == core.ActionError) with the
// original text preserved as the thought; it never returns an error.
func ParseThoughtAction(text string) core.Decision {
	thought := submatch(thoughtActionRe, text)
	action := submatch(actionInputRe, text)

	if thought == "" || action == "" {
		return core.Decision{
			Thought:     text,
			Action:      core.ActionError,
			ActionInput: core.EmptyInput(),
			Raw:         text,
		}
	}

	return core.Decision{
		Thought:     thought,
		Action:      action,
		ActionInput: parseActionInput(submatch(inputTailRe, text)),
		Raw:         text,
	}
}

// parseActionInput applies the three-tier fallback to raw action-input text:
// strict JSON parse, then outermost {...} span, then the verbatim string.
func parseActionInput(raw string) core.ActionInput {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" {
		return core.EmptyInput()
	}
	if gjson.Valid(raw) {
		return core.JSONInput(raw)
	}
	if span, ok := braceSpan(raw); ok && gjson.Valid(span) {
		return core.JSONInput(span)
	}
	return core.StringInput(raw)
}

// ParseFinalAnswer extracts the closing thought and the structured answer
// from terminal response text. The answer candidate is everything after the
// last "Final Answer:" occurrence, or the whole text when the marker is
// absent (the bare-JSON case). It returns ErrEmptyFinalAnswer when the
// candidate is empty and ErrMalformedFinalAnswer when a marker-less text
// yields no JSON at all.
func ParseFinalAnswer(text string) (core.FinalAnswer, error) {
	thought := submatch(finalThoughtRe, text)

	var candidate string
	hasMarker := strings.Contains(text, finalAnswerMarker)
	if hasMarker {
		parts := strings.Split(text, finalAnswerMarker)
		candidate = strings.TrimSpace(parts[len(parts)-1])
	} else {
		candidate = strings.TrimSpace(text)
	}

	if candidate == "" {
		return core.FinalAnswer{}, ErrEmptyFinalAnswer
	}

	if gjson.Valid(candidate) {
		return finalAnswerFromJSON(thought, candidate), nil
	}
	if span, ok := braceSpan(candidate); ok && gjson.Valid(span) {
		return finalAnswerFromJSON(thought, span), nil
	}
	if !hasMarker {
		// Without a marker the text was only a final-answer candidate
		// because it looked like JSON; if it is not, give the loop a
		// chance to reinterpret it as a thought/action decision.
		return core.FinalAnswer{}, ErrMalformedFinalAnswer
	}

	// Marker present but no JSON anywhere: keep the text as the answer.
	return core.FinalAnswer{Thought: thought, Answer: candidate, Picture: []string{}}, nil
}

// finalAnswerFromJSON maps a JSON document onto a FinalAnswer applying the
// documented defaults for missing fields.
func finalAnswerFromJSON(thought, doc string) core.FinalAnswer {
	fa := core.FinalAnswer{Thought: thought, Answer: DefaultApologyAnswer, Picture: []string{}}
	if answer := gjson.Get(doc, "answer"); answer.Exists() {
		fa.Answer = answer.String()
	}
	for _, p := range gjson.Get(doc, "picture").Array() {
		fa.Picture = append(fa.Picture, p.String())
	}
	return fa
}

// braceSpan returns the outermost {...} span of s, mirroring the greedy
// first-open to last-close extraction of the lenient JSON recovery path.
func braceSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func submatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

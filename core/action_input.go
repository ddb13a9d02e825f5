package core

import "encoding/json"

// ActionInput is the immutable argument value handed to a tool invocation.
// It wraps the raw action-input text produced by the output parser together
// with a flag recording whether that text is well-formed JSON. Accessors
// always decode into fresh values, so a tool can never mutate the loop
// state that produced the input.
type ActionInput struct {
	raw    string
	isJSON bool
}

// JSONInput wraps text already known to be valid JSON.
func JSONInput(raw string) ActionInput {
	return ActionInput{raw: raw, isJSON: true}
}

// StringInput wraps verbatim text that could not be parsed as JSON.
func StringInput(raw string) ActionInput {
	return ActionInput{raw: raw}
}

// EmptyInput returns the canonical empty object input.
func EmptyInput() ActionInput {
	return ActionInput{raw: "{}", isJSON: true}
}

// IsJSON reports whether the input carries structured JSON.
func (in ActionInput) IsJSON() bool { return in.isJSON }

// IsEmpty reports whether the input is empty or the empty object.
func (in ActionInput) IsEmpty() bool { return in.raw == "" || in.raw == "{}" }

// String returns the raw input text. For JSON inputs this is the original
// JSON document; for verbatim inputs the unparsed string.
func (in ActionInput) String() string { return in.raw }

// Decode unmarshals a JSON input into v. Verbatim string inputs decode only
// into *string targets.
func (in ActionInput) Decode(v interface{}) error {
	if !in.isJSON {
		if s, ok := v.(*string); ok {
			*s = in.raw
			return nil
		}
	}
	return json.Unmarshal([]byte(in.raw), v)
}

// Map returns the decoded object form of the input. Each call allocates a
// fresh map, so callers may freely mutate the result. Non-object inputs
// yield an empty map.
func (in ActionInput) Map() map[string]interface{} {
	if !in.isJSON {
		return map[string]interface{}{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(in.raw), &m); err != nil || m == nil {
		return map[string]interface{}{}
	}
	return m
}

// MarshalJSON renders the input as its JSON form, quoting verbatim strings.
func (in ActionInput) MarshalJSON() ([]byte, error) {
	if in.isJSON {
		return []byte(in.raw), nil
	}
	return json.Marshal(in.raw)
}

// Package condition implements the notification condition rule codec.
//
// A condition rule is the small tagged object stored on a task that the
// server evaluates against freshly fetched data to decide whether an SMS
// fires. The task form edits a rule through three loose inputs (a type
// selector, a field name, and a raw value string); this package owns the
// translation between those inputs and the single normalized rule object,
// and its JSON wire representation, so that every screen agrees on the
// exact same encoding.
package condition

import (
	"encoding/json"
	"strconv"
)

// Type is the discriminating tag of a condition rule.
type Type string

const (
	TypeAlways           Type = "always"
	TypeTotalOver        Type = "total_over"
	TypeTotalUnder       Type = "total_under"
	TypeFieldEquals      Type = "field_equals"
	TypeFieldContains    Type = "field_contains"
	TypeFieldGreaterThan Type = "field_greater_than"
	TypeFieldLessThan    Type = "field_less_than"
)

// Types lists every supported tag in the order the task form presents them.
var Types = []Type{
	TypeAlways,
	TypeTotalOver,
	TypeTotalUnder,
	TypeFieldEquals,
	TypeFieldContains,
	TypeFieldGreaterThan,
	TypeFieldLessThan,
}

// Rule is a notification condition. The tag determines which of the other
// members carry meaning: Number for the four numeric comparisons, Text for
// the two string comparisons, Field for every field-based tag, and nothing
// at all for TypeAlways.
type Rule struct {
	Type   Type
	Field  string
	Number float64
	Text   string
}

// usesNumber reports whether t compares against a numeric threshold.
func usesNumber(t Type) bool {
	switch t {
	case TypeTotalOver, TypeTotalUnder, TypeFieldGreaterThan, TypeFieldLessThan:
		return true
	}
	return false
}

// usesField reports whether t names a field of the fetched data sample.
func usesField(t Type) bool {
	switch t {
	case TypeFieldEquals, TypeFieldContains, TypeFieldGreaterThan, TypeFieldLessThan:
		return true
	}
	return false
}

// usesText reports whether t carries a raw string value.
func usesText(t Type) bool {
	switch t {
	case TypeFieldEquals, TypeFieldContains:
		return true
	}
	return false
}

// Build translates the task form's three condition inputs into a rule.
//
// The always tag ignores the other two inputs entirely. For numeric tags the
// value string is parsed as a float and silently falls back to 0 when empty
// or unparsable; the server already stores rules produced under that policy,
// so it must not be tightened here. Field names pass through untrimmed and
// unvalidated, and the numeric and string value branches are mutually
// exclusive by tag, so a rule is never partially built.
func Build(condType Type, field, value string) Rule {
	if condType == TypeAlways {
		return Rule{Type: TypeAlways}
	}

	r := Rule{Type: condType}
	if usesNumber(condType) {
		r.Number = parseNumber(value)
	}
	if usesField(condType) {
		r.Field = field
	}
	if usesText(condType) {
		r.Text = value
	}
	return r
}

// parseNumber parses a threshold input, defaulting to 0 on failure.
func parseNumber(s string) float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

// Inputs recovers the task form's three transient inputs from a stored
// rule, for seeding the editor when an existing task is loaded. Numeric
// values are formatted with the shortest exact representation, so a decode
// followed by Build reproduces an equal rule for anything within double
// precision. A rule whose tag is not recognized decodes as always, which is
// the display-safe default.
func (r Rule) Inputs() (condType Type, field, value string) {
	switch r.Type {
	case TypeAlways:
		return TypeAlways, "", ""
	case TypeTotalOver, TypeTotalUnder, TypeFieldGreaterThan, TypeFieldLessThan:
		return r.Type, r.Field, strconv.FormatFloat(r.Number, 'f', -1, 64)
	case TypeFieldEquals, TypeFieldContains:
		return r.Type, r.Field, r.Text
	}
	return TypeAlways, "", ""
}

// ruleJSON is the wire shape shared with the server: a type tag plus an
// optional field name and an optional value whose JSON type depends on the
// tag (number for threshold comparisons, string for text comparisons).
type ruleJSON struct {
	Type  string          `json:"type"`
	Field *string         `json:"field,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the rule exactly as the task payload contract
// requires: always carries only the tag, numeric tags a number value,
// string tags a string value, and field-based tags the field name.
func (r Rule) MarshalJSON() ([]byte, error) {
	out := ruleJSON{Type: string(r.Type)}

	switch r.Type {
	case TypeAlways:
		return json.Marshal(ruleJSON{Type: string(TypeAlways)})
	case TypeTotalOver, TypeTotalUnder:
		num, err := json.Marshal(r.Number)
		if err != nil {
			return nil, err
		}
		out.Value = num
	case TypeFieldEquals, TypeFieldContains:
		text, err := json.Marshal(r.Text)
		if err != nil {
			return nil, err
		}
		out.Field = &r.Field
		out.Value = text
	case TypeFieldGreaterThan, TypeFieldLessThan:
		num, err := json.Marshal(r.Number)
		if err != nil {
			return nil, err
		}
		out.Field = &r.Field
		out.Value = num
	default:
		// Unsupported tags are not produced by the form; render the
		// display-safe default rather than an invalid payload.
		return json.Marshal(ruleJSON{Type: string(TypeAlways)})
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a stored rule. A missing or unrecognized tag
// yields the always rule; a value of the wrong JSON type for its tag
// falls back to the tag's zero value rather than failing the whole task.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw ruleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch Type(raw.Type) {
	case TypeTotalOver, TypeTotalUnder:
		r.Type = Type(raw.Type)
		r.Field = ""
		r.Number = decodeNumber(raw.Value)
		r.Text = ""
	case TypeFieldEquals, TypeFieldContains:
		r.Type = Type(raw.Type)
		r.Field = decodeString(raw.Field)
		r.Number = 0
		r.Text = decodeText(raw.Value)
	case TypeFieldGreaterThan, TypeFieldLessThan:
		r.Type = Type(raw.Type)
		r.Field = decodeString(raw.Field)
		r.Number = decodeNumber(raw.Value)
		r.Text = ""
	default:
		*r = Rule{Type: TypeAlways}
	}
	return nil
}

func decodeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decodeNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	// Older rules occasionally stored the threshold as a string.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseNumber(s)
	}
	return 0
}

func decodeText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// Tolerate a numeric value stored under a string tag.
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

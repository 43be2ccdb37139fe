// Package normalize provides safe interpretation of free-form generated text
// as structured data. Extraction never fails hard: when the text cannot be
// parsed the raw input is carried through unchanged.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind declares the default injected for a missing required field.
type Kind int

// Field kinds for default injection
const (
	Object Kind = iota
	List
	Number
	Text
)

// Spec describes the expected shape of a generated JSON object.
type Spec struct {
	// Required maps field names to the kind of default injected when absent.
	Required map[string]Kind
	// Floats lists fields coerced to float64; coercion failure yields 0.0.
	Floats []string
}

// Result is the tagged outcome of normalization: either a parsed object or
// the unmodified raw text (fallback mode).
type Result struct {
	parsed map[string]any
	raw    string
}

// Parsed wraps an already-structured object as a Result.
func Parsed(obj map[string]any) Result {
	return Result{parsed: obj}
}

// Unparsed wraps raw text as a fallback-mode Result.
func Unparsed(raw string) Result {
	return Result{raw: raw}
}

// IsParsed reports whether normalization produced a structured object.
func (r Result) IsParsed() bool {
	return r.parsed != nil
}

// Object returns the parsed object, or nil in fallback mode.
func (r Result) Object() map[string]any {
	return r.parsed
}

// Text returns the canonical serialized form of the normalized object, or
// the raw input byte-for-byte in fallback mode.
func (r Result) Text() string {
	if r.parsed == nil {
		return r.raw
	}
	b, err := json.Marshal(r.parsed)
	if err != nil {
		return r.raw
	}
	return string(b)
}

// Value returns the parsed object when available, otherwise the raw text.
// This is the "parsed-safe" form embedded in result envelopes.
func (r Result) Value() any {
	if r.parsed != nil {
		return r.parsed
	}
	return r.raw
}

// Normalize locates the first '{' and last '}' in raw, parses the bounded
// substring, injects declared defaults for missing required fields, and
// coerces declared float fields. Any failure returns raw unchanged.
func Normalize(raw string, spec Spec) Result {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return Result{raw: raw}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err != nil || obj == nil {
		return Result{raw: raw}
	}

	for field, kind := range spec.Required {
		if _, ok := obj[field]; !ok {
			obj[field] = defaultFor(kind)
		}
	}

	for _, field := range spec.Floats {
		obj[field] = coerceFloat(obj[field])
	}

	return Result{parsed: obj, raw: raw}
}

// defaultFor returns the zero value injected for a missing field
func defaultFor(kind Kind) any {
	switch kind {
	case Object:
		return map[string]any{}
	case List:
		return []any{}
	case Number:
		return 0.0
	default:
		return ""
	}
}

// coerceFloat forces a value to float64, substituting 0.0 on failure
func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0.0
		}
		return f
	default:
		return 0.0
	}
}

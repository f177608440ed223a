package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// datePattern is a prefix match: trailing time components are allowed.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// decodeArray parses content and requires the top-level value to be an array.
// Numbers are kept as json.Number until a field helper interprets them.
func decodeArray(content string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotArray, typeName(doc))
	}
	return items, nil
}

// present reports whether v counts as supplied: null, empty strings,
// zero numbers, false and empty containers do not.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case bool:
		return t
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func missingFields(item map[string]any, fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if !present(item[f]) {
			missing = append(missing, f)
		}
	}
	return missing
}

// identifier accepts string and numeric ids and normalises them to strings.
func identifier(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// text renders a value meant to be a string; nil becomes "".
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(normalize(t))
	}
}

// number accepts JSON numbers and numeric strings.
func number(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// date returns v when it is a string that starts with YYYY-MM-DD.
func date(v any) (*string, bool) {
	s, ok := v.(string)
	if !ok || !datePattern.MatchString(s) {
		return nil, false
	}
	return &s, true
}

// object returns v as a mapping with numbers converted to int64 or float64,
// or nil when v is not an object.
func object(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return normalize(m).(map[string]any)
}

func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

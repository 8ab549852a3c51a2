// Package accessor provides total lookup and coercion primitives over provider records.
//
// Provider payloads are decoded into plain nested maps. Nothing about their shape can be
// trusted, so every function here returns the caller's default instead of failing.
package accessor

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// PathSeparator separates segments in a lookup path such as "building.rooms.beds".
const PathSeparator = "."

// GetPath walks a dotted key path through nested maps.
// It returns def when a segment is missing, a non-terminal value is not a map,
// or the terminal value is nil or an empty string.
func GetPath(record map[string]any, path string, def any) any {
	if record == nil || path == "" {
		return def
	}

	var current any = record

	for _, key := range strings.Split(path, PathSeparator) {
		node, ok := current.(map[string]any)
		if !ok {
			return def
		}

		value, found := node[key]
		if !found {
			return def
		}

		current = value
	}

	if current == nil {
		return def
	}

	if s, ok := current.(string); ok && s == "" {
		return def
	}

	return current
}

// GetMap returns the sub-record at path, or false when it is absent or not a map.
func GetMap(record map[string]any, path string) (map[string]any, bool) {
	node, ok := GetPath(record, path, nil).(map[string]any)

	return node, ok
}

// GetString is GetPath followed by ToString.
func GetString(record map[string]any, path, def string) string {
	return ToString(GetPath(record, path, nil), def)
}

// GetInt is GetPath followed by ToInt.
func GetInt(record map[string]any, path string, def int) int {
	return ToInt(GetPath(record, path, nil), def)
}

// GetFloat is GetPath followed by ToFloat.
func GetFloat(record map[string]any, path string, def float64) float64 {
	return ToFloat(GetPath(record, path, nil), def)
}

// ToInt coerces numbers and numeric strings to int. Fractional numbers are truncated;
// fractional strings are rejected.
func ToInt(value any, def int) int {
	switch v := value.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float32:
		return floatToInt(float64(v), def)
	case float64:
		return floatToInt(v, def)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}

		f, err := v.Float64()
		if err != nil {
			return def
		}

		return floatToInt(f, def)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return def
		}

		return i
	default:
		return def
	}
}

// ToFloat coerces numbers and numeric strings to float64. NaN and infinities are rejected.
func ToFloat(value any, def float64) float64 {
	var f float64

	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return def
		}

		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}

		f = parsed
	default:
		return def
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}

	return f
}

// ToString renders scalar values as text. Maps, slices and nil yield def.
func ToString(value any, def string) string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return def
		}

		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return def
	}
}

func floatToInt(f float64, def int) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return def
	}

	return int(f)
}

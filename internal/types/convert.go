package types

import (
	"encoding/json"
	"strconv"
)

// ToID converts a scalar decoded from a stored document into an id string.
// Supports string, []byte, json.Number, float64, the integer kinds and bool.
// The second result is false for nil and for non-scalar values.
func ToID(v interface{}) (string, bool) {
	switch i := v.(type) {
	case string:
		return i, true
	case []byte:
		return string(i), true
	case json.Number:
		return i.String(), true
	case float64:
		return strconv.FormatFloat(i, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(i), 'f', -1, 32), true
	case int64:
		return strconv.FormatInt(i, 10), true
	case int:
		return strconv.Itoa(i), true
	case int32:
		return strconv.FormatInt(int64(i), 10), true
	case uint64:
		return strconv.FormatUint(i, 10), true
	case uint32:
		return strconv.FormatUint(uint64(i), 10), true
	case bool:
		return strconv.FormatBool(i), true
	default:
		return "", false
	}
}

// ToOptional converts a scalar to an optional string, nil when ToID fails.
func ToOptional(v interface{}) *string {
	s, ok := ToID(v)
	if !ok {
		return nil
	}
	return &s
}

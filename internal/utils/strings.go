package utils

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

const (
	// DefaultMaxStringLength is the default maximum length for truncated strings
	DefaultMaxStringLength = 500
)

// JSONToString serialises object to JSON, pretty-printed when indent is true.
// On failure it returns a JSON error object instead, so the result is always
// safe to print.
func JSONToString(object interface{}, indent ...bool) string {
	var encoded []byte
	var err error
	if len(indent) > 0 && indent[0] {
		encoded, err = json.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = json.Marshal(object)
	}
	if err != nil {
		return "{\"error\": \"failed to marshal to JSON: " + err.Error() + "\"}"
	}
	return string(encoded)
}

// TruncateString shortens s to at most maxLen characters and records the
// original length. It never splits a multi-byte character. A non-positive
// maxLen means DefaultMaxStringLength.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	total := utf8.RuneCountInString(s)
	if total <= maxLen {
		return s
	}
	cut, runes := 0, 0
	for i := range s {
		if runes == maxLen {
			cut = i
			break
		}
		runes++
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], total)
}

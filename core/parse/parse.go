package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNotAnObject is returned by ParseArguments when the payload decodes to
// something other than a JSON object.
var ErrNotAnObject = errors.New("arguments are not a JSON object")

// ParseStringAs attempts to parse a string into the specified type T.
// Primitive kinds (string, bool, int, uint, float) are converted directly.
// Complex kinds (structs, maps, slices) are JSON-decoded; when decoding fails
// the content is repaired with jsonrepair and decoded again, and as a last
// resort schema-like {"type": ..., "value": ...} wrappers are unwrapped.
//
// Example usage:
//
//	// Parse a valid JSON string
//	ops, err := ParseStringAs[Operands](`{"a":21,"b":43}`)
//
//	// Parse an invalid JSON string (will be auto-repaired)
//	ops, err := ParseStringAs[Operands](`{a: 21, b: 43,}`)
//
//	// Parse primitive types
//	num, err := ParseStringAs[float64]("3.2")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		target.SetString(content)
		return result, nil

	case reflect.Bool:
		val, err := strconv.ParseBool(strings.TrimSpace(content))
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		target.SetBool(val)
		return result, nil

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(val)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		target.SetInt(val)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as uint: %w", err)
		}
		target.SetUint(val)
		return result, nil

	default:
		err := json.Unmarshal([]byte(content), &result)
		if err == nil {
			return result, nil
		}

		repairedJSON, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
		}

		// The repaired text is decoded into a fresh value so that a partial
		// first decode does not leak into the result.
		var repaired T
		if err = json.Unmarshal([]byte(repairedJSON), &repaired); err == nil {
			return repaired, nil
		}

		// LLMs sometimes echo the schema shape instead of plain values.
		if unwrapped, unwrapErr := unwrapSchemaValues(repairedJSON); unwrapErr == nil {
			var fromUnwrapped T
			if json.Unmarshal([]byte(unwrapped), &fromUnwrapped) == nil {
				return fromUnwrapped, nil
			}
		}

		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (original content: %s, repaired: %s)", result, err, content, repairedJSON)
	}
}

// ParseArguments decodes a tool-call argument payload into an object.
// An empty payload yields an empty object; anything that is not an object
// after repair is rejected with ErrNotAnObject.
func ParseArguments(content string) (map[string]any, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return map[string]any{}, nil
	}

	args, err := ParseStringAs[map[string]any](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnObject, err)
	}
	if args == nil {
		return nil, ErrNotAnObject
	}
	return args, nil
}

// unwrapSchemaValues rewrites values wrapped as {"type": "...", "value": x}
// into plain x, recursively.
//
// Example input:
//
//	{"a": {"type": "number", "value": 21}, "b": {"type": "number", "value": 43}}
//
// Example output:
//
//	{"a": 21, "b": 43}
func unwrapSchemaValues(jsonStr string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", err
	}

	result, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", err
	}
	return string(result), nil
}

func recursiveUnwrap(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return recursiveUnwrap(value)
			}
		}

		result := make(map[string]interface{}, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result

	case []interface{}:
		result := make([]interface{}, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result

	default:
		return data
	}
}

package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema represents the subset of JSON Schema used to describe tool arguments.
// It is serialized verbatim into backend requests and is also the document
// evaluated by [Validate] before a tool is invoked.
type Schema struct {
	//  Type Specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of the arguments, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties: Controls whether properties not defined in Properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Enum contains the list of allowed values for the parameter
	Enum []any `json:"enum,omitempty"`
	// Minimum and Maximum are inclusive numeric bounds
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
}

// GenerateJSONSchema derives a Schema from the Go type T.
// Struct fields are described by their json tag name; the jsonschema tag adds
// constraints (see parseJSONSchemaTag). Recursive struct types are rejected.
func GenerateJSONSchema[T any]() (*Schema, error) {
	return generate(reflect.TypeOf((*T)(nil)).Elem(), map[reflect.Type]bool{})
}

// MustGenerateJSONSchema is like GenerateJSONSchema but panics on error.
// It is intended for package-level tool definitions whose types are fixed at
// compile time.
func MustGenerateJSONSchema[T any]() *Schema {
	schema, err := GenerateJSONSchema[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

func generate(t reflect.Type, visiting map[reflect.Type]bool) (*Schema, error) {
	switch t.Kind() {
	case reflect.Ptr:
		return generate(t.Elem(), visiting)
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Slice, reflect.Array:
		items, err := generate(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		values, err := generate(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Struct:
		return generateStruct(t, visiting)
	default:
		return &Schema{Type: "object"}, nil
	}
}

func generateStruct(t reflect.Type, visiting map[reflect.Type]bool) (*Schema, error) {
	if visiting[t] {
		return nil, fmt.Errorf("recursive type %s is not supported", t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	schema := &Schema{Type: "object", Properties: map[string]*Schema{}}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldName, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fieldSchema, err := generate(field.Type, visiting)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fieldName, err)
		}

		requiredByTag, err := parseJSONSchemaTag(field.Type, field.Tag, fieldSchema)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fieldName, err)
		}

		schema.Properties[fieldName] = fieldSchema
		// A field is required when it is explicitly tagged, or when it is a
		// non-pointer without omitempty.
		if requiredByTag || (field.Type.Kind() != reflect.Ptr && !omitEmpty) {
			schema.Required = append(schema.Required, fieldName)
		}
	}

	return schema, nil
}

func jsonFieldName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "-" {
		return "", false, true
	}

	name = field.Name
	if jsonTag == "" {
		return name, false, false
	}

	if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
		if commaIdx > 0 {
			name = jsonTag[:commaIdx]
		}
		omitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
		return name, omitEmpty, false
	}
	return jsonTag, false, false
}

// parseJSONSchemaTag parses the jsonschema struct tag and applies it to schema.
// Supported keys:
//  1. description=xxx
//  2. enum=xxx (repeatable; values are converted to the field's kind)
//  3. minimum=N, maximum=N (numeric fields only)
//  4. required
//
// NOTE: values cannot contain commas.
func parseJSONSchemaTag(fieldType reflect.Type, tag reflect.StructTag, schema *Schema) (bool, error) {
	jsonSchemaTag := tag.Get("jsonschema")
	if len(jsonSchemaTag) == 0 {
		return false, nil
	}

	for fieldType.Kind() == reflect.Ptr {
		fieldType = fieldType.Elem()
	}

	isRequiredByTag := false
	for _, tagItem := range strings.Split(jsonSchemaTag, ",") {
		key, value, hasValue := strings.Cut(tagItem, "=")
		if !hasValue {
			if key == "required" {
				isRequiredByTag = true
			}
			continue
		}

		switch key {
		case "description":
			schema.Description = value
		case "enum":
			v, err := convertScalar(fieldType, value)
			if err != nil {
				return false, fmt.Errorf("enum: %w", err)
			}
			schema.Enum = append(schema.Enum, v)
		case "minimum", "maximum":
			if schema.Type != "number" && schema.Type != "integer" {
				return false, fmt.Errorf("%s tag unsupported for field type: %v", key, fieldType)
			}
			bound, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return false, fmt.Errorf("parse %s value %v failed: %w", key, value, err)
			}
			if key == "minimum" {
				schema.Minimum = &bound
			} else {
				schema.Maximum = &bound
			}
		}
	}

	return isRequiredByTag, nil
}

func convertScalar(fieldType reflect.Type, value string) (any, error) {
	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse value %v to int64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse value %v to float64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("parse value %v to bool failed: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported field type: %v", fieldType)
	}
}

// JsonString converts the Schema to its JSON representation.
// indent: optional bool parameter. If true, formats JSON with indentation.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var (
		jsonBytes []byte
		err       error
	)

	if len(indent) > 0 && indent[0] {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema.
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}

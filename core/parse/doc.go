// Package parse converts raw model output into Go values. Language models
// frequently emit almost-JSON: single quotes, trailing commas, unquoted keys,
// or schema-style {"type", "value"} envelopes. This package repairs such
// payloads with github.com/kaptinlin/jsonrepair before giving up.
//
// [ParseStringAs] handles primitives and complex types in one generic API;
// [ParseArguments] is the entry point for tool-call argument objects.
package parse

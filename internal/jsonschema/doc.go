// Package jsonschema generates JSON Schema documents from Go types using
// reflection and validates decoded argument objects against them.
//
// [GenerateJSONSchema] derives a [Schema] from a struct type; the jsonschema
// struct tag adds descriptions, enums, numeric bounds and required markers.
// [Validate] evaluates a document with github.com/xeipuuv/gojsonschema and
// reports every violation in a [ValidationError].
package jsonschema

// Package tool defines typed tools and the fixed registry the agent loop
// dispatches to.
//
// A [Tool] wraps a Go function whose input struct doubles as the parameter
// schema; see [NewTool]. A [Registry] is built once from a fixed set of tools
// and offers lookup-or-fail by name. Failures the loop recovers from are
// reported with the sentinels [ErrToolNotFound], [ErrInvalidArguments] and
// [ErrArithmetic].
package tool

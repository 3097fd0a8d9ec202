// Package arithmetic provides the four binary arithmetic tools exposed to
// the model: add, subtract, multiply and divide.
package arithmetic

import (
	"context"
	"fmt"
	"math"

	"github.com/leofalp/toolloop/providers/tool"
)

// Operands is the argument object of every arithmetic tool. Both operands
// must be numbers no smaller than 1.
type Operands struct {
	A float64 `json:"a" jsonschema:"description=First Number,minimum=1,required"`
	B float64 `json:"b" jsonschema:"description=Second Number,minimum=1,required"`
}

// Tool names as registered and advertised.
const (
	NameAdd      = "add"
	NameSubtract = "subtract"
	NameMultiply = "multiply"
	NameDivide   = "divide"
)

// Add returns a + b.
func Add(_ context.Context, in Operands) (float64, error) {
	return finite(in.A + in.B)
}

// Subtract returns a - b.
func Subtract(_ context.Context, in Operands) (float64, error) {
	return finite(in.A - in.B)
}

// Multiply returns a * b.
func Multiply(_ context.Context, in Operands) (float64, error) {
	return finite(in.A * in.B)
}

// Divide returns a / b, or an error wrapping tool.ErrArithmetic when b is 0.
func Divide(_ context.Context, in Operands) (float64, error) {
	if in.B == 0 {
		return 0, fmt.Errorf("%w: division by zero", tool.ErrArithmetic)
	}
	return finite(in.A / in.B)
}

// finite rejects results that JSON cannot carry.
func finite(result float64) (float64, error) {
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, fmt.Errorf("%w: result overflows", tool.ErrArithmetic)
	}
	return result, nil
}

// Tools returns fresh instances of the four arithmetic tools.
func Tools() []tool.GenericTool {
	return []tool.GenericTool{
		tool.NewTool(NameAdd, Add, tool.WithDescription("Add two numbers.")),
		tool.NewTool(NameSubtract, Subtract, tool.WithDescription("Subtract two numbers.")),
		tool.NewTool(NameMultiply, Multiply, tool.WithDescription("Multiply two numbers.")),
		tool.NewTool(NameDivide, Divide, tool.WithDescription("Divide two numbers.")),
	}
}

// Registry returns a registry holding exactly the arithmetic tools.
func Registry() *tool.Registry {
	return tool.MustNewRegistry(Tools()...)
}

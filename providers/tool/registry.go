package tool

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leofalp/toolloop/providers/ai"
)

// Registry is the fixed mapping from tool name to tool. It is built once and
// never modified, so it is safe for concurrent lookups without locking.
type Registry struct {
	tools map[string]GenericTool
	names []string
}

// NewRegistry builds a registry from tools. Names are matched exactly; an
// empty or repeated name is an error.
func NewRegistry(tools ...GenericTool) (*Registry, error) {
	r := &Registry{tools: make(map[string]GenericTool, len(tools))}
	for _, t := range tools {
		name := t.ToolInfo().Name
		if name == "" {
			return nil, errors.New("tool with empty name")
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, name)
		}
		r.tools[name] = t
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(tools ...GenericTool) *Registry {
	r, err := NewRegistry(tools...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the tool registered under name, or an error wrapping
// ErrToolNotFound whose message reads "unknown tool: <name>".
func (r *Registry) Lookup(name string) (GenericTool, error) {
	if r != nil {
		if t, ok := r.tools[name]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tools)
}

// Descriptions returns the advertised view of every tool, sorted by name so
// that backend requests are deterministic.
func (r *Registry) Descriptions() []ai.ToolDescription {
	if r == nil {
		return nil
	}
	out := make([]ai.ToolDescription, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.tools[name].ToolInfo())
	}
	return out
}

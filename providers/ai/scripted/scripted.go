// Package scripted provides a deterministic ai.Provider that replays a fixed
// sequence of assistant turns. It backs the offline mode of the CLI and the
// loop tests. Scripts can be built in code with [New] or read from YAML with
// [Load] and [LoadFile].
package scripted

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/toolloop/core/parse"
	"github.com/leofalp/toolloop/providers/ai"
)

// ErrScriptExhausted is returned once every step has been replayed.
var ErrScriptExhausted = errors.New("script exhausted")

// Step is one scripted assistant turn. When Err is set the turn fails with
// it instead of answering.
type Step struct {
	Content   string        `yaml:"content,omitempty"`
	ToolCalls []ai.ToolCall `yaml:"tool_calls,omitempty"`
	Usage     *ai.Usage     `yaml:"usage,omitempty"`
	// Error, when non-empty in a YAML script, becomes Err.
	Error string `yaml:"error,omitempty"`
	Err   error  `yaml:"-"`
}

type script struct {
	Model string `yaml:"model,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Provider replays steps in order, one per SendMessage call.
type Provider struct {
	model string

	mu       sync.Mutex
	index    int
	steps    []Step
	requests []ai.ChatRequest
}

var _ ai.Provider = (*Provider)(nil)

// New returns a provider replaying steps.
func New(steps ...Step) *Provider {
	cloned := make([]Step, len(steps))
	copy(cloned, steps)
	return &Provider{model: "scripted", steps: cloned}
}

// Load reads a YAML script of the form
//
//	model: scripted-arithmetic
//	steps:
//	  - tool_calls:
//	      - id: call_1
//	        name: add
//	        arguments: {a: 21, b: 43}
//	  - content: The result is 3.2.
func Load(r io.Reader) (*Provider, error) {
	var s script
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("decode script: no steps")
	}

	for i := range s.Steps {
		step := &s.Steps[i]
		if step.Error != "" {
			step.Err = errors.New(step.Error)
		}
		for j := range step.ToolCalls {
			args, err := normalizeArguments(step.ToolCalls[j].Arguments)
			if err != nil {
				return nil, fmt.Errorf("step %d, tool call %d: %w", i+1, j+1, err)
			}
			step.ToolCalls[j].Arguments = args
		}
	}

	p := New(s.Steps...)
	if s.Model != "" {
		p.model = s.Model
	}
	return p, nil
}

// LoadFile reads a YAML script from path.
func LoadFile(path string) (*Provider, error) {
	f, err := os.Open(path) // #nosec G304 -- path is chosen by the operator
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// normalizeArguments round-trips YAML-decoded arguments through JSON so that
// numbers arrive as float64, exactly as they do from an HTTP backend.
func normalizeArguments(args map[string]any) (map[string]any, error) {
	if args == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	return parse.ParseArguments(string(raw))
}

// SendMessage records request and returns the next step.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, cloneRequest(request))
	if p.index >= len(p.steps) {
		return nil, fmt.Errorf("%w at step %d", ErrScriptExhausted, p.index+1)
	}
	step := p.steps[p.index]
	p.index++
	if step.Err != nil {
		return nil, step.Err
	}

	resp := &ai.ChatResponse{
		Id:           fmt.Sprintf("scripted-%d", p.index),
		Model:        p.model,
		Content:      step.Content,
		FinishReason: "stop",
	}
	if len(step.ToolCalls) > 0 {
		resp.FinishReason = "tool_calls"
		resp.ToolCalls = make([]ai.ToolCall, len(step.ToolCalls))
		for i, call := range step.ToolCalls {
			call = call.Clone()
			if call.ID == "" {
				call.ID = "call_" + uuid.NewString()
			}
			resp.ToolCalls[i] = call
		}
	}
	if step.Usage != nil {
		usage := *step.Usage
		resp.Usage = &usage
	}
	return resp, nil
}

// Requests returns a copy of every request received so far.
func (p *Provider) Requests() []ai.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ai.ChatRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// Remaining returns the number of steps not yet replayed.
func (p *Provider) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.steps) - p.index
}

func cloneRequest(request ai.ChatRequest) ai.ChatRequest {
	out := request
	out.Messages = make([]ai.Message, len(request.Messages))
	for i, m := range request.Messages {
		out.Messages[i] = m.Clone()
	}
	out.Tools = append([]ai.ToolDescription(nil), request.Tools...)
	return out
}

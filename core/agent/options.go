package agent

import (
	"github.com/leofalp/toolloop/providers/observability"
)

const (
	// DefaultSystemPrompt is the system message of a run unless overridden.
	DefaultSystemPrompt = "You are a helpful assistant tasked with performing arithmetic on a set of inputs."

	// DefaultMaxRounds bounds the number of decision steps of one run.
	DefaultMaxRounds = 25
)

// Option configures an Agent.
type Option func(*config)

type config struct {
	systemPrompt    string
	model           string
	maxRounds       int
	maxTotalTokens  int
	toolConcurrency int
	observer        observability.Provider
}

func defaultConfig() config {
	return config{
		systemPrompt:    DefaultSystemPrompt,
		maxRounds:       DefaultMaxRounds,
		toolConcurrency: 1,
		observer:        observability.Noop(),
	}
}

// WithSystemPrompt sets the content of the system message that opens every run.
func WithSystemPrompt(prompt string) Option {
	return func(c *config) {
		c.systemPrompt = prompt
	}
}

// WithModel sets the model name forwarded to the backend. An empty model
// leaves the choice to the backend.
func WithModel(model string) Option {
	return func(c *config) {
		c.model = model
	}
}

// WithMaxRounds caps the number of decision steps per run. When the cap is
// reached with tool calls still pending the run ends with
// OutcomeBudgetExceeded. Zero disables the cap.
func WithMaxRounds(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxRounds = n
		}
	}
}

// WithMaxTotalTokens ends a run with OutcomeBudgetExceeded once the total
// tokens reported by the backend reach n. Zero disables the budget.
func WithMaxTotalTokens(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxTotalTokens = n
		}
	}
}

// WithToolConcurrency lets the action step run up to n tool calls of one
// batch in parallel. Values below 2 keep execution sequential. Results are
// always appended in request order.
func WithToolConcurrency(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.toolConcurrency = n
	}
}

// WithObserver sets the observability provider for spans, metrics and logs.
func WithObserver(observer observability.Provider) Option {
	return func(c *config) {
		if observer != nil {
			c.observer = observer
		}
	}
}

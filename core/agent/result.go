package agent

import (
	"fmt"

	"github.com/leofalp/toolloop/providers/ai"
)

// Outcome tells how a run terminated.
type Outcome int

const (
	// OutcomeCompleted means the model answered without requesting tools.
	OutcomeCompleted Outcome = iota
	// OutcomeCancelled means the context was done before the run completed.
	OutcomeCancelled
	// OutcomeBudgetExceeded means the round or token budget ran out.
	OutcomeBudgetExceeded
)

var outcomeNames = map[Outcome]string{
	OutcomeCompleted:      "completed",
	OutcomeCancelled:      "cancelled",
	OutcomeBudgetExceeded: "budget_exceeded",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText encodes the outcome by name in JSON and YAML transcripts.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	for outcome, name := range outcomeNames {
		if name == string(text) {
			*o = outcome
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// Result is what a run returns: the full transcript, including the system
// message, and how it ended.
type Result struct {
	RunID    string       `json:"run_id" yaml:"run_id"`
	Outcome  Outcome      `json:"outcome" yaml:"outcome"`
	Rounds   int          `json:"rounds" yaml:"rounds"`
	Usage    ai.Usage     `json:"usage" yaml:"usage"`
	Messages []ai.Message `json:"messages" yaml:"messages"`
}

// FinalMessage returns the last assistant message of the transcript.
func (r *Result) FinalMessage() (ai.Message, bool) {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == ai.RoleAssistant {
			return r.Messages[i], true
		}
	}
	return ai.Message{}, false
}

// ToolRounds counts the assistant messages that requested tools.
func (r *Result) ToolRounds() int {
	n := 0
	for _, m := range r.Messages {
		if m.HasToolCalls() {
			n++
		}
	}
	return n
}

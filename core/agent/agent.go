package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/tool"
)

// State is a state of the loop driver.
type State int

const (
	StateStart State = iota
	StateAwaitingDecision
	StateAwaitingAction
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateAwaitingDecision:
		return "awaiting_decision"
	case StateAwaitingAction:
		return "awaiting_action"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Agent drives the decision/action loop against one backend and one fixed
// tool registry. An Agent holds no per-run state and may be used for
// concurrent runs.
type Agent struct {
	provider ai.Provider
	registry *tool.Registry
	tools    []ai.ToolDescription
	cfg      config
}

// New creates an Agent. The registry's tool descriptions are resolved once
// here and sent unchanged with every decision.
func New(provider ai.Provider, registry *tool.Registry, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, errors.New("agent: provider is required")
	}
	if registry == nil {
		return nil, errors.New("agent: tool registry is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Agent{
		provider: provider,
		registry: registry,
		tools:    registry.Descriptions(),
		cfg:      cfg,
	}, nil
}

// Run executes the loop until the model stops requesting tools, the context
// is done, or a budget is exhausted. initial must hold at least one message
// and only user messages. The returned transcript starts with the system
// message.
//
// Cancellation and budget exhaustion are not errors: Run returns the partial
// transcript with OutcomeCancelled or OutcomeBudgetExceeded. The only error
// raised after input validation is *BackendError.
func (a *Agent) Run(ctx context.Context, initial ...ai.Message) (*Result, error) {
	if err := validateInput(initial); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{RunID: uuid.NewString()}

	ctx, span := a.cfg.observer.StartSpan(ctx, observability.SpanAgentRun,
		observability.String(observability.AttrAgentRunID, result.RunID),
		observability.String(observability.AttrLLMModel, a.cfg.model),
	)
	defer span.End()

	state := NewConversationState(ai.NewSystemMessage(a.cfg.systemPrompt), initial...)
	current := StateStart
	transition := func(next State) {
		span.AddEvent(observability.EventStateTransition,
			observability.String(observability.AttrAgentState, next.String()),
			observability.Int(observability.AttrAgentMessages, state.Version()),
		)
		current = next
	}
	transition(StateAwaitingDecision)

	for current != StateTerminated {
		switch current {
		case StateAwaitingDecision:
			if ctx.Err() != nil {
				result.Outcome = OutcomeCancelled
				transition(StateTerminated)
				continue
			}
			if a.budgetExhausted(result) {
				result.Outcome = OutcomeBudgetExceeded
				transition(StateTerminated)
				continue
			}

			result.Rounds++
			a.cfg.observer.Counter(observability.MetricAgentRounds).Add(ctx, 1)

			resp, err := a.decide(ctx, state.Messages(), result.Rounds)
			if err != nil {
				if ctx.Err() != nil {
					result.Outcome = OutcomeCancelled
					transition(StateTerminated)
					continue
				}
				span.RecordError(err)
				span.SetStatus(observability.StatusError, "decision failed")
				a.cfg.observer.Error(ctx, "agent run failed",
					observability.String(observability.AttrAgentRunID, result.RunID),
					observability.Int(observability.AttrAgentRound, result.Rounds),
					observability.Error(err),
				)
				return nil, err
			}
			result.Usage.Add(resp.Usage)

			message := resp.Message()
			state.Append(message)

			decision := Route(message)
			span.AddEvent(observability.EventStateTransition,
				observability.String(observability.AttrAgentRoute, decision.String()),
				observability.Int(observability.AttrAgentRound, result.Rounds),
			)
			switch decision {
			case Continue:
				transition(StateAwaitingAction)
			case End:
				result.Outcome = OutcomeCompleted
				transition(StateTerminated)
			}

		case StateAwaitingAction:
			if ctx.Err() != nil {
				result.Outcome = OutcomeCancelled
				transition(StateTerminated)
				continue
			}
			last, _ := state.Last()
			state.Append(a.Act(ctx, last.ToolCalls)...)
			transition(StateAwaitingDecision)
		}
	}

	result.Messages = state.Messages()

	elapsed := time.Since(start)
	a.cfg.observer.Histogram(observability.MetricAgentRunDuration).Record(ctx, float64(elapsed.Milliseconds()),
		observability.String(observability.AttrAgentOutcome, result.Outcome.String()),
	)
	span.SetAttributes(
		observability.String(observability.AttrAgentOutcome, result.Outcome.String()),
		observability.Int(observability.AttrAgentRound, result.Rounds),
		observability.Int(observability.AttrLLMTokensTotal, result.Usage.TotalTokens),
	)
	span.SetStatus(observability.StatusOK, "")

	a.cfg.observer.Info(ctx, "agent run finished",
		observability.String(observability.AttrAgentRunID, result.RunID),
		observability.String(observability.AttrAgentOutcome, result.Outcome.String()),
		observability.Int(observability.AttrAgentRound, result.Rounds),
		observability.Duration(observability.AttrDuration, elapsed),
	)
	return result, nil
}

// budgetExhausted reports whether another decision would exceed a budget.
func (a *Agent) budgetExhausted(result *Result) bool {
	if a.cfg.maxRounds > 0 && result.Rounds >= a.cfg.maxRounds {
		return true
	}
	if a.cfg.maxTotalTokens > 0 && result.Usage.TotalTokens >= a.cfg.maxTotalTokens {
		return true
	}
	return false
}

func validateInput(initial []ai.Message) error {
	if len(initial) == 0 {
		return ErrInvalidInput
	}
	for i, m := range initial {
		if m.Role != ai.RoleUser {
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidInput, i, m.Role)
		}
	}
	return nil
}

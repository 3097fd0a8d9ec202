package agent

import (
	"context"
	"fmt"

	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/observability"
)

// Decide sends history and the registry's tool descriptions to the backend
// and returns the assistant message it produced, content and tool calls
// untouched. history must start with exactly one system message and is not
// modified. A backend failure is returned as *BackendError.
func (a *Agent) Decide(ctx context.Context, history []ai.Message) (ai.Message, error) {
	resp, err := a.decide(ctx, history, 0)
	if err != nil {
		return ai.Message{}, err
	}
	return resp.Message(), nil
}

func (a *Agent) decide(ctx context.Context, history []ai.Message, round int) (*ai.ChatResponse, error) {
	if err := validateHistory(history); err != nil {
		return nil, err
	}

	ctx, span := a.cfg.observer.StartSpan(ctx, observability.SpanAgentDecide,
		observability.Int(observability.AttrAgentRound, round),
		observability.Int(observability.AttrAgentMessages, len(history)),
	)
	defer span.End()

	request := ai.ChatRequest{
		Model:        a.cfg.model,
		SystemPrompt: history[0].Content,
		Messages:     make([]ai.Message, 0, len(history)-1),
		Tools:        a.tools,
	}
	for _, m := range history[1:] {
		request.Messages = append(request.Messages, m.Clone())
	}

	resp, err := a.provider.SendMessage(ctx, request)
	if err == nil && resp == nil {
		err = ErrNilResponse
	}
	if err == nil {
		err = validateToolCalls(resp.ToolCalls)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "backend call failed")
		return nil, &BackendError{Cause: err}
	}

	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMResponseID, resp.Id),
		observability.String(observability.AttrLLMFinishReason, resp.FinishReason),
		observability.Int(observability.AttrAgentToolCalls, len(resp.ToolCalls)),
	}
	if resp.Usage != nil {
		attrs = append(attrs, observability.Int(observability.AttrLLMTokensTotal, resp.Usage.TotalTokens))
	}
	span.SetAttributes(attrs...)
	span.SetStatus(observability.StatusOK, "")
	return resp, nil
}

func validateHistory(history []ai.Message) error {
	if len(history) == 0 || history[0].Role != ai.RoleSystem {
		return ErrInvalidHistory
	}
	for _, m := range history[1:] {
		if m.Role == ai.RoleSystem {
			return ErrInvalidHistory
		}
	}
	return nil
}

// validateToolCalls requires every call to carry a name and an ID that is
// unique within the message, so each call can be answered exactly once.
func validateToolCalls(calls []ai.ToolCall) error {
	seen := make(map[string]struct{}, len(calls))
	for i, call := range calls {
		if call.ID == "" {
			return fmt.Errorf("%w: call %d has no id", ErrMalformedToolCall, i)
		}
		if call.Name == "" {
			return fmt.Errorf("%w: call %s has no name", ErrMalformedToolCall, call.ID)
		}
		if _, dup := seen[call.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrMalformedToolCall, call.ID)
		}
		seen[call.ID] = struct{}{}
	}
	return nil
}

// Package agent implements the tool-calling control loop.
//
// A run alternates between a decision step, which sends the conversation to
// the model backend and receives one assistant message, and an action step,
// which executes the tool calls that message requested and appends one tool
// message per call. [Route] inspects the latest assistant message and decides
// whether another action step is needed or the run is over.
//
//	registry := arithmetic.Registry()
//	a, err := agent.New(provider, registry, agent.WithMaxRounds(10))
//	if err != nil {
//	    return err
//	}
//	result, err := a.Run(ctx, ai.NewUserMessage("Add 21 and 43, then divide the result by 20."))
//
// Tool failures never abort a run: they are reported to the model as
// [ai.ToolResult] payloads. Only a failing backend surfaces as an error, as a
// [*BackendError]. Cancellation and exhausted budgets end the run with a
// partial transcript and the matching [Outcome].
package agent

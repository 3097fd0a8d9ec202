package agent

import "github.com/leofalp/toolloop/providers/ai"

// RouteDecision is the router's verdict on the latest message.
type RouteDecision int

const (
	// End terminates the run.
	End RouteDecision = iota
	// Continue hands the requested tool calls to the action step.
	Continue
)

func (d RouteDecision) String() string {
	if d == Continue {
		return "continue"
	}
	return "end"
}

// Route returns Continue when last is an assistant message carrying at least
// one tool call, and End otherwise.
func Route(last ai.Message) RouteDecision {
	if last.HasToolCalls() {
		return Continue
	}
	return End
}

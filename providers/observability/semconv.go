package observability

// Semantic conventions for observability attributes, span names and metrics.

// --- LLM Backend Attributes ---

const (
	// AttrLLMProvider is the name of the backend (e.g., "openai", "scripted")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "gpt-4o-mini")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the backend
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTokensTotal is the total number of tokens of one call
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Agent Loop Attributes ---

const (
	// AttrAgentRunID correlates every record of one loop invocation
	AttrAgentRunID = "agent.run_id"

	// AttrAgentRound is the 1-based index of the current decision
	AttrAgentRound = "agent.round"

	// AttrAgentState is the driver state being entered
	AttrAgentState = "agent.state"

	// AttrAgentRoute is the router decision ("continue" or "end")
	AttrAgentRoute = "agent.route"

	// AttrAgentOutcome is how the run terminated
	AttrAgentOutcome = "agent.outcome"

	// AttrAgentMessages is the transcript length
	AttrAgentMessages = "agent.messages"

	// AttrAgentToolCalls is the size of a tool-call batch
	AttrAgentToolCalls = "agent.tool_calls"
)

// --- Tool Execution Attributes ---

const (
	// AttrToolName is the name of the tool being executed
	AttrToolName = "tool.name"

	// AttrToolCallID is the id of the tool call being answered
	AttrToolCallID = "tool.call_id"

	// AttrToolOutput is the tool output (serialized)
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the execution duration
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error kind if tool execution failed
	AttrToolError = "tool.error"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanAgentRun wraps one full loop invocation
	SpanAgentRun = "agent.run"

	// SpanAgentDecide wraps one decision step
	SpanAgentDecide = "agent.decide"

	// SpanAgentAct wraps one action step
	SpanAgentAct = "agent.act"
)

// --- Event Names ---

const (
	EventToolExecutionStart = "tool.execution.start"
	EventToolExecutionEnd   = "tool.execution.end"
	EventStateTransition    = "agent.transition"
)

// --- Metric Names ---

const (
	// MetricAgentRounds counts decision steps
	MetricAgentRounds = "toolloop.agent.rounds"

	// MetricAgentToolCalls counts executed tool calls
	MetricAgentToolCalls = "toolloop.agent.tool_calls"

	// MetricAgentToolErrors counts tool calls answered with an error payload
	MetricAgentToolErrors = "toolloop.agent.tool_errors"

	// MetricAgentRunDuration records run wall time in milliseconds
	MetricAgentRunDuration = "toolloop.agent.run.duration"
)

package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leofalp/toolloop/core/agent"
	"github.com/leofalp/toolloop/internal/utils"
	"github.com/leofalp/toolloop/providers/ai"
)

func writeResult(w io.Writer, format string, result *agent.Result) error {
	switch format {
	case "json":
		_, err := fmt.Fprintln(w, utils.JSONToString(result, true))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode transcript: %w", err)
		}
		return enc.Close()
	default:
		return writeText(w, result)
	}
}

// writeText prints one block per message followed by a summary line.
func writeText(w io.Writer, result *agent.Result) error {
	var b strings.Builder
	for _, msg := range result.Messages {
		switch msg.Role {
		case ai.RoleTool:
			fmt.Fprintf(&b, "[tool %s %s] %s\n", msg.Name, msg.ToolCallID, msg.Content)
		default:
			if msg.Content != "" || !msg.HasToolCalls() {
				fmt.Fprintf(&b, "[%s] %s\n", msg.Role, msg.Content)
			}
			for _, call := range msg.ToolCalls {
				fmt.Fprintf(&b, "[%s] → %s(%s) %s\n", msg.Role, call.Name, utils.JSONToString(call.Arguments), call.ID)
			}
		}
	}
	fmt.Fprintf(&b, "-- outcome=%s rounds=%d tool_rounds=%d total_tokens=%d\n",
		result.Outcome, result.Rounds, result.ToolRounds(), result.Usage.TotalTokens)

	_, err := io.WriteString(w, b.String())
	return err
}

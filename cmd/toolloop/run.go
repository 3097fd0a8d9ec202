package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/leofalp/toolloop/core/agent"
	"github.com/leofalp/toolloop/core/client"
	"github.com/leofalp/toolloop/core/client/middleware"
	"github.com/leofalp/toolloop/internal/config"
	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/ai/openai"
	"github.com/leofalp/toolloop/providers/ai/scripted"
	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/observability/slogobs"
	"github.com/leofalp/toolloop/providers/observability/zerologobs"
	"github.com/leofalp/toolloop/providers/tool/arithmetic"
)

// DefaultPrompt is used when no prompt is given on the command line.
const DefaultPrompt = "Add two numbers 21 and 43, then divide the add result with 20."

// Exit codes.
const (
	exitOK             = 0
	exitError          = 1
	exitUsage          = 2
	exitBudgetExceeded = 3
	exitCancelled      = 130
)

// Options are the command line flags, parsed by github.com/jessevdk/go-flags.
type Options struct {
	Config     string `short:"f" long:"config" description:"config YAML path (default: ./toolloop.yaml when present)"`
	Format     string `short:"o" long:"format" description:"transcript format" choice:"text" choice:"json" choice:"yaml" default:"text"`
	Backend    string `short:"b" long:"backend" description:"model backend, overrides backend.kind" choice:"openai" choice:"scripted"`
	Script     string `short:"s" long:"script" description:"YAML script for the scripted backend, overrides backend.script"`
	Model      string `short:"m" long:"model" description:"model name, overrides llm.model"`
	MaxRounds  int    `long:"max-rounds" description:"decision step cap, overrides agent.max_rounds (0 disables)" default:"-1"`
	Concurrent int    `short:"c" long:"concurrency" description:"tool calls run in parallel per batch, overrides agent.tool_concurrency" default:"0"`
	Args       struct {
		Prompt []string `positional-arg-name:"prompt"`
	} `positional-args:"yes"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "toolloop"
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(stdout, err)
			return exitOK
		}
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "toolloop: %v\n", err)
		return exitUsage
	}

	observer, logger := newObserver(cfg.Log, stderr)

	provider, err := newProvider(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "toolloop: %v\n", err)
		return exitError
	}
	provider = client.Wrap(provider,
		middleware.NewTimeoutMiddleware(cfg.LLM.Timeout),
		middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard),
	)

	loop, err := agent.New(provider, arithmetic.Registry(),
		agent.WithSystemPrompt(cfg.Agent.SystemPrompt),
		agent.WithModel(cfg.LLM.Model),
		agent.WithMaxRounds(cfg.Agent.MaxRounds),
		agent.WithMaxTotalTokens(cfg.Agent.MaxTotalTokens),
		agent.WithToolConcurrency(cfg.Agent.ToolConcurrency),
		agent.WithObserver(observer),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "toolloop: %v\n", err)
		return exitError
	}

	prompt := strings.TrimSpace(strings.Join(opts.Args.Prompt, " "))
	if prompt == "" {
		prompt = DefaultPrompt
	}

	result, err := loop.Run(ctx, ai.NewUserMessage(prompt))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "toolloop: %v\n", err)
		return exitError
	}

	if err := writeResult(stdout, opts.Format, result); err != nil {
		_, _ = fmt.Fprintf(stderr, "toolloop: %v\n", err)
		return exitError
	}

	switch result.Outcome {
	case agent.OutcomeBudgetExceeded:
		return exitBudgetExceeded
	case agent.OutcomeCancelled:
		return exitCancelled
	default:
		return exitOK
	}
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}

	if opts.Backend != "" {
		cfg.Backend.Kind = opts.Backend
	}
	if opts.Script != "" {
		cfg.Backend.Script = opts.Script
		if opts.Backend == "" {
			cfg.Backend.Kind = config.BackendScripted
		}
	}
	if opts.Model != "" {
		cfg.LLM.Model = opts.Model
	}
	if opts.MaxRounds >= 0 {
		cfg.Agent.MaxRounds = opts.MaxRounds
	}
	if opts.Concurrent > 0 {
		cfg.Agent.ToolConcurrency = opts.Concurrent
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newObserver builds the observability provider selected by log.format and
// the slog logger used by the backend logging middleware.
func newObserver(cfg config.LogConfig, output io.Writer) (observability.Provider, *slog.Logger) {
	if strings.EqualFold(cfg.Format, "zerolog") {
		zl := zerolog.New(output).With().Timestamp().Logger().Level(zerologobs.ParseLevel(cfg.Level))
		logger := slog.New(slogobs.NewHandler(slogobs.HandlerOptions{
			Format: slogobs.FormatJSON,
			Level:  slogobs.ParseLogLevel(cfg.Level),
			Output: output,
		}))
		return zerologobs.New(zl), logger
	}

	observer := slogobs.New(
		slogobs.WithFormat(slogobs.ParseFormat(cfg.Format)),
		slogobs.WithLevel(slogobs.ParseLogLevel(cfg.Level)),
		slogobs.WithOutput(output),
	)
	return observer, observer.Logger()
}

func newProvider(cfg *config.Config) (ai.Provider, error) {
	switch cfg.Backend.Kind {
	case config.BackendScripted:
		provider, err := scripted.LoadFile(cfg.Backend.Script)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case config.BackendOpenAI:
		provider := openai.New().WithBaseURL(cfg.LLM.BaseURL)
		if cfg.LLM.APIKey != "" {
			provider = provider.WithAPIKey(cfg.LLM.APIKey)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend.Kind)
	}
}

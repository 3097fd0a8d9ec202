// Package config loads toolloop settings from defaults, an optional YAML file,
// a .env file and the environment, in increasing order of precedence.
//
// Environment variables use the TOOLLOOP_ prefix with dots replaced by
// underscores (agent.max_rounds becomes TOOLLOOP_AGENT_MAX_ROUNDS). The
// backend credentials additionally honour OPENAI_API_KEY and
// OPENAI_API_BASE_URL.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "TOOLLOOP"
	ConfigName     = "toolloop"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 60 * time.Second

	BackendOpenAI   = "openai"
	BackendScripted = "scripted"
)

var (
	// ErrInvalidConfig is wrapped by every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")

	logFormats = []string{"compact", "text", "json", "zerolog"}
)

type Config struct {
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Agent   AgentConfig   `mapstructure:"agent" yaml:"agent"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
}

type LLMConfig struct {
	Model   string        `mapstructure:"model" yaml:"model"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey  string        `mapstructure:"api_key" yaml:"-"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type AgentConfig struct {
	SystemPrompt    string `mapstructure:"system_prompt" yaml:"system_prompt"`
	MaxRounds       int    `mapstructure:"max_rounds" yaml:"max_rounds"`             // 0 disables the cap
	MaxTotalTokens  int    `mapstructure:"max_total_tokens" yaml:"max_total_tokens"` // 0 disables the cap
	ToolConcurrency int    `mapstructure:"tool_concurrency" yaml:"tool_concurrency"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // compact, text, json or zerolog
}

type BackendConfig struct {
	Kind   string `mapstructure:"kind" yaml:"kind"`     // openai or scripted
	Script string `mapstructure:"script" yaml:"script"` // YAML script for the scripted backend
}

// Load reads configuration. When path is empty, toolloop.yaml is searched in
// the working directory and its absence is not an error; an explicit path
// must exist. A .env file in the working directory is loaded first without
// overriding variables already set. The result is not validated, so callers
// can apply their own overrides before calling Validate.
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind llm.api_key: %w", err)
	}
	if err := v.BindEnv("llm.base_url", EnvPrefix+"_LLM_BASE_URL", "OPENAI_API_BASE_URL"); err != nil {
		return nil, fmt.Errorf("bind llm.base_url: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads the given .env files, or ".env" when none are given.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", DefaultTimeout)

	v.SetDefault("agent.system_prompt", "You are a helpful assistant tasked with performing arithmetic on a set of inputs.")
	v.SetDefault("agent.max_rounds", 25)
	v.SetDefault("agent.max_total_tokens", 0)
	v.SetDefault("agent.tool_concurrency", 1)

	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "compact")

	v.SetDefault("backend.kind", BackendOpenAI)
	v.SetDefault("backend.script", "")
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch c.Backend.Kind {
	case BackendOpenAI:
	case BackendScripted:
		if c.Backend.Script == "" {
			return fmt.Errorf("%w: backend.script is required for the scripted backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend.kind %q", ErrInvalidConfig, c.Backend.Kind)
	}

	if c.Agent.MaxRounds < 0 {
		return fmt.Errorf("%w: agent.max_rounds must not be negative", ErrInvalidConfig)
	}
	if c.Agent.MaxTotalTokens < 0 {
		return fmt.Errorf("%w: agent.max_total_tokens must not be negative", ErrInvalidConfig)
	}
	if c.Agent.ToolConcurrency < 0 {
		return fmt.Errorf("%w: agent.tool_concurrency must not be negative", ErrInvalidConfig)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("%w: llm.timeout must not be negative", ErrInvalidConfig)
	}

	format := strings.ToLower(c.Log.Format)
	for _, known := range logFormats {
		if format == known {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown log.format %q", ErrInvalidConfig, c.Log.Format)
}

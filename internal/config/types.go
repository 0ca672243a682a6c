package config

import "time"

// Tool identifies one of the gptsh subcommands that talks to the model.
type Tool string

const (
	ToolBash     Tool = "bash"
	ToolSearch   Tool = "search"
	ToolRefactor Tool = "refactor"
)

// Tools lists every Tool.
var Tools = []Tool{ToolBash, ToolSearch, ToolRefactor}

// Config is the top-level gptsh configuration, corresponding to .gptsh.yml.
type Config struct {
	BaseURL        string                 `yaml:"base_url" koanf:"base_url"`
	AccessToken    string                 `yaml:"-" koanf:"access_token"`
	Model          string                 `yaml:"model" koanf:"model"`
	ToolModels     map[Tool]string        `yaml:"tool_models" koanf:"tool_models"`
	Temperature    float64                `yaml:"temperature" koanf:"temperature"`
	MaxTokens      int                    `yaml:"max_tokens" koanf:"max_tokens"`
	ReadTimeout    time.Duration          `yaml:"read_timeout" koanf:"read_timeout"`
	ToolTimeouts   map[Tool]time.Duration `yaml:"tool_timeouts" koanf:"tool_timeouts"`
	Retry          RetryConfig            `yaml:"retry" koanf:"retry"`
	RateLimitRPM   int                    `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	Shell          string                 `yaml:"shell" koanf:"shell"`
	SafeCommands   []string               `yaml:"safe_commands" koanf:"safe_commands"`
	Keywords       KeywordConfig          `yaml:"keywords" koanf:"keywords"`
	CommitSubjects int                    `yaml:"commit_subjects" koanf:"commit_subjects"`
	Refactor       RefactorConfig         `yaml:"refactor" koanf:"refactor"`
	History        HistoryConfig          `yaml:"history" koanf:"history"`
}

// RetryConfig bounds the read-timeout retry loop.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" koanf:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff" koanf:"backoff"`
}

// KeywordConfig controls how project keywords are collected for the search prompt.
type KeywordConfig struct {
	Include  []string `yaml:"include" koanf:"include"`
	Exclude  []string `yaml:"exclude" koanf:"exclude"`
	MaxChars int      `yaml:"max_chars" koanf:"max_chars"`
}

// RefactorConfig holds refactor-specific settings.
type RefactorConfig struct {
	AutoApply bool `yaml:"auto_apply" koanf:"auto_apply"`
	JSONMode  bool `yaml:"json_mode" koanf:"json_mode"`
}

// HistoryConfig holds settings for the local run log.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Path    string `yaml:"path" koanf:"path"`
}

// ModelFor returns the model configured for the given tool, falling back to
// the global model.
func (c *Config) ModelFor(tool Tool) string {
	if m := c.ToolModels[tool]; m != "" {
		return m
	}
	return c.Model
}

// TimeoutFor returns the read timeout configured for the given tool, falling
// back to the global read timeout.
func (c *Config) TimeoutFor(tool Tool) time.Duration {
	if d := c.ToolTimeouts[tool]; d > 0 {
		return d
	}
	return c.ReadTimeout
}

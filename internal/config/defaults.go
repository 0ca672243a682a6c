package config

import (
	"os"
	"path/filepath"
	"time"
)

// Environment keys read from the .env file or the process environment.
const (
	EnvBaseURL     = "OPENAI_BASE_URL"
	EnvAccessToken = "OPENAI_ACCESS_TOKEN"
)

// DefaultBaseURL is suggested by the init wizard.
const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultSafeCommands are programs whose generated commands run without
// confirmation.
var DefaultSafeCommands = []string{
	"grep", "ag", "ls", "df", "cat", "less", "head", "tail",
	"sed", "awk", "tr", "uniq", "wc", "cut",
}

// DefaultKeywordExtensions limits keyword collection to source files.
var DefaultKeywordExtensions = []string{
	"**/*.rb", "**/*.py", "**/*.js", "**/*.java", "**/*.php", "**/*.cpp",
	"**/*.c", "**/*.go", "**/*.sh", "**/*.html", "**/*.css", "**/*.yml",
	"**/*.erb", "**/*.slim", "**/*.rs", "**/*.ts", "**/*.swift", "**/*.kt",
	"**/*.scala", "**/*.pl", "**/*.pm", "**/*.r", "**/*.jl",
}

// DefaultExcludes are glob patterns skipped while collecting keywords.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.min.*",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model: "gpt-4o",
		ToolModels: map[Tool]string{
			ToolBash: "gpt-4o-mini",
		},
		Temperature: 0,
		ReadTimeout: 100 * time.Second,
		ToolTimeouts: map[Tool]time.Duration{
			ToolSearch: 20 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			Backoff:     5 * time.Second,
		},
		Shell:        "bash",
		SafeCommands: append([]string(nil), DefaultSafeCommands...),
		Keywords: KeywordConfig{
			Include:  append([]string(nil), DefaultKeywordExtensions...),
			Exclude:  append([]string(nil), DefaultExcludes...),
			MaxChars: 4096,
		},
		CommitSubjects: 30,
		Refactor: RefactorConfig{
			AutoApply: true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
	}
}

// defaultHistoryPath places the run log under the user's state directory,
// falling back to the cache directory and finally the working directory.
func defaultHistoryPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "gptsh", "history.db")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "gptsh", "history.db")
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "gptsh", "history.db")
	}
	return filepath.Join(".gptsh", "history.db")
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEndpointEnv keeps the developer's own credentials out of the tests.
func clearEndpointEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvAccessToken, "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model != "gpt-4o" {
		t.Errorf("expected default model %q, got %q", "gpt-4o", cfg.Model)
	}
	if cfg.ModelFor(ToolBash) != "gpt-4o-mini" {
		t.Errorf("expected bash model gpt-4o-mini, got %q", cfg.ModelFor(ToolBash))
	}
	if cfg.ModelFor(ToolRefactor) != "gpt-4o" {
		t.Errorf("expected refactor model to fall back to gpt-4o, got %q", cfg.ModelFor(ToolRefactor))
	}
	if cfg.Temperature != 0 {
		t.Errorf("expected temperature 0, got %v", cfg.Temperature)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.Backoff != 5*time.Second {
		t.Errorf("expected retry 3 x 5s, got %d x %s", cfg.Retry.MaxAttempts, cfg.Retry.Backoff)
	}
	if cfg.TimeoutFor(ToolSearch) != 20*time.Second {
		t.Errorf("expected search timeout 20s, got %s", cfg.TimeoutFor(ToolSearch))
	}
	if cfg.TimeoutFor(ToolBash) != 100*time.Second {
		t.Errorf("expected bash timeout 100s, got %s", cfg.TimeoutFor(ToolBash))
	}
	if len(cfg.SafeCommands) != len(DefaultSafeCommands) {
		t.Errorf("expected %d safe commands, got %d", len(DefaultSafeCommands), len(cfg.SafeCommands))
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEndpointEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "test.gptsh.yml")

	original := DefaultConfig()
	original.BaseURL = "https://llm.example.com/v1"
	original.AccessToken = "secret"
	original.Model = "gpt-4.1"
	original.Temperature = 0.4
	original.ReadTimeout = 42 * time.Second
	original.Retry.MaxAttempts = 5
	original.SafeCommands = []string{"ls", "cat"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("access token must not be written to the config file")
	}

	loaded, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.BaseURL != original.BaseURL {
		t.Errorf("base_url: got %q, want %q", loaded.BaseURL, original.BaseURL)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Temperature != original.Temperature {
		t.Errorf("temperature: got %v, want %v", loaded.Temperature, original.Temperature)
	}
	if loaded.ReadTimeout != original.ReadTimeout {
		t.Errorf("read_timeout: got %s, want %s", loaded.ReadTimeout, original.ReadTimeout)
	}
	if loaded.Retry.MaxAttempts != 5 {
		t.Errorf("retry.max_attempts: got %d, want 5", loaded.Retry.MaxAttempts)
	}
	if len(loaded.SafeCommands) != 2 || loaded.SafeCommands[0] != "ls" || loaded.SafeCommands[1] != "cat" {
		t.Errorf("safe_commands: got %v, want [ls cat]", loaded.SafeCommands)
	}
	if loaded.AccessToken != "" {
		t.Errorf("access token should not round-trip through the file, got %q", loaded.AccessToken)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEndpointEnv(t)
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "nonexistent.yml"), filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("Load should not fail for missing files: %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("expected default model, got %q", cfg.Model)
	}
	if cfg.BaseURL != "" || cfg.AccessToken != "" {
		t.Errorf("expected empty credentials, got %q / %q", cfg.BaseURL, cfg.AccessToken)
	}
}

func TestLoadEnvFileWinsOverProcessEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "OPENAI_BASE_URL=https://file.example.com/v1/\nOPENAI_ACCESS_TOKEN=file-token\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBaseURL, "https://process.example.com/v1")
	t.Setenv(EnvAccessToken, "process-token")

	cfg, err := Load(filepath.Join(dir, "missing.yml"), envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://file.example.com/v1" {
		t.Errorf("base_url: got %q, want env file value without trailing slash", cfg.BaseURL)
	}
	if cfg.AccessToken != "file-token" {
		t.Errorf("access_token: got %q, want %q", cfg.AccessToken, "file-token")
	}
}

func TestLoadProcessEnvFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvBaseURL, "https://process.example.com/v1")
	t.Setenv(EnvAccessToken, "process-token")

	cfg, err := Load("", filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != "https://process.example.com/v1" || cfg.AccessToken != "process-token" {
		t.Errorf("expected process env credentials, got %q / %q", cfg.BaseURL, cfg.AccessToken)
	}
}

func TestLoadGptshEnvOverride(t *testing.T) {
	clearEndpointEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("GPTSH_MODEL", "gpt-4.1-mini")
	t.Setenv("GPTSH_RETRY__MAX_ATTEMPTS", "7")
	t.Setenv("GPTSH_SAFE_COMMANDS", "ls, wc")

	loaded, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model != "gpt-4.1-mini" {
		t.Errorf("env override failed: got %q", loaded.Model)
	}
	if loaded.Retry.MaxAttempts != 7 {
		t.Errorf("nested env override failed: got %d", loaded.Retry.MaxAttempts)
	}
	if len(loaded.SafeCommands) != 2 || loaded.SafeCommands[1] != "wc" {
		t.Errorf("list env override failed: got %v", loaded.SafeCommands)
	}
}

func TestValidateValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }},
		{"temperature above 2", func(c *Config) { c.Temperature = 2.5 }},
		{"negative max tokens", func(c *Config) { c.MaxTokens = -1 }},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }},
		{"negative backoff", func(c *Config) { c.Retry.Backoff = -time.Second }},
		{"negative rpm", func(c *Config) { c.RateLimitRPM = -1 }},
		{"empty shell", func(c *Config) { c.Shell = "" }},
		{"history without path", func(c *Config) { c.History.Path = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestValidateHistoryDisabledWithoutPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.History.Enabled = false
	cfg.History.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled history should not need a path: %v", err)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.go", []string{"**/*.go"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// envPrefix marks gptsh-specific overrides. A double underscore separates
// nesting levels: GPTSH_RETRY__MAX_ATTEMPTS -> retry.max_attempts.
const envPrefix = "GPTSH_"

// Load reads configuration from the given YAML file, then overlays the
// endpoint credentials (OPENAI_BASE_URL, OPENAI_ACCESS_TOKEN) from envFile or
// the process environment, and finally GPTSH_* environment overrides.
// Missing files are not an error.
func Load(path, envFile string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	for key, name := range map[string]string{"base_url": EnvBaseURL, "access_token": EnvAccessToken} {
		if v := lookup(dotenv, name); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("setting %s: %w", key, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Lists are replaced wholesale, never merged with the defaults.
	for key, dst := range map[string]*[]string{
		"safe_commands":    &cfg.SafeCommands,
		"keywords.include": &cfg.Keywords.Include,
		"keywords.exclude": &cfg.Keywords.Exclude,
	} {
		if list, ok := listAt(k, key); ok {
			*dst = list
		}
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)

	return cfg, nil
}

// readEnvFile parses a KEY=VALUE file. A missing file yields an empty map.
func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return values, nil
}

// lookup prefers the env file over the process environment.
func lookup(dotenv map[string]string, key string) string {
	if v := strings.TrimSpace(dotenv[key]); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(key))
}

// Save writes the configuration to the given YAML file path. The access
// token is never written.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values. Endpoint
// credentials are checked by the completion client, not here, so that
// commands which never call the model still work without them.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range: must be between 0 and 2", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}
	for tool, d := range c.ToolTimeouts {
		if d < 0 {
			return fmt.Errorf("tool_timeouts.%s must be non-negative", tool)
		}
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.Backoff < 0 {
		return fmt.Errorf("retry.backoff must be non-negative")
	}
	if c.RateLimitRPM < 0 {
		return fmt.Errorf("rate_limit_rpm must be non-negative")
	}
	if c.Shell == "" {
		return fmt.Errorf("shell is required")
	}
	if c.Keywords.MaxChars < 0 {
		return fmt.Errorf("keywords.max_chars must be non-negative")
	}
	if c.CommitSubjects < 0 {
		return fmt.Errorf("commit_subjects must be non-negative")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

// listAt reads a list value. Environment overrides arrive as a single
// comma-separated string, YAML lists as a slice.
func listAt(k *koanf.Koanf, key string) ([]string, bool) {
	if !k.Exists(key) {
		return nil, false
	}
	var out []string
	switch v := k.Get(key).(type) {
	case string:
		out = splitAndTrim(v)
	case []string:
		for _, item := range v {
			out = append(out, splitAndTrim(item)...)
		}
	case []any:
		for _, item := range v {
			out = append(out, splitAndTrim(fmt.Sprint(item))...)
		}
	default:
		return nil, false
	}
	return out, true
}

// splitAndTrim splits a comma-separated string and drops empty parts.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

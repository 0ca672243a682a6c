package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// modelChoices are offered by the wizard; "other" asks for a free-form name.
var modelChoices = []string{"gpt-4o", "gpt-4o-mini", "gpt-4.1", "gpt-4.1-mini", "other"}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to gptsh! Let's configure the completion endpoint.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Endpoint.
	urlPrompt := promptui.Prompt{
		Label:   "Chat completion base URL",
		Default: DefaultBaseURL,
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	// 2. Model.
	model, err := selectModel("Default model", cfg.Model)
	if err != nil {
		return nil, err
	}
	cfg.Model = model

	bashModel, err := selectModel("Model for `gptsh bash`", cfg.ToolModels[ToolBash])
	if err != nil {
		return nil, err
	}
	cfg.ToolModels[ToolBash] = bashModel

	// 3. Temperature.
	tempPrompt := promptui.Prompt{
		Label:   "Temperature (0-2)",
		Default: strconv.FormatFloat(cfg.Temperature, 'f', -1, 64),
		Validate: func(s string) error {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return fmt.Errorf("not a number")
			}
			if v < 0 || v > 2 {
				return fmt.Errorf("must be between 0 and 2")
			}
			return nil
		},
	}
	tempStr, err := tempPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("temperature: %w", err)
	}
	cfg.Temperature, _ = strconv.ParseFloat(strings.TrimSpace(tempStr), 64)

	// 4. Safe commands.
	safePrompt := promptui.Prompt{
		Label:   "Commands that run without confirmation (comma-separated)",
		Default: strings.Join(cfg.SafeCommands, ","),
	}
	safeStr, err := safePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("safe commands: %w", err)
	}
	cfg.SafeCommands = splitAndTrim(safeStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if os.Getenv(EnvAccessToken) == "" {
		fmt.Printf("\nNote: add %s to your .env file (or environment) before running gptsh.\n", EnvAccessToken)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// selectModel offers the common model names and falls back to a free-form
// prompt for "other".
func selectModel(label, current string) (string, error) {
	items := modelChoices
	cursor := 0
	for i, m := range items {
		if m == current {
			cursor = i
		}
	}
	sel := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: cursor,
	}
	_, choice, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("model selection: %w", err)
	}
	if choice != "other" {
		return choice, nil
	}

	custom := promptui.Prompt{
		Label: "Model name",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("model name is required")
			}
			return nil
		},
	}
	name, err := custom.Run()
	if err != nil {
		return "", fmt.Errorf("model name: %w", err)
	}
	return strings.TrimSpace(name), nil
}

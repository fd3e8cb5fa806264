package config

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// Prompter asks the user for a missing value.
type Prompter interface {
	Prompt(label string) (string, error)
}

// TerminalPrompter prompts on the terminal with a huh input field.
type TerminalPrompter struct{}

// Prompt implements Prompter.
func (TerminalPrompter) Prompt(label string) (string, error) {
	var value string
	if err := huh.NewInput().Title(label).Value(&value).Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// NoPrompter refuses to prompt; used in non-interactive runs.
type NoPrompter struct{}

// Prompt implements Prompter.
func (NoPrompter) Prompt(string) (string, error) {
	return "", ErrMissingValue
}

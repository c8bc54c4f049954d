package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/egabank/ega/internal/constants"
)

const maxMemoLen = 140

// PromptDescription asks for the memo stored on a transaction.
func PromptDescription(message string, required bool) (string, error) {
	var memo string

	err := huh.NewInput().
		Title(message).
		CharLimit(maxMemoLen).
		Validate(func(s string) error {
			if required && strings.TrimSpace(s) == "" {
				return fmt.Errorf("a description is required")
			}
			return nil
		}).
		Value(&memo).
		Run()

	return strings.TrimSpace(memo), err
}

// PromptAmount returns the raw text typed for an amount; parsing to minor
// units is left to the caller.
func PromptAmount(message string, helpText string, validator func(string) error) (string, error) {
	var raw string

	input := huh.NewInput().
		Title(message).
		Description(helpText).
		Placeholder("0.00").
		Value(&raw)
	if validator != nil {
		input.Validate(validator)
	}

	if err := input.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func PromptConfirm(message string, defaultValue bool) (bool, error) {
	answer := defaultValue

	err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&answer).
		Run()

	return answer, err
}

// PromptDate asks for a YYYY-MM-DD date. An empty answer keeps defaultDate.
func PromptDate(message string, defaultDate string) (string, error) {
	var date string

	err := huh.NewInput().
		Title(message).
		Description("YYYY-MM-DD, empty keeps " + defaultDate).
		Placeholder(defaultDate).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil
			}
			if _, err := time.Parse(constants.DateFormat, s); err != nil {
				return fmt.Errorf("expected a date like %s", defaultDate)
			}
			return nil
		}).
		Value(&date).
		Run()
	if err != nil {
		return "", err
	}

	if date = strings.TrimSpace(date); date == "" {
		return defaultDate, nil
	}
	return date, nil
}

// PromptInput asks for one line of text. The placeholder doubles as the
// value returned for an empty answer.
func PromptInput(message string, placeholder string, validator func(string) error) (string, error) {
	var text string

	input := huh.NewInput().
		Title(message).
		Placeholder(placeholder).
		Value(&text)
	if validator != nil {
		input.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" && placeholder != "" {
				return nil
			}
			return validator(s)
		})
	}

	if err := input.Run(); err != nil {
		return "", err
	}
	if text = strings.TrimSpace(text); text == "" {
		return placeholder, nil
	}
	return text, nil
}

// PromptSelect picks one of options, starting on defaultOption when it is
// one of them.
func PromptSelect(message string, options []string, defaultOption string) (string, error) {
	selected := defaultOption

	err := huh.NewSelect[string]().
		Title(message).
		Options(huh.NewOptions(options...)...).
		Value(&selected).
		Run()

	return selected, err
}

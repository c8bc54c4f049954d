package prompts

import (
	"errors"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptInitRemote runs on first start. An empty answer keeps the tool in
// local-only mode.
func PromptInitRemote(currDefault string) (string, error) {
	mode := "remote"
	baseURL := currDefault
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}

	err := huh.NewSelect[string]().
		Title("Welcome to EGA! This is the first execute, where are the bank records kept?").
		Description("Without a remote API every change stays in the local cache until you configure one.").
		Options(
			huh.NewOption("Remote API (local cache as fallback)", "remote"),
			huh.NewOption("Local only", "local"),
		).
		Value(&mode).
		Run()
	if err != nil {
		return "", err
	}
	if mode == "local" {
		return "", nil
	}

	err = huh.NewInput().
		Title("Please enter the API base URL:").
		Description("For example http://localhost:8080/api").
		Value(&baseURL).
		Validate(func(s string) error {
			u, err := url.Parse(strings.TrimSpace(s))
			if err != nil || u.Scheme == "" || u.Host == "" {
				return errors.New("an absolute http(s) URL is required")
			}
			return nil
		}).
		Run()
	if err != nil {
		return "", err
	}

	return strings.TrimRight(strings.TrimSpace(baseURL), "/"), nil
}

package errhandler

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/egabank/ega/internal/auth"
	"github.com/egabank/ega/internal/model"
	"github.com/pterm/pterm"
)

// IsInterrupt reports whether the user aborted an interactive prompt.
func IsInterrupt(err error) bool {
	return errors.Is(err, terminal.InterruptErr) ||
		errors.Is(err, huh.ErrUserAborted) ||
		strings.Contains(err.Error(), "interrupt")
}

// Hint returns a short follow-up suggestion for well-known errors.
func Hint(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientFunds):
		return "Check the balance with 'ega account show'."
	case errors.Is(err, model.ErrAccountNotFound):
		return "List accounts with 'ega account list'."
	case errors.Is(err, model.ErrClientNotFound):
		return "List clients with 'ega client list'."
	case errors.Is(err, model.ErrInvalidRange):
		return "Dates use the YYYY-MM-DD format and --from must not be after --to."
	case errors.Is(err, model.ErrForbidden), errors.Is(err, auth.ErrBadCredentials):
		return "Use --admin-code or --account to open a session with access to this resource."
	case errors.Is(err, model.ErrPartialTransfer):
		return "The source account was refunded. Retry the transfer once the destination is reachable."
	default:
		return ""
	}
}

func HandleError(err error) {
	if IsInterrupt(err) {
		pterm.Warning.Println("Operation Cancelled")
		os.Exit(0)
	}

	pterm.Error.Println(Capitalize(err.Error()))
	if hint := Hint(err); hint != "" {
		pterm.Info.Println(hint)
	}
}

// Warn reports a degraded success: the change is stored locally but the
// remote write did not go through.
func Warn(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, model.ErrRemoteUnavailable) {
		pterm.Warning.Println("Saved locally; remote sync pending (" + err.Error() + "). Run 'ega sync' later.")
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
}

func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

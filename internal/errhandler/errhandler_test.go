package errhandler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/egabank/ega/internal/model"
)

func TestIsInterrupt(t *testing.T) {
	if !IsInterrupt(fmt.Errorf("prompt: %w", terminal.InterruptErr)) {
		t.Error("wrapped survey interrupt not detected")
	}
	if IsInterrupt(errors.New("boom")) {
		t.Error("plain error detected as interrupt")
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("withdraw: %w", model.ErrInsufficientFunds), true},
		{model.ErrInvalidRange, true},
		{model.ErrForbidden, true},
		{errors.New("unknown"), false},
	}
	for _, tt := range tests {
		if got := Hint(tt.err) != ""; got != tt.want {
			t.Errorf("Hint(%v) present = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestCapitalize(t *testing.T) {
	if got := Capitalize("échec"); got != "Échec" {
		t.Errorf("got %q", got)
	}
	if Capitalize("") != "" {
		t.Error("empty")
	}
}

package ui

import (
	"fmt"

	"github.com/egabank/ega/internal/money"
	"github.com/pterm/pterm"
)

func PrintL1Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.BgCyan, pterm.FgBlack, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf(" %s   ", text)

	style.Println(paddedText)
}

func PrintL2Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.FgCyan, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf("# %s   ", text)

	style.Println(paddedText)
}

func Separator() {
	pterm.Println(pterm.Gray("────────────────────────────────────────"))
}

// SignedAmount colors a signed minor-unit amount: credits green, debits red.
func SignedAmount(minor int64) string {
	s := money.FormatSigned(minor)
	switch {
	case minor > 0:
		return pterm.Green(s)
	case minor < 0:
		return pterm.Red(s)
	default:
		return s
	}
}

func Amount(minor int64, currency string) string {
	return money.FormatWithCurrency(minor, currency)
}

package money

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/egabank/ega/internal/constants"
	"github.com/shopspring/decimal"
)

var unit = decimal.NewFromInt(constants.MinorPerUnit)

// Format renders minor units with two decimals, e.g. 150050 -> "1500.50".
func Format(minor int64) string {
	return decimal.New(minor, -constants.MinorExponent).StringFixed(constants.MinorExponent)
}

// FormatWithCurrency appends the currency code: "1500.50 XOF".
func FormatWithCurrency(minor int64, currency string) string {
	if currency == "" {
		return Format(minor)
	}
	return Format(minor) + " " + currency
}

// FormatSigned prefixes credits with "+" and debits with "-".
func FormatSigned(minor int64) string {
	if minor > 0 {
		return "+" + Format(minor)
	}
	return Format(minor)
}

// Parse converts a user amount ("150", "150.5", "1 500,25") to minor units.
// More than two decimals is rejected rather than truncated.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	scaled := d.Mul(unit)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: at most %d decimals", s, constants.MinorExponent)
	}
	if scaled.GreaterThan(decimal.NewFromInt(constants.MaxAmount)) || scaled.LessThan(decimal.NewFromInt(-constants.MaxAmount)) {
		return 0, fmt.Errorf("amount %q too large", s)
	}

	return scaled.IntPart(), nil
}

// ParsePositive is Parse restricted to amounts greater than zero.
func ParsePositive(s string) (int64, error) {
	v, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("amount must be greater than zero")
	}
	return v, nil
}

// Amount is a minor-unit amount carried in JSON as a decimal number with
// two places, e.g. 1500.5.
type Amount int64

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.New(int64(a), -constants.MinorExponent).String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("invalid amount %s: %w", b, err)
	}
	*a = Amount(d.Shift(constants.MinorExponent).Round(0).IntPart())
	return nil
}

package validation

import (
	"fmt"
	"strings"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/money"
)

func ValidateAccountNumber(number string) error {
	number = strings.TrimSpace(number)
	if len(number) != constants.AccountNumberLen {
		return fmt.Errorf("account number must have %d digits", constants.AccountNumberLen)
	}
	for _, c := range number {
		if c < '0' || c > '9' {
			return fmt.Errorf("account number must contain only digits")
		}
	}
	return nil
}

// ValidateAmount checks a positive amount typed by a user.
func ValidateAmount(s string) error {
	_, err := money.ParsePositive(s)
	return err
}

// ValidateInitialBalance allows an empty or zero opening balance.
func ValidateInitialBalance(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := money.Parse(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("initial balance can't be negative")
	}
	return nil
}

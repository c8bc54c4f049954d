package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
)

// ValidateClient checks a normalized client before it is stored.
func ValidateClient(c model.Client, now time.Time) error {
	if err := ValidateLastName(c.LastName); err != nil {
		return err
	}
	if strings.TrimSpace(c.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", model.ErrInvalidClient)
	}
	if c.BirthDate.IsZero() {
		return fmt.Errorf("%w: birth date is required", model.ErrInvalidClient)
	}
	if !c.BirthDate.Before(now) {
		return fmt.Errorf("%w: birth date must be in the past", model.ErrInvalidClient)
	}
	if strings.TrimSpace(c.Gender) == "" {
		return fmt.Errorf("%w: gender is required", model.ErrInvalidClient)
	}
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("%w: address is required", model.ErrInvalidClient)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: phone is required", model.ErrInvalidClient)
	}
	if c.Email != "" {
		if err := ValidateEmail(c.Email); err != nil {
			return err
		}
	}
	return nil
}

func ValidateLastName(name string) error {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < constants.MinLastNameLen {
		return fmt.Errorf("%w: last name needs at least %d characters", model.ErrInvalidClient, constants.MinLastNameLen)
	}
	if len(name) > constants.MaxNameLen {
		return fmt.Errorf("%w: last name too long (max %d characters)", model.ErrInvalidClient, constants.MaxNameLen)
	}
	return nil
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return fmt.Errorf("%w: invalid email %q", model.ErrInvalidClient, email)
	}
	return nil
}

// Field validators with the func(string) error shape used by huh inputs.

func RequiredField(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s can't be empty", label)
		}
		return nil
	}
}

func OptionalEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return ValidateEmail(strings.ToLower(strings.TrimSpace(s)))
}

func BirthDate(s string) error {
	d, err := time.Parse(constants.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use the YYYY-MM-DD format")
	}
	if !d.Before(time.Now()) {
		return fmt.Errorf("birth date must be in the past")
	}
	return nil
}

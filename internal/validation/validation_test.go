package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/egabank/ega/internal/model"
)

func validClient() model.Client {
	return model.Client{
		LastName:  "DIALLO",
		FirstName: "AWA",
		BirthDate: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Gender:    "F",
		Address:   "LOME",
		Phone:     "+22890000000",
		Email:     "awa@example.com",
	}
}

func TestValidateClient(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*model.Client)
		wantErr bool
	}{
		{"valid", func(*model.Client) {}, false},
		{"short last name", func(c *model.Client) { c.LastName = "D" }, true},
		{"missing first name", func(c *model.Client) { c.FirstName = " " }, true},
		{"future birth date", func(c *model.Client) { c.BirthDate = now.AddDate(0, 0, 1) }, true},
		{"missing birth date", func(c *model.Client) { c.BirthDate = time.Time{} }, true},
		{"missing phone", func(c *model.Client) { c.Phone = "" }, true},
		{"bad email", func(c *model.Client) { c.Email = "not-an-email" }, true},
		{"no email", func(c *model.Client) { c.Email = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClient()
			tt.mutate(&c)
			err := ValidateClient(c, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, model.ErrInvalidClient) {
				t.Errorf("expected ErrInvalidClient, got %v", err)
			}
		})
	}
}

func TestValidateAccountNumber(t *testing.T) {
	if err := ValidateAccountNumber("12345678901"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "123", "1234567890a", "123456789012"} {
		if err := ValidateAccountNumber(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestValidateInitialBalance(t *testing.T) {
	for _, ok := range []string{"", "0", "100.50"} {
		if err := ValidateInitialBalance(ok); err != nil {
			t.Errorf("%q: unexpected error %v", ok, err)
		}
	}
	if err := ValidateInitialBalance("-5"); err == nil {
		t.Error("expected error for negative balance")
	}
}

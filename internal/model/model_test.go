package model

import (
	"errors"
	"strings"
	"testing"
)

func TestClientNormalize(t *testing.T) {
	c := Client{
		LastName:    " diallo ",
		FirstName:   "awa",
		Gender:      "f",
		Address:     "rue 12, lomé",
		Nationality: "togolaise",
		Email:       " Awa.Diallo@Example.COM ",
	}
	c.Normalize()

	if c.LastName != "DIALLO" || c.FirstName != "AWA" || c.Gender != "F" {
		t.Errorf("names not upper-cased: %+v", c)
	}
	if c.Address != "RUE 12, LOMÉ" {
		t.Errorf("address = %q", c.Address)
	}
	if c.Email != "awa.diallo@example.com" {
		t.Errorf("email = %q", c.Email)
	}
}

func TestParseAccountType(t *testing.T) {
	tests := map[string]AccountType{
		"epargne":  AccountSavings,
		"SAVINGS":  AccountSavings,
		"Courant":  AccountChecking,
		"checking": AccountChecking,
	}
	for in, want := range tests {
		got, err := ParseAccountType(in)
		if err != nil || got != want {
			t.Errorf("ParseAccountType(%q) = %q, %v", in, got, err)
		}
	}

	if _, err := ParseAccountType("joint"); !errors.Is(err, ErrInvalidAccountType) {
		t.Errorf("expected ErrInvalidAccountType, got %v", err)
	}
}

func TestNewAccountNumber(t *testing.T) {
	for range 50 {
		n := NewAccountNumber()
		if len(n) != 11 || strings.HasPrefix(n, "0") {
			t.Fatalf("bad account number %q", n)
		}
	}
}

func TestNewIDIsUniqueAndPrefixed(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewID(PrefixTransaction)
		if !strings.HasPrefix(id, PrefixTransaction+"-") {
			t.Fatalf("id %q missing prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSyncTouch(t *testing.T) {
	var s Sync
	s.Touch()
	s.Touch()
	if !s.Pending || s.Version != 2 {
		t.Errorf("got %+v", s)
	}
	if s.Synced() {
		t.Error("zero remote id must not be synced")
	}
}

package model

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

type AccountType string

const (
	AccountSavings  AccountType = "EPARGNE"
	AccountChecking AccountType = "COURANT"
)

// ParseAccountType accepts both the stored codes and their English names.
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EPARGNE", "SAVINGS":
		return AccountSavings, nil
	case "COURANT", "CHECKING":
		return AccountChecking, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
	}
}

func (t AccountType) Label() string {
	switch t {
	case AccountSavings:
		return "Épargne"
	case AccountChecking:
		return "Courant"
	default:
		return string(t)
	}
}

type Account struct {
	ID        string      `json:"id"`
	Number    string      `json:"numeroCompte"`
	Type      AccountType `json:"typeCompte"`
	Balance   int64       `json:"solde"`
	CreatedAt time.Time   `json:"dateCreation"`
	ClientID  string      `json:"clientId"`
	Sync
}

func (a Account) Key() string { return a.ID }

// NewAccountNumber returns a random 11-digit account number without a
// leading zero.
func NewAccountNumber() string {
	const low = 10_000_000_000
	return strconv.FormatInt(low+rand.Int64N(9*low), 10)
}

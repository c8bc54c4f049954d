package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/egabank/ega/internal/model"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// Session is who is acting. A CLIENT session is scoped to one account and
// the client that owns it.
type Session struct {
	Role          Role   `json:"role"`
	AccountNumber string `json:"numeroCompte,omitempty"`
	ClientID      string `json:"clientId,omitempty"`
}

func Admin() Session { return Session{Role: RoleAdmin} }

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

func (s Session) String() string {
	if s.IsAdmin() {
		return string(RoleAdmin)
	}
	return fmt.Sprintf("%s(%s)", s.Role, s.AccountNumber)
}

// CanAccessAccount allows reading an account's balance, history and
// statements.
func (s Session) CanAccessAccount(accountNumber string) error {
	if s.IsAdmin() {
		return nil
	}
	if s.Role == RoleClient && s.AccountNumber != "" && s.AccountNumber == strings.TrimSpace(accountNumber) {
		return nil
	}
	return fmt.Errorf("account %s: %w", accountNumber, model.ErrForbidden)
}

// CanTransferFrom allows moving money out of an account. Crediting is
// open to any session that can name the destination.
func (s Session) CanTransferFrom(accountNumber string) error {
	return s.CanAccessAccount(accountNumber)
}

func (s Session) CanAccessClient(clientID string) error {
	if s.IsAdmin() {
		return nil
	}
	if s.Role == RoleClient && s.ClientID != "" && s.ClientID == clientID {
		return nil
	}
	return fmt.Errorf("client %s: %w", clientID, model.ErrForbidden)
}

func (s Session) RequireAdmin() error {
	if s.IsAdmin() {
		return nil
	}
	return fmt.Errorf("admin only: %w", model.ErrForbidden)
}

// AccountFinder resolves the account a client logs in with.
type AccountFinder interface {
	AccountByNumber(number string) (model.Account, error)
}

// LoginAdmin opens an ADMIN session when code matches the configured admin
// code. An empty configured code disables admin login.
func LoginAdmin(code, configured string) (Session, error) {
	if configured == "" || subtle.ConstantTimeCompare([]byte(code), []byte(configured)) != 1 {
		return Session{}, ErrBadCredentials
	}
	return Admin(), nil
}

// LoginClient opens a CLIENT session for the owner of accountNumber.
func LoginClient(accounts AccountFinder, accountNumber string) (Session, error) {
	acc, err := accounts.AccountByNumber(accountNumber)
	if err != nil {
		return Session{}, ErrBadCredentials
	}
	return Session{Role: RoleClient, AccountNumber: acc.Number, ClientID: acc.ClientID}, nil
}

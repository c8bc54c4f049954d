package model

import (
	"strings"
	"time"
)

type Client struct {
	ID          string    `json:"id"`
	LastName    string    `json:"nom"`
	FirstName   string    `json:"prenom"`
	BirthDate   time.Time `json:"dnaissance"`
	Gender      string    `json:"sexe"`
	Address     string    `json:"adresse"`
	Phone       string    `json:"tel"`
	Nationality string    `json:"nationalite"`
	Email       string    `json:"courriel"`
	Sync
}

func (c Client) Key() string { return c.ID }

// FullName is the holder label used on statements and transaction snapshots.
func (c Client) FullName() string {
	return strings.TrimSpace(c.LastName + " " + c.FirstName)
}

// Normalize upper-cases identity fields and lower-cases the email.
func (c *Client) Normalize() {
	c.LastName = strings.ToUpper(strings.TrimSpace(c.LastName))
	c.FirstName = strings.ToUpper(strings.TrimSpace(c.FirstName))
	c.Gender = strings.ToUpper(strings.TrimSpace(c.Gender))
	c.Address = strings.ToUpper(strings.TrimSpace(c.Address))
	c.Phone = strings.ToUpper(strings.TrimSpace(c.Phone))
	c.Nationality = strings.ToUpper(strings.TrimSpace(c.Nationality))
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}

// Matches reports whether term appears in the name or email, ignoring case.
func (c Client) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.LastName), term) ||
		strings.Contains(strings.ToLower(c.FirstName), term) ||
		strings.Contains(strings.ToLower(c.Email), term)
}

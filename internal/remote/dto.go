package remote

import (
	"fmt"
	"strings"
	"time"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/money"
)

type Amount = money.Amount

// Date is a calendar date serialized as "2006-01-02".
type Date struct{ time.Time }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(constants.DateFormat) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := parseTimestamp(b)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Timestamp is a local date-time without zone as the API emits it
// ("2006-01-02T15:04:05"); RFC 3339 is accepted on input.
type Timestamp struct{ time.Time }

const localDateTime = "2006-01-02T15:04:05"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(localDateTime) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	parsed, err := parseTimestamp(b)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseTimestamp(b []byte) (time.Time, error) {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", localDateTime, constants.DateFormat} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

type ref struct {
	ID           int64  `json:"id"`
	NumeroCompte string `json:"numeroCompte,omitempty"`
}

type clientDTO struct {
	ID          int64  `json:"id,omitempty"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	DNaissance  Date   `json:"dnaissance"`
	Sexe        string `json:"sexe"`
	Adresse     string `json:"adresse"`
	Tel         string `json:"tel"`
	Nationalite string `json:"nationalite"`
	Courriel    string `json:"courriel"`
}

type accountDTO struct {
	ID           int64  `json:"id,omitempty"`
	NumeroCompte string `json:"numeroCompte"`
	DateCreation Date   `json:"dateCreation"`
	TypeCompte   string `json:"typeCompte"`
	Solde        Amount `json:"solde"`
	Client       *ref   `json:"client,omitempty"`
}

type transactionDTO struct {
	ID                int64     `json:"id,omitempty"`
	DateTransaction   Timestamp `json:"dateTransaction"`
	Type              string    `json:"type"`
	Montant           Amount    `json:"montant"`
	MontantAvant      Amount    `json:"montantAvant"`
	MontantApres      Amount    `json:"montantApres"`
	NumeroCompte      string    `json:"numeroCompte,omitempty"`
	CompteDestination string    `json:"compteDestination,omitempty"`
	NomClient         string    `json:"nomClient,omitempty"`
	OrigineFonds      string    `json:"origineFonds,omitempty"`
	Description       string    `json:"description,omitempty"`
	CompteID          int64     `json:"compteId,omitempty"`
	Compte            *ref      `json:"compte,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

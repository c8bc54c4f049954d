package statement

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
)

// Reader is the read side of the entity store.
type Reader interface {
	AccountByNumber(number string) (model.Account, error)
	Client(id string) (model.Client, error)
	TransactionsOf(accountNumber string) []model.Transaction
}

// Range is a window of whole days: [Start, End) where End is the day after
// the last included date.
type Range struct {
	Start time.Time
	End   time.Time
}

// FirstDay and LastDay are the inclusive dates the caller asked for.
func (r Range) FirstDay() time.Time { return r.Start }
func (r Range) LastDay() time.Time  { return r.End.AddDate(0, 0, -1) }

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ParseRange parses inclusive ISO dates in loc. Both are required and start
// must not be after end.
func ParseRange(start, end string, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.Local
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return Range{}, fmt.Errorf("%w: start and end dates are required", model.ErrInvalidRange)
	}

	s, err := time.ParseInLocation(constants.DateFormat, start, loc)
	if err != nil {
		return Range{}, fmt.Errorf("%w: start %q is not a YYYY-MM-DD date", model.ErrInvalidRange, start)
	}
	e, err := time.ParseInLocation(constants.DateFormat, end, loc)
	if err != nil {
		return Range{}, fmt.Errorf("%w: end %q is not a YYYY-MM-DD date", model.ErrInvalidRange, end)
	}
	if s.After(e) {
		return Range{}, fmt.Errorf("%w: start %s is after end %s", model.ErrInvalidRange, start, end)
	}
	return Range{Start: s, End: e.AddDate(0, 0, 1)}, nil
}

type Entry struct {
	TransactionID string
	Date          time.Time
	Type          model.TransactionType
	Label         string
	Direction     model.Direction
	// Amount is signed from the account's point of view.
	Amount       int64
	Balance      int64
	Counterparty string
	Description  string
}

type Statement struct {
	AccountNumber string
	AccountType   model.AccountType
	ClientID      string
	Holder        string
	Period        Range

	Opening      int64
	Closing      int64
	TotalCredits int64
	TotalDebits  int64
	Entries      []Entry
}

func (s Statement) Count() int { return len(s.Entries) }

type Builder struct {
	reader Reader
}

func NewBuilder(r Reader) *Builder {
	return &Builder{reader: r}
}

// Build reconstructs the account's movements within the window. It only
// reads the store, and the same inputs over the same transactions always
// give the same statement.
func (b *Builder) Build(accountNumber string, window Range) (Statement, error) {
	if !window.Start.Before(window.End) {
		return Statement{}, model.ErrInvalidRange
	}

	acc, err := b.reader.AccountByNumber(accountNumber)
	if err != nil {
		return Statement{}, err
	}

	st := Statement{
		AccountNumber: acc.Number,
		AccountType:   acc.Type,
		ClientID:      acc.ClientID,
		Period:        window,
	}
	if owner, err := b.reader.Client(acc.ClientID); err == nil {
		st.Holder = owner.FullName()
	}

	ledger := b.reader.TransactionsOf(acc.Number)
	slices.SortStableFunc(ledger, func(x, y model.Transaction) int {
		return x.Timestamp.Compare(y.Timestamp)
	})

	first := -1
	var inWindow []model.Transaction
	for i, tx := range ledger {
		if !window.Contains(tx.Timestamp) {
			continue
		}
		if first < 0 {
			first = i
		}
		inWindow = append(inWindow, tx)
	}

	st.Opening = opening(acc, ledger, first, window)

	running := st.Opening
	for _, tx := range inWindow {
		signed := model.SignedAmount(tx, acc.Number)
		running += signed
		if signed >= 0 {
			st.TotalCredits += signed
		} else {
			st.TotalDebits -= signed
		}

		st.Entries = append(st.Entries, Entry{
			TransactionID: tx.ID,
			Date:          tx.Timestamp,
			Type:          tx.Type,
			Label:         model.Label(tx, acc.Number),
			Direction:     model.ResolveSign(tx, acc.Number),
			Amount:        signed,
			Balance:       running,
			Counterparty:  model.Counterparty(tx, acc.Number),
			Description:   tx.Description,
		})
	}
	st.Closing = running

	return st, nil
}

// opening is the balance before the first entry of the window. When that
// entry is recorded against the account its balance-before snapshot is
// used; otherwise the live balance is rewound over every later movement.
func opening(acc model.Account, ledger []model.Transaction, first int, window Range) int64 {
	if first >= 0 && ledger[first].AccountNumber == acc.Number {
		return ledger[first].BalanceBefore
	}

	balance := acc.Balance
	for i, tx := range ledger {
		after := first >= 0 && i >= first
		if first < 0 {
			after = !tx.Timestamp.Before(window.End)
		}
		if after {
			balance -= model.SignedAmount(tx, acc.Number)
		}
	}
	return balance
}

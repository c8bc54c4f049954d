package statement

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/store"
)

func day(d, h int) time.Time {
	return time.Date(2025, 1, d, h, 0, 0, 0, time.UTC)
}

// seed builds account A (balance 6500) and B:
//
//	Dec 30  A deposit 10000        0 -> 10000
//	Jan 05  A withdraw 2000    10000 -> 8000
//	Jan 10  A sent 3000 to B    8000 -> 5000 (B received, mirrored)
//	Jan 10  A deposit 500       5000 -> 5500   same timestamp as the transfer
//	Feb 02  A deposit 1000      5500 -> 6500
func seed(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(nil, nil)
	st.SaveClient(model.Client{ID: "clt-1", LastName: "DIALLO", FirstName: "AWA"})
	st.SaveAccount(model.Account{ID: "cpt-a", Number: "A", Type: model.AccountChecking, ClientID: "clt-1", Balance: 6500})
	st.SaveAccount(model.Account{ID: "cpt-b", Number: "B", ClientID: "clt-1", Balance: 3000})

	txs := []model.Transaction{
		{ID: "t5", Timestamp: time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC), Type: model.TxDeposit, Amount: 1000, BalanceBefore: 5500, BalanceAfter: 6500, AccountNumber: "A"},
		{ID: "t1", Timestamp: time.Date(2024, 12, 30, 9, 0, 0, 0, time.UTC), Type: model.TxDeposit, Amount: 10000, BalanceBefore: 0, BalanceAfter: 10000, AccountNumber: "A"},
		{ID: "t2", Timestamp: day(5, 9), Type: model.TxWithdrawal, Amount: 2000, BalanceBefore: 10000, BalanceAfter: 8000, AccountNumber: "A"},
		{ID: "t3", Timestamp: day(10, 9), Type: model.TxTransferSent, Amount: 3000, BalanceBefore: 8000, BalanceAfter: 5000, AccountNumber: "A", CounterpartyNumber: "B"},
		{ID: "t3b", Timestamp: day(10, 9), Type: model.TxTransferReceived, Amount: 3000, BalanceBefore: 0, BalanceAfter: 3000, AccountNumber: "B", CounterpartyNumber: "A"},
		{ID: "t4", Timestamp: day(10, 9), Type: model.TxDeposit, Amount: 500, BalanceBefore: 5000, BalanceAfter: 5500, AccountNumber: "A"},
	}
	st.Transactions.PutAll(txs...)
	return st
}

func january(t *testing.T) Range {
	t.Helper()
	r, err := ParseRange("2025-01-01", "2025-01-31", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"valid", "2025-01-01", "2025-01-31", false},
		{"single day", "2025-01-01", "2025-01-01", false},
		{"start after end", "2025-02-01", "2025-01-31", true},
		{"missing start", "", "2025-01-31", true},
		{"missing end", "2025-01-01", " ", true},
		{"bad format", "01/01/2025", "2025-01-31", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.start, tt.end, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, model.ErrInvalidRange) {
				t.Errorf("expected ErrInvalidRange, got %v", err)
			}
			if err == nil && !r.Contains(r.LastDay().Add(23*time.Hour)) {
				t.Error("end date must be inclusive")
			}
		})
	}
}

func TestBuildJanuary(t *testing.T) {
	b := NewBuilder(seed(t))

	st, err := b.Build("A", january(t))
	if err != nil {
		t.Fatal(err)
	}

	if st.Holder != "DIALLO AWA" {
		t.Errorf("holder = %q", st.Holder)
	}
	if st.Opening != 10000 {
		t.Errorf("opening = %d, want 10000", st.Opening)
	}

	wantIDs := []string{"t2", "t3", "t4"}
	if len(st.Entries) != len(wantIDs) {
		t.Fatalf("got %d entries", len(st.Entries))
	}
	for i, id := range wantIDs {
		if st.Entries[i].TransactionID != id {
			t.Errorf("entry %d = %s, want %s (ties keep insertion order)", i, st.Entries[i].TransactionID, id)
		}
	}

	transfer := st.Entries[1]
	if transfer.Amount != -3000 || transfer.Label != "Virement émis" || transfer.Counterparty != "B" {
		t.Errorf("transfer entry = %+v", transfer)
	}
	if transfer.Balance != 5000 {
		t.Errorf("running balance = %d", transfer.Balance)
	}

	if st.Closing != 5500 {
		t.Errorf("closing = %d, want 5500", st.Closing)
	}
	if st.TotalCredits != 500 || st.TotalDebits != 5000 {
		t.Errorf("totals = +%d -%d", st.TotalCredits, st.TotalDebits)
	}
}

func TestBuildCounterpartyView(t *testing.T) {
	b := NewBuilder(seed(t))

	st, err := b.Build("B", january(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Entries) != 1 {
		t.Fatalf("B must see only its own leg, got %d", len(st.Entries))
	}
	e := st.Entries[0]
	if e.Amount != 3000 || e.Label != "Virement reçu" || e.Counterparty != "A" {
		t.Errorf("entry = %+v", e)
	}
	if st.Opening != 0 || st.Closing != 3000 {
		t.Errorf("opening %d closing %d", st.Opening, st.Closing)
	}
}

func TestBuildUnifiedTransferShape(t *testing.T) {
	st := store.New(nil, nil)
	st.SaveAccount(model.Account{ID: "cpt-a", Number: "A", Balance: 700})
	st.SaveAccount(model.Account{ID: "cpt-b", Number: "B", Balance: 300})
	st.Transactions.PutAll([]model.Transaction{
		{ID: "u1", Timestamp: day(3, 9), Type: model.TxTransfer, Amount: 300, BalanceBefore: 1000, BalanceAfter: 700, AccountNumber: "A", CounterpartyNumber: "B"},
	}...)
	b := NewBuilder(st)

	fromA, err := b.Build("A", january(t))
	if err != nil {
		t.Fatal(err)
	}
	if fromA.Opening != 1000 || fromA.Closing != 700 || fromA.Entries[0].Label != "Virement émis" {
		t.Errorf("from A: %+v", fromA)
	}

	fromB, err := b.Build("B", january(t))
	if err != nil {
		t.Fatal(err)
	}
	// The snapshot belongs to A, so B's opening is rewound from its live balance.
	if fromB.Opening != 0 || fromB.Closing != 300 || fromB.Entries[0].Amount != 300 {
		t.Errorf("from B: opening %d closing %d entries %+v", fromB.Opening, fromB.Closing, fromB.Entries)
	}
}

func TestBuildEmptyWindow(t *testing.T) {
	b := NewBuilder(seed(t))

	r, _ := ParseRange("2025-01-20", "2025-01-25", time.UTC)
	st, err := b.Build("A", r)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Entries) != 0 {
		t.Fatalf("entries = %d", len(st.Entries))
	}
	// Live balance 6500 rewound over the Feb 2 deposit.
	if st.Opening != 5500 || st.Closing != 5500 {
		t.Errorf("opening %d closing %d", st.Opening, st.Closing)
	}

	r, _ = ParseRange("2025-03-01", "2025-03-31", time.UTC)
	st, _ = b.Build("A", r)
	if st.Closing != 6500 {
		t.Errorf("window after every movement must close at the live balance, got %d", st.Closing)
	}
}

func TestClosingMatchesLiveBalance(t *testing.T) {
	b := NewBuilder(seed(t))

	r, _ := ParseRange("2024-12-01", "2025-02-28", time.UTC)
	st, err := b.Build("A", r)
	if err != nil {
		t.Fatal(err)
	}
	if st.Closing != 6500 {
		t.Errorf("closing = %d, want live balance 6500", st.Closing)
	}
}

func TestBuildIsIdempotentAndPure(t *testing.T) {
	s := seed(t)
	b := NewBuilder(s)
	before := s.AllTransactions()

	first, err := b.Build("A", january(t))
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Build("A", january(t))
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two builds over the same data differ")
	}
	if !reflect.DeepEqual(before, s.AllTransactions()) {
		t.Error("build mutated the store")
	}
}

func TestBuildErrors(t *testing.T) {
	b := NewBuilder(seed(t))

	if _, err := b.Build("Z", january(t)); !errors.Is(err, model.ErrAccountNotFound) {
		t.Errorf("got %v", err)
	}
	if _, err := b.Build("A", Range{}); !errors.Is(err, model.ErrInvalidRange) {
		t.Errorf("got %v", err)
	}
}

func TestRenderPDF(t *testing.T) {
	b := NewBuilder(seed(t))
	st, err := b.Build("A", january(t))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	opts := PDFOptions{Currency: "XOF", Location: time.UTC, GeneratedAt: day(31, 12)}
	if err := RenderPDF(&buf, st, opts); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}

	buf.Reset()
	empty := Statement{AccountNumber: "A", Period: january(t)}
	if err := RenderPDF(&buf, empty, opts); err != nil {
		t.Fatalf("RenderPDF empty: %v", err)
	}
}

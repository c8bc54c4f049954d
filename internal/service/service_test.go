package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/remotesync"
	"github.com/egabank/ega/internal/store"
)

type recordingSyncer struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingSyncer) record(call string) *remotesync.Ticket {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	return remotesync.Confirmed()
}

func (r *recordingSyncer) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingSyncer) PushClient(id string) *remotesync.Ticket {
	return r.record("push_client:" + id)
}

func (r *recordingSyncer) PushAccount(id string) *remotesync.Ticket {
	return r.record("push_account:" + id)
}

func (r *recordingSyncer) PushTransactions(ids ...string) *remotesync.Ticket {
	return r.record(fmt.Sprintf("push_transactions:%d", len(ids)))
}

func (r *recordingSyncer) DeleteTransactions(acc model.Account) *remotesync.Ticket {
	return r.record("delete_transactions:" + acc.Number)
}

func (r *recordingSyncer) DeleteAccount(acc model.Account) *remotesync.Ticket {
	return r.record("delete_account:" + acc.Number)
}

func (r *recordingSyncer) DeleteClient(c model.Client) *remotesync.Ticket {
	return r.record("delete_client:" + c.ID)
}

// faultRepo fails ledger writes that contain a transaction of type failOn.
type faultRepo struct {
	*store.Store
	failOn model.TransactionType
}

func (f *faultRepo) RecordMovement(id string, fn func(model.Account) (model.Account, model.Transaction, error)) (model.Account, model.Transaction, error) {
	return f.Store.RecordMovement(id, func(cur model.Account) (model.Account, model.Transaction, error) {
		next, tx, err := fn(cur)
		if err == nil && tx.Type == f.failOn {
			return cur, tx, errors.New("injected write failure")
		}
		return next, tx, err
	})
}

type fixture struct {
	svc    *Service
	store  *store.Store
	syncer *recordingSyncer
	client model.Client
}

var fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New(nil, nil)
	return newFixtureWithRepo(t, st, st)
}

func newFixtureWithRepo(t *testing.T, st *store.Store, repo Repository) *fixture {
	t.Helper()

	syncer := &recordingSyncer{}
	tick := fixedNow
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Minute)
		return tick
	}

	svc := NewService(repo, syncer, Config{Now: now})
	c, _, err := svc.Client.Create(testClient())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return &fixture{svc: svc, store: st, syncer: syncer, client: c}
}

func testClient() model.Client {
	return model.Client{
		LastName:  "diallo",
		FirstName: "awa",
		BirthDate: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Gender:    "f",
		Address:   "lome",
		Phone:     "90000000",
		Email:     "Awa@Example.com",
	}
}

func (f *fixture) open(t *testing.T, number string, balance int64) model.Account {
	t.Helper()
	acc, _, err := f.svc.Account.Open(OpenAccountInput{
		ClientID:       f.client.ID,
		Type:           model.AccountChecking,
		Number:         number,
		InitialBalance: balance,
	})
	if err != nil {
		t.Fatalf("open %s: %v", number, err)
	}
	return acc
}

func (f *fixture) balance(t *testing.T, number string) int64 {
	t.Helper()
	acc, err := f.store.AccountByNumber(number)
	if err != nil {
		t.Fatal(err)
	}
	return acc.Balance
}

func (f *fixture) verify(t *testing.T, numbers ...string) {
	t.Helper()
	for _, n := range numbers {
		if _, err := f.svc.Ledger.Verify(n); err != nil {
			t.Errorf("ledger invariant broken: %v", err)
		}
	}
}

const (
	accA = "10000000001"
	accB = "10000000002"
)

func TestDepositThenWithdrawRestoresBalance(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 25000)

	if _, err := f.svc.Ledger.Deposit(accA, 10000, "salaire", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Ledger.Withdraw(accA, 10000, ""); err != nil {
		t.Fatal(err)
	}

	if got := f.balance(t, accA); got != 25000 {
		t.Errorf("balance = %d, want 25000", got)
	}
	f.verify(t, accA)
}

func TestDepositSnapshots(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 0)

	r, err := f.svc.Ledger.Deposit(accA, 1500, "epargne", "")
	if err != nil {
		t.Fatal(err)
	}
	tx := r.Transactions[0]
	if tx.Type != model.TxDeposit || tx.BalanceBefore != 0 || tx.BalanceAfter != 1500 {
		t.Errorf("unexpected transaction %+v", tx)
	}
	if tx.ClientName != "DIALLO AWA" || tx.FundsOrigin != "epargne" {
		t.Errorf("snapshot fields: %+v", tx)
	}
	if !tx.Pending {
		t.Error("new transaction must be pending until confirmed")
	}
}

func TestLedgerValidation(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 10000)
	f.open(t, accB, 0)

	tests := []struct {
		name string
		op   func() error
		want error
	}{
		{"deposit zero", func() error { _, err := f.svc.Ledger.Deposit(accA, 0, "", ""); return err }, model.ErrInvalidAmount},
		{"deposit negative", func() error { _, err := f.svc.Ledger.Deposit(accA, -5, "", ""); return err }, model.ErrInvalidAmount},
		{"deposit unknown", func() error { _, err := f.svc.Ledger.Deposit("99999999999", 5, "", ""); return err }, model.ErrAccountNotFound},
		{"withdraw zero", func() error { _, err := f.svc.Ledger.Withdraw(accA, 0, ""); return err }, model.ErrInvalidAmount},
		{"withdraw too much", func() error { _, err := f.svc.Ledger.Withdraw(accA, 10001, ""); return err }, model.ErrInsufficientFunds},
		{"transfer same", func() error { _, err := f.svc.Ledger.Transfer(accA, accA, 5, ""); return err }, model.ErrSameAccount},
		{"transfer zero", func() error { _, err := f.svc.Ledger.Transfer(accA, accB, 0, ""); return err }, model.ErrInvalidAmount},
		{"transfer too much", func() error { _, err := f.svc.Ledger.Transfer(accA, accB, 20000, ""); return err }, model.ErrInsufficientFunds},
		{"transfer unknown destination", func() error { _, err := f.svc.Ledger.Transfer(accA, "99999999999", 5, ""); return err }, model.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beforeTx := f.store.Transactions.Len()
			beforeA, beforeB := f.balance(t, accA), f.balance(t, accB)

			if err := tt.op(); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}

			if f.store.Transactions.Len() != beforeTx {
				t.Error("a rejected operation appended a transaction")
			}
			if f.balance(t, accA) != beforeA || f.balance(t, accB) != beforeB {
				t.Error("a rejected operation changed a balance")
			}
		})
	}
}

func TestTransfer(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 10000)
	f.open(t, accB, 0)
	before := f.store.Transactions.Len()

	r, err := f.svc.Ledger.Transfer(accA, accB, 5000, "loyer")
	if err != nil {
		t.Fatal(err)
	}

	if f.balance(t, accA) != 5000 || f.balance(t, accB) != 5000 {
		t.Errorf("balances = %d, %d", f.balance(t, accA), f.balance(t, accB))
	}
	if n := f.store.Transactions.Len() - before; n != 2 {
		t.Fatalf("expected 2 new transactions, got %d", n)
	}

	sent, received := r.Transactions[0], r.Transactions[1]
	if sent.AccountNumber != accA || sent.CounterpartyNumber != accB {
		t.Errorf("sent leg = %+v", sent)
	}
	if received.AccountNumber != accB || received.CounterpartyNumber != accA {
		t.Errorf("received leg = %+v", received)
	}
	if model.ResolveSign(sent, accA) != model.Debit {
		t.Error("sent leg must be a debit from A")
	}
	if model.ResolveSign(received, accB) != model.Credit {
		t.Error("received leg must be a credit from B")
	}
	f.verify(t, accA, accB)
}

func TestPartialTransferCompensates(t *testing.T) {
	st := store.New(nil, nil)
	repo := &faultRepo{Store: st}
	f := newFixtureWithRepo(t, st, repo)
	f.open(t, accA, 10000)
	f.open(t, accB, 0)

	repo.failOn = model.TxTransferReceived
	r, err := f.svc.Ledger.Transfer(accA, accB, 4000, "")
	if !errors.Is(err, model.ErrPartialTransfer) {
		t.Fatalf("expected ErrPartialTransfer, got %v", err)
	}

	if f.balance(t, accA) != 10000 {
		t.Errorf("source not restored: %d", f.balance(t, accA))
	}
	if f.balance(t, accB) != 0 {
		t.Errorf("destination changed: %d", f.balance(t, accB))
	}
	if len(r.Transactions) != 2 || r.Transactions[1].Type != model.TxDeposit {
		t.Errorf("receipt must hold the sent leg and the compensation: %+v", r.Transactions)
	}
	f.verify(t, accA, accB)
}

func TestConcurrentOperationsKeepInvariant(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 100000)
	f.open(t, accB, 100000)

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 4 {
			case 0:
				f.svc.Ledger.Deposit(accA, 100, "", "")
			case 1:
				f.svc.Ledger.Withdraw(accB, 100, "")
			case 2:
				f.svc.Ledger.Transfer(accA, accB, 300, "")
			case 3:
				f.svc.Ledger.Transfer(accB, accA, 200, "")
			}
		}()
	}
	wg.Wait()

	// 10 of each: A +1000 -3000 +2000, B -1000 +3000 -2000
	if got := f.balance(t, accA); got != 100000 {
		t.Errorf("A = %d", got)
	}
	if got := f.balance(t, accB); got != 100000 {
		t.Errorf("B = %d", got)
	}
	f.verify(t, accA, accB)
}

func TestCorrect(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 5000)

	r, err := f.svc.Ledger.Correct(accA, 3000, "")
	if err != nil {
		t.Fatal(err)
	}
	if r.Transactions[0].Type != model.TxWithdrawal || r.Transactions[0].Amount != 2000 {
		t.Errorf("unexpected correction %+v", r.Transactions[0])
	}

	r, err = f.svc.Ledger.Correct(accA, 3000, "")
	if err != nil || len(r.Transactions) != 0 {
		t.Errorf("no-op correction recorded something: %+v %v", r.Transactions, err)
	}
	f.verify(t, accA)
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 100)
	f.svc.Ledger.Deposit(accA, 200, "", "")
	f.svc.Ledger.Deposit(accA, 300, "", "")

	txs, err := f.svc.Ledger.History(accA, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 || txs[0].Amount != 300 || txs[1].Amount != 200 {
		t.Errorf("history = %+v", txs)
	}
}

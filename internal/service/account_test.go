package service

import (
	"errors"
	"testing"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
)

func TestOpenAccountRecordsInitialBalance(t *testing.T) {
	f := newFixture(t)
	acc := f.open(t, "", 7500)

	if len(acc.Number) != constants.AccountNumberLen {
		t.Errorf("generated number %q", acc.Number)
	}
	if acc.Balance != 7500 {
		t.Errorf("balance = %d", acc.Balance)
	}

	txs := f.store.TransactionsOf(acc.Number)
	if len(txs) != 1 || txs[0].Type != model.TxDeposit || txs[0].Description != constants.OpeningBalanceMemo {
		t.Fatalf("opening deposit = %+v", txs)
	}
	f.verify(t, acc.Number)
}

func TestOpenAccountValidation(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 0)

	tests := []struct {
		name string
		in   OpenAccountInput
		want error
	}{
		{"unknown client", OpenAccountInput{ClientID: "clt-missing", Type: model.AccountSavings}, model.ErrClientNotFound},
		{"bad type", OpenAccountInput{ClientID: f.client.ID, Type: "JOINT"}, model.ErrInvalidAccountType},
		{"negative balance", OpenAccountInput{ClientID: f.client.ID, Type: model.AccountSavings, InitialBalance: -1}, model.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := f.svc.Account.Open(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, _, err := f.svc.Account.Open(OpenAccountInput{ClientID: f.client.ID, Type: model.AccountSavings, Number: accA}); err == nil {
		t.Error("duplicate number accepted")
	}
}

func TestUpdateAccountOnlyTypeAndOwner(t *testing.T) {
	f := newFixture(t)
	acc := f.open(t, accA, 1000)
	other, _, err := f.svc.Client.Create(testClient())
	if err != nil {
		t.Fatal(err)
	}

	savings := model.AccountSavings
	updated, _, err := f.svc.Account.Update(acc.ID, AccountUpdate{Type: &savings, ClientID: &other.ID})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Type != model.AccountSavings || updated.ClientID != other.ID {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Balance != 1000 || updated.Number != accA {
		t.Error("update touched the balance or number")
	}

	missing := "clt-missing"
	if _, _, err := f.svc.Account.Update(acc.ID, AccountUpdate{ClientID: &missing}); !errors.Is(err, model.ErrClientNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 1000)
	f.open(t, accB, 2000)

	st := f.svc.Account.Stats()
	if st.Clients != 1 || st.Accounts != 2 || st.TotalBalance != 3000 || st.ByType[model.AccountChecking] != 2 {
		t.Errorf("stats = %+v", st)
	}
	if st.Transactions != 2 {
		t.Errorf("transactions = %d", st.Transactions)
	}
}

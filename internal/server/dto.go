package server

import (
	"time"

	"github.com/egabank/ega/internal/auth"
	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/money"
	"github.com/egabank/ega/internal/service"
	"github.com/egabank/ega/internal/statement"
)

type loginRequest struct {
	Code          string `json:"code,omitempty"`
	AccountNumber string `json:"numeroCompte,omitempty"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Session   auth.Session `json:"session"`
}

type depositRequest struct {
	Amount      money.Amount `json:"montant"`
	Origin      string       `json:"origineFonds"`
	Description string       `json:"description"`
}

type withdrawRequest struct {
	Amount      money.Amount `json:"montant"`
	Description string       `json:"description"`
}

type transferRequest struct {
	Destination string       `json:"compteDestination"`
	Amount      money.Amount `json:"montant"`
	Description string       `json:"description"`
}

type accountView struct {
	ID        string       `json:"id"`
	Number    string       `json:"numeroCompte"`
	Type      string       `json:"typeCompte"`
	Balance   money.Amount `json:"solde"`
	CreatedAt string       `json:"dateCreation"`
	ClientID  string       `json:"clientId"`
	Pending   bool         `json:"pending"`
}

func toAccountView(a model.Account) accountView {
	return accountView{
		ID:        a.ID,
		Number:    a.Number,
		Type:      string(a.Type),
		Balance:   money.Amount(a.Balance),
		CreatedAt: a.CreatedAt.Format(constants.DateFormat),
		ClientID:  a.ClientID,
		Pending:   a.Pending,
	}
}

type transactionView struct {
	ID            string       `json:"id"`
	Timestamp     time.Time    `json:"dateTransaction"`
	Type          string       `json:"type"`
	Amount        money.Amount `json:"montant"`
	BalanceBefore money.Amount `json:"montantAvant"`
	BalanceAfter  money.Amount `json:"montantApres"`
	AccountNumber string       `json:"numeroCompte"`
	Counterparty  string       `json:"compteDestination,omitempty"`
	ClientName    string       `json:"nomClient,omitempty"`
	FundsOrigin   string       `json:"origineFonds,omitempty"`
	Description   string       `json:"description,omitempty"`
}

func toTransactionView(tx model.Transaction) transactionView {
	return transactionView{
		ID:            tx.ID,
		Timestamp:     tx.Timestamp,
		Type:          string(tx.Type),
		Amount:        money.Amount(tx.Amount),
		BalanceBefore: money.Amount(tx.BalanceBefore),
		BalanceAfter:  money.Amount(tx.BalanceAfter),
		AccountNumber: tx.AccountNumber,
		Counterparty:  tx.CounterpartyNumber,
		ClientName:    tx.ClientName,
		FundsOrigin:   tx.FundsOrigin,
		Description:   tx.Description,
	}
}

func toTransactionViews(txs []model.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionView(tx))
	}
	return out
}

type receiptView struct {
	Transactions []transactionView       `json:"transactions"`
	Balances     map[string]money.Amount `json:"soldes"`
}

func toReceiptView(r service.Receipt) receiptView {
	balances := make(map[string]money.Amount, len(r.Accounts))
	for _, a := range r.Accounts {
		balances[a.Number] = money.Amount(a.Balance)
	}
	return receiptView{
		Transactions: toTransactionViews(r.Transactions),
		Balances:     balances,
	}
}

type entryView struct {
	TransactionID string       `json:"idTransaction"`
	Date          time.Time    `json:"date"`
	Type          string       `json:"type"`
	Label         string       `json:"libelle"`
	Amount        money.Amount `json:"montant"`
	Balance       money.Amount `json:"solde"`
	Counterparty  string       `json:"contrepartie,omitempty"`
	Description   string       `json:"description,omitempty"`
}

type statementView struct {
	AccountNumber string       `json:"numeroCompte"`
	AccountType   string       `json:"typeCompte"`
	Holder        string       `json:"titulaire"`
	Start         string       `json:"dateDebut"`
	End           string       `json:"dateFin"`
	Opening       money.Amount `json:"soldeInitial"`
	Closing       money.Amount `json:"soldeFinal"`
	TotalCredits  money.Amount `json:"totalCredits"`
	TotalDebits   money.Amount `json:"totalDebits"`
	Count         int          `json:"nombreTransactions"`
	Entries       []entryView  `json:"operations"`
}

func toStatementView(st statement.Statement) statementView {
	entries := make([]entryView, 0, len(st.Entries))
	for _, e := range st.Entries {
		entries = append(entries, entryView{
			TransactionID: e.TransactionID,
			Date:          e.Date,
			Type:          string(e.Type),
			Label:         e.Label,
			Amount:        money.Amount(e.Amount),
			Balance:       money.Amount(e.Balance),
			Counterparty:  e.Counterparty,
			Description:   e.Description,
		})
	}
	return statementView{
		AccountNumber: st.AccountNumber,
		AccountType:   string(st.AccountType),
		Holder:        st.Holder,
		Start:         st.Period.FirstDay().Format(constants.DateFormat),
		End:           st.Period.LastDay().Format(constants.DateFormat),
		Opening:       money.Amount(st.Opening),
		Closing:       money.Amount(st.Closing),
		TotalCredits:  money.Amount(st.TotalCredits),
		TotalDebits:   money.Amount(st.TotalDebits),
		Count:         st.Count(),
		Entries:       entries,
	}
}

package model

import "time"

type TransactionType string

const (
	TxDeposit          TransactionType = "DEPOT"
	TxWithdrawal       TransactionType = "RETRAIT"
	TxTransferSent     TransactionType = "VIREMENT_EMIS"
	TxTransferReceived TransactionType = "VIREMENT_RECU"

	// TxTransfer is the unified single-record transfer shape: debit for the
	// account in AccountNumber, credit for CounterpartyNumber.
	TxTransfer TransactionType = "VIREMENT"
)

func (t TransactionType) IsTransfer() bool {
	return t == TxTransfer || t == TxTransferSent || t == TxTransferReceived
}

// Transaction is immutable once appended. Balance snapshots refer to the
// account in AccountNumber.
type Transaction struct {
	ID                 string          `json:"id"`
	Timestamp          time.Time       `json:"dateTransaction"`
	Type               TransactionType `json:"type"`
	Amount             int64           `json:"montant"`
	BalanceBefore      int64           `json:"montantAvant"`
	BalanceAfter       int64           `json:"montantApres"`
	AccountNumber      string          `json:"numeroCompte"`
	CounterpartyNumber string          `json:"compteDestination,omitempty"`
	ClientName         string          `json:"nomClient,omitempty"`
	FundsOrigin        string          `json:"origineFonds,omitempty"`
	Description        string          `json:"description,omitempty"`
	Sync
}

func (t Transaction) Key() string { return t.ID }

// BelongsTo reports whether the transaction is part of the ledger of the
// given account. A split transfer leg recorded against another account is
// not: that account has its own mirrored leg.
func (t Transaction) BelongsTo(accountNumber string) bool {
	if t.AccountNumber == accountNumber {
		return true
	}
	return t.Type == TxTransfer && t.CounterpartyNumber == accountNumber
}

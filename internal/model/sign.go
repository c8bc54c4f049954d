package model

// Direction is the effect of a transaction on the viewed account.
type Direction int

const (
	NotInvolved Direction = iota
	Credit
	Debit
)

// ResolveSign returns the direction of tx as seen from the account
// viewpoint. Direction is never stored; it is derived from the type and from
// which side of the record the viewpoint sits on.
func ResolveSign(tx Transaction, viewpoint string) Direction {
	if !tx.BelongsTo(viewpoint) {
		return NotInvolved
	}

	switch tx.Type {
	case TxDeposit, TxTransferReceived:
		return Credit
	case TxWithdrawal, TxTransferSent:
		return Debit
	case TxTransfer:
		if tx.AccountNumber == viewpoint {
			return Debit
		}
		return Credit
	default:
		return NotInvolved
	}
}

// SignedAmount is Amount with the sign of ResolveSign applied.
func SignedAmount(tx Transaction, viewpoint string) int64 {
	switch ResolveSign(tx, viewpoint) {
	case Credit:
		return tx.Amount
	case Debit:
		return -tx.Amount
	default:
		return 0
	}
}

// Counterparty returns the account number on the other side of a transfer
// from the viewpoint, or "" for non-transfers.
func Counterparty(tx Transaction, viewpoint string) string {
	if !tx.Type.IsTransfer() {
		return ""
	}
	if tx.AccountNumber == viewpoint {
		return tx.CounterpartyNumber
	}
	return tx.AccountNumber
}

// Label is the display type of tx from the viewpoint.
func Label(tx Transaction, viewpoint string) string {
	switch tx.Type {
	case TxDeposit:
		return "Dépôt"
	case TxWithdrawal:
		return "Retrait"
	case TxTransferSent:
		return "Virement émis"
	case TxTransferReceived:
		return "Virement reçu"
	case TxTransfer:
		if ResolveSign(tx, viewpoint) == Credit {
			return "Virement reçu"
		}
		return "Virement émis"
	default:
		return string(tx.Type)
	}
}

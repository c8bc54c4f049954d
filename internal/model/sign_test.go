package model

import "testing"

func TestResolveSign(t *testing.T) {
	tests := []struct {
		name      string
		tx        Transaction
		viewpoint string
		want      Direction
		label     string
	}{
		{"deposit", Transaction{Type: TxDeposit, AccountNumber: "A"}, "A", Credit, "Dépôt"},
		{"withdrawal", Transaction{Type: TxWithdrawal, AccountNumber: "A"}, "A", Debit, "Retrait"},
		{"sent leg", Transaction{Type: TxTransferSent, AccountNumber: "A", CounterpartyNumber: "B"}, "A", Debit, "Virement émis"},
		{"received leg", Transaction{Type: TxTransferReceived, AccountNumber: "B", CounterpartyNumber: "A"}, "B", Credit, "Virement reçu"},
		{"sent leg seen from counterparty", Transaction{Type: TxTransferSent, AccountNumber: "A", CounterpartyNumber: "B"}, "B", NotInvolved, "Virement émis"},
		{"unified from source", Transaction{Type: TxTransfer, AccountNumber: "A", CounterpartyNumber: "B"}, "A", Debit, "Virement émis"},
		{"unified from destination", Transaction{Type: TxTransfer, AccountNumber: "A", CounterpartyNumber: "B"}, "B", Credit, "Virement reçu"},
		{"unrelated", Transaction{Type: TxDeposit, AccountNumber: "A"}, "C", NotInvolved, "Dépôt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveSign(tt.tx, tt.viewpoint); got != tt.want {
				t.Errorf("ResolveSign = %v, want %v", got, tt.want)
			}
			if got := Label(tt.tx, tt.viewpoint); got != tt.label {
				t.Errorf("Label = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestSignedAmount(t *testing.T) {
	tx := Transaction{Type: TxTransfer, Amount: 500, AccountNumber: "A", CounterpartyNumber: "B"}
	if got := SignedAmount(tx, "A"); got != -500 {
		t.Errorf("source: got %d", got)
	}
	if got := SignedAmount(tx, "B"); got != 500 {
		t.Errorf("destination: got %d", got)
	}
	if got := Counterparty(tx, "B"); got != "A" {
		t.Errorf("counterparty from B = %q", got)
	}
}

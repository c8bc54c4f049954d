package views

import (
	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/ui"
	"github.com/pterm/pterm"
)

type TransactionListView struct{}

func NewTransactionListView() *TransactionListView {
	return &TransactionListView{}
}

// Render prints the ledger of one account, from that account's viewpoint.
func (v *TransactionListView) Render(accountNumber string, txs []model.Transaction, limit int) error {
	if len(txs) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Printf("Transactions of %s (limit: %d)", accountNumber, limit)

	tableData := pterm.TableData{
		{"Date", "Type", "Counterparty", "Description", "Amount", "Balance After"},
	}

	for _, tx := range txs {
		label := model.Label(tx, accountNumber)
		var coloredType string
		switch model.ResolveSign(tx, accountNumber) {
		case model.Credit:
			coloredType = pterm.Green(label)
		case model.Debit:
			coloredType = pterm.Red(label)
		default:
			coloredType = label
		}

		after := ""
		if tx.AccountNumber == accountNumber {
			after = ui.Amount(tx.BalanceAfter, "")
		}

		desc := tx.Description
		if desc == "" {
			desc = tx.FundsOrigin
		}

		tableData = append(tableData, []string{
			tx.Timestamp.Format(constants.DateTimeFormat),
			coloredType,
			model.Counterparty(tx, accountNumber),
			desc,
			ui.SignedAmount(model.SignedAmount(tx, accountNumber)),
			after,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(txs))
	return nil
}

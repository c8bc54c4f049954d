package views

import (
	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/service"
	"github.com/egabank/ega/internal/ui"
	"github.com/pterm/pterm"
)

// RenderReceipt prints the records appended by a ledger operation and the
// resulting balances.
func RenderReceipt(title string, r service.Receipt, currency string) error {
	pterm.DefaultSection.Println(title)

	tableData := pterm.TableData{{"Account", "Type", "Amount", "Before", "After", "Date"}}
	for _, tx := range r.Transactions {
		tableData = append(tableData, []string{
			tx.AccountNumber,
			model.Label(tx, tx.AccountNumber),
			ui.SignedAmount(model.SignedAmount(tx, tx.AccountNumber)),
			ui.Amount(tx.BalanceBefore, ""),
			ui.Amount(tx.BalanceAfter, ""),
			tx.Timestamp.Format(constants.DateTimeFormat),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i := len(r.Accounts) - 1; i >= 0; i-- {
		acc := r.Accounts[i]
		if seen[acc.Number] {
			continue
		}
		seen[acc.Number] = true
		pterm.Success.Printf("%s balance: %s\n", acc.Number, ui.Amount(acc.Balance, currency))
	}
	return nil
}

type DeletePreviewItem struct {
	Kind         string
	Label        string
	Accounts     int
	Transactions int
}

func RenderDeletePreview(data DeletePreviewItem) {
	pterm.Warning.Printf("About to delete %s %s:\n", data.Kind, data.Label)

	deletionInfo := pterm.TableData{
		{"Accounts", pterm.Sprint(data.Accounts)},
		{"Transactions", pterm.Sprint(data.Transactions)},
	}

	pterm.DefaultTable.WithData(deletionInfo).Render()
	pterm.Warning.Println("This action cannot be undone!")
}

func RenderDeleteReport(kind, label string, r service.DeleteReport) {
	pterm.Success.Printf("%s %s deleted (%d accounts, %d transactions)\n", kind, label, r.Accounts, r.Transactions)
	ui.Separator()
}

func RenderNoChange(accountNumber string) {
	pterm.Info.Printf("Balance of %s already matches, nothing recorded\n", accountNumber)
}

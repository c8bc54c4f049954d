package views

import (
	"fmt"
	"slices"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/service"
	"github.com/egabank/ega/internal/ui"
	"github.com/pterm/pterm"
)

type AccountListView struct{}

func NewAccountListView() *AccountListView {
	return &AccountListView{}
}

// Render prints accounts. holder may be nil when the owner is already known
// from context.
func (v *AccountListView) Render(accounts []model.Account, holder func(clientID string) string, currency string) error {
	if len(accounts) == 0 {
		pterm.Warning.Println("No accounts found")
		return nil
	}

	headers := []string{"Number", "Type", "Balance", "Opened"}
	if holder != nil {
		headers = append(headers, "Holder")
	}
	headers = append(headers, "Sync")
	tableData := pterm.TableData{headers}

	for _, acc := range accounts {
		var coloredType string
		switch acc.Type {
		case model.AccountSavings:
			coloredType = pterm.Green(acc.Type.Label())
		case model.AccountChecking:
			coloredType = pterm.Blue(acc.Type.Label())
		default:
			coloredType = string(acc.Type)
		}

		row := []string{
			acc.Number,
			coloredType,
			ui.Amount(acc.Balance, currency),
			acc.CreatedAt.Format(constants.DisplayDateFormat),
		}
		if holder != nil {
			row = append(row, holder(acc.ClientID))
		}
		row = append(row, syncStatus(acc.Sync))
		tableData = append(tableData, row)
	}

	pterm.DefaultSection.Printf("Account List")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d accounts\n", len(accounts))
	return nil
}

func RenderAccountDetail(acc model.Account, holderName, currency string, verified int64) error {
	ui.Separator()

	consistency := pterm.Green("OK")
	if verified != acc.Balance {
		consistency = pterm.Red(fmt.Sprintf("ledger replays to %s", ui.Amount(verified, currency)))
	}

	tableData := pterm.TableData{
		{pterm.Blue("Number"), acc.Number},
		{pterm.Blue("Type"), acc.Type.Label()},
		{pterm.Blue("Holder"), holderName},
		{pterm.Blue("Balance"), ui.Amount(acc.Balance, currency)},
		{pterm.Blue("Opened"), acc.CreatedAt.Format(constants.DisplayDateFormat)},
		{pterm.Blue("Ledger"), consistency},
		{pterm.Blue("Sync"), syncStatus(acc.Sync)},
	}
	return pterm.DefaultTable.WithData(tableData).Render()
}

func RenderStats(s service.Stats, currency string) error {
	pterm.DefaultSection.Println("Bank Overview")

	tableData := pterm.TableData{
		{"Clients", fmt.Sprint(s.Clients)},
		{"Accounts", fmt.Sprint(s.Accounts)},
		{"Transactions", fmt.Sprint(s.Transactions)},
		{"Total Balance", ui.Amount(s.TotalBalance, currency)},
	}

	types := make([]model.AccountType, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		tableData = append(tableData, []string{"  " + t.Label(), fmt.Sprint(s.ByType[t])})
	}

	pending := fmt.Sprint(s.Pending)
	if s.Pending > 0 {
		pending = pterm.Yellow(pending)
	}
	tableData = append(tableData, []string{"Pending Sync", pending})

	return pterm.DefaultTable.WithData(tableData).Render()
}

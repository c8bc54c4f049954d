package views

import (
	"fmt"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/statement"
	"github.com/egabank/ega/internal/ui"
	"github.com/pterm/pterm"
)

func RenderStatement(st statement.Statement, currency string) error {
	ui.PrintL1Title("RELEVÉ DE COMPTE %s", st.AccountNumber)

	period := fmt.Sprintf("%s - %s",
		st.Period.FirstDay().Format(constants.DisplayDateFormat),
		st.Period.LastDay().Format(constants.DisplayDateFormat))

	info := pterm.TableData{
		{pterm.Blue("Holder"), st.Holder},
		{pterm.Blue("Type"), st.AccountType.Label()},
		{pterm.Blue("Period"), period},
		{pterm.Blue("Opening Balance"), ui.Amount(st.Opening, currency)},
	}
	if err := pterm.DefaultTable.WithData(info).Render(); err != nil {
		return err
	}

	if st.Count() == 0 {
		pterm.Info.Println("No movements in this period")
	} else {
		tableData := pterm.TableData{{"Date", "Type", "Counterparty", "Description", "Amount", "Balance"}}
		for _, e := range st.Entries {
			tableData = append(tableData, []string{
				e.Date.Format(constants.DisplayDateFormat),
				e.Label,
				e.Counterparty,
				e.Description,
				ui.SignedAmount(e.Amount),
				ui.Amount(e.Balance, ""),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
			return err
		}
	}

	ui.PrintL2Title("Summary")
	summary := pterm.TableData{
		{"Total Credits", pterm.Green(ui.Amount(st.TotalCredits, currency))},
		{"Total Debits", pterm.Red(ui.Amount(st.TotalDebits, currency))},
		{"Movements", fmt.Sprint(st.Count())},
		{"Closing Balance", ui.Amount(st.Closing, currency)},
	}
	return pterm.DefaultTable.WithData(summary).Render()
}

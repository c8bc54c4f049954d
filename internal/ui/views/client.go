package views

import (
	"fmt"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/ui"
	"github.com/pterm/pterm"
)

type ClientListView struct{}

func NewClientListView() *ClientListView {
	return &ClientListView{}
}

// Render prints clients with their number of accounts.
func (v *ClientListView) Render(clients []model.Client, accountCount func(clientID string) int) error {
	if len(clients) == 0 {
		pterm.Warning.Println("No clients found")
		return nil
	}

	tableData := pterm.TableData{{"ID", "Name", "Email", "Phone", "Accounts", "Sync"}}
	for _, c := range clients {
		tableData = append(tableData, []string{
			c.ID,
			c.FullName(),
			c.Email,
			c.Phone,
			fmt.Sprint(accountCount(c.ID)),
			syncStatus(c.Sync),
		})
	}

	pterm.DefaultSection.Printf("Client List")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d clients\n", len(clients))
	return nil
}

func RenderClientDetail(c model.Client, accounts []model.Account, currency string) error {
	ui.Separator()

	birth := ""
	if !c.BirthDate.IsZero() {
		birth = c.BirthDate.Format(constants.DisplayDateFormat)
	}

	tableData := pterm.TableData{
		{pterm.Blue("ID"), c.ID},
		{pterm.Blue("Name"), c.FullName()},
		{pterm.Blue("Birth Date"), birth},
		{pterm.Blue("Gender"), c.Gender},
		{pterm.Blue("Address"), c.Address},
		{pterm.Blue("Phone"), c.Phone},
		{pterm.Blue("Nationality"), c.Nationality},
		{pterm.Blue("Email"), c.Email},
		{pterm.Blue("Sync"), syncStatus(c.Sync)},
	}
	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	if len(accounts) == 0 {
		pterm.Info.Println("This client has no accounts")
		return nil
	}
	return NewAccountListView().Render(accounts, nil, currency)
}

func syncStatus(s model.Sync) string {
	switch {
	case s.Pending:
		return pterm.Yellow("pending")
	case s.Synced():
		return pterm.Green(fmt.Sprintf("#%d", s.RemoteID))
	default:
		return pterm.Gray("local")
	}
}

// RenderClientTree prints every client with its accounts beneath it.
func RenderClientTree(clients []model.Client, accountsOf func(clientID string) []model.Account, currency string) error {
	var treeData []pterm.TreeNode
	accounts := 0
	for _, c := range clients {
		node := pterm.TreeNode{Text: fmt.Sprintf("%s %s", c.FullName(), pterm.Gray(c.ID))}
		for _, acc := range accountsOf(c.ID) {
			accounts++
			node.Children = append(node.Children, pterm.TreeNode{
				Text: fmt.Sprintf("%s %s | %s", acc.Number, acc.Type.Label(), pterm.Green(ui.Amount(acc.Balance, currency))),
			})
		}
		treeData = append(treeData, node)
	}

	pterm.DefaultSection.Println("Client Tree")
	if err := pterm.DefaultTree.WithRoot(pterm.TreeNode{Text: "Clients", Children: treeData}).Render(); err != nil {
		return err
	}
	pterm.Println()
	pterm.Info.Printf("Total: %d clients, %d accounts\n", len(clients), accounts)
	return nil
}

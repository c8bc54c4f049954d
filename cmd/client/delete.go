package client

import (
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/errhandler"
	"github.com/egabank/ega/internal/ui"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type deleteFlags struct {
	Yes bool
}

func NewDeleteCmd(env *app.Env) *cobra.Command {
	flags := &deleteFlags{}

	cmd := &cobra.Command{
		Use:   "delete <client-id|account-number>",
		Short: "Delete a client with all its accounts and transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Session.RequireAdmin(); err != nil {
				return err
			}

			c, err := env.Service.Client.Resolve(args[0])
			if err != nil {
				return err
			}

			accounts := env.Service.Account.ListByClient(c.ID)
			txCount := 0
			for _, acc := range accounts {
				txCount += len(env.Store.TransactionsOf(acc.Number))
			}
			views.RenderDeletePreview(views.DeletePreviewItem{
				Kind:         "client",
				Label:        c.FullName(),
				Accounts:     len(accounts),
				Transactions: txCount,
			})

			if !flags.Yes {
				confirm, err := ui.ConfirmDestructive("Delete this client?")
				if err != nil {
					return err
				}
				if !confirm {
					pterm.Info.Println("Deletion cancelled")
					return nil
				}
			}

			report, err := env.Service.Client.Delete(c.ID)
			if err != nil {
				return err
			}
			views.RenderDeleteReport("Client", c.FullName(), report)
			errhandler.Warn(env.AwaitSync(cmd.Context(), report.Sync))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

package account

import (
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/errhandler"
	"github.com/egabank/ega/internal/ui"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func NewDeleteCmd(env *app.Env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <account-number>",
		Short: "Delete an account and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Session.RequireAdmin(); err != nil {
				return err
			}

			acc, err := env.Service.Account.Resolve(args[0])
			if err != nil {
				return err
			}

			views.RenderDeletePreview(views.DeletePreviewItem{
				Kind:         "account",
				Label:        acc.Number,
				Accounts:     1,
				Transactions: len(env.Store.TransactionsOf(acc.Number)),
			})
			if acc.Balance != 0 {
				pterm.Warning.Printf("The account still holds %s\n", ui.Amount(acc.Balance, env.Currency()))
			}

			if !yes {
				confirm, err := ui.ConfirmDestructive("Delete this account?")
				if err != nil {
					return err
				}
				if !confirm {
					pterm.Info.Println("Deletion cancelled")
					return nil
				}
			}

			report, err := env.Service.Account.Delete(acc.ID)
			if err != nil {
				return err
			}
			views.RenderDeleteReport("Account", acc.Number, report)
			errhandler.Warn(env.AwaitSync(cmd.Context(), report.Sync))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

package account

import (
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/errhandler"
	"github.com/egabank/ega/internal/money"
	"github.com/egabank/ega/internal/ui/prompts"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/spf13/cobra"
)

func NewCorrectCmd(env *app.Env) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "correct <account-number> <new-balance>",
		Short: "Set a balance by recording the difference as a transaction",
		Long: `Set a balance administratively. The difference is appended to the
ledger as a deposit or a withdrawal so the history still explains the balance.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Session.RequireAdmin(); err != nil {
				return err
			}

			acc, err := env.Service.Account.Resolve(args[0])
			if err != nil {
				return err
			}
			target, err := money.Parse(args[1])
			if err != nil {
				return err
			}
			if reason == "" {
				reason, err = prompts.PromptDescription("Reason for the correction:", false)
				if err != nil {
					return err
				}
			}

			receipt, err := env.Service.Ledger.Correct(acc.Number, target, reason)
			if err != nil {
				return err
			}
			if len(receipt.Transactions) == 0 {
				views.RenderNoChange(acc.Number)
				return nil
			}
			if err := views.RenderReceipt("Balance Correction", receipt, env.Currency()); err != nil {
				return err
			}
			errhandler.Warn(env.AwaitSync(cmd.Context(), receipt.Sync))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason recorded on the correcting transaction")

	return cmd
}

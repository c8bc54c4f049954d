package account

import (
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/spf13/cobra"
)

func NewShowCmd(env *app.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account-number>",
		Short: "Show an account and check its ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := env.Service.Account.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := env.Session.CanAccessAccount(acc.Number); err != nil {
				return err
			}

			verified, _ := env.Service.Ledger.Verify(acc.Number)
			return views.RenderAccountDetail(acc, env.Holder(acc.ClientID), env.Currency(), verified)
		},
	}
}

package account

import (
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/errhandler"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/service"
	"github.com/egabank/ega/internal/ui/prompts"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type updateFlags struct {
	Type   string
	Client string
}

func NewUpdateCmd(env *app.Env) *cobra.Command {
	flags := &updateFlags{}

	cmd := &cobra.Command{
		Use:   "update <account-number>",
		Short: "Change the type or the owner of an account",
		Long: `Change the type or the owner of an account. The balance can only be
changed through a ledger operation or 'ega account correct'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Session.RequireAdmin(); err != nil {
				return err
			}

			acc, err := env.Service.Account.Resolve(args[0])
			if err != nil {
				return err
			}

			var upd service.AccountUpdate
			if cmd.Flags().Changed("type") {
				t, err := model.ParseAccountType(flags.Type)
				if err != nil {
					return err
				}
				upd.Type = &t
			}
			if cmd.Flags().Changed("client") {
				owner, err := env.Service.Client.Resolve(flags.Client)
				if err != nil {
					return err
				}
				upd.ClientID = &owner.ID
			}
			if upd.Type == nil && upd.ClientID == nil {
				t, err := prompts.PromptAccountType(acc.Type)
				if err != nil {
					return err
				}
				upd.Type = &t
			}

			updated, ticket, err := env.Service.Account.Update(acc.ID, upd)
			if err != nil {
				return err
			}

			pterm.Success.Printf("Account %s updated\n", updated.Number)
			errhandler.Warn(env.AwaitSync(cmd.Context(), ticket))

			verified, _ := env.Service.Ledger.Verify(updated.Number)
			return views.RenderAccountDetail(updated, env.Holder(updated.ClientID), env.Currency(), verified)
		},
	}

	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "New type: COURANT or EPARGNE")
	cmd.Flags().StringVar(&flags.Client, "client", "", "New owner (client id)")

	return cmd
}

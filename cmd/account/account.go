package account

import (
	"github.com/egabank/ega/internal/app"
	"github.com/spf13/cobra"
)

func NewAccountCmd(env *app.Env) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "It can open, show, update, delete accounts and correct a balance.",
		Long:  `It can open, show, update, delete accounts and correct a balance.`,
	}

	accountCmd.AddCommand(NewCreateCmd(env))
	accountCmd.AddCommand(NewListCmd(env))
	accountCmd.AddCommand(NewShowCmd(env))
	accountCmd.AddCommand(NewUpdateCmd(env))
	accountCmd.AddCommand(NewDeleteCmd(env))
	accountCmd.AddCommand(NewCorrectCmd(env))

	return accountCmd
}

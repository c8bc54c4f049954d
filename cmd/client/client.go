package client

import (
	"github.com/egabank/ega/internal/app"
	"github.com/spf13/cobra"
)

func NewClientCmd(env *app.Env) *cobra.Command {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Create, show, update, delete and search bank clients.",
		Long:  `Create, show, update, delete and search bank clients.`,
	}

	clientCmd.AddCommand(NewCreateCmd(env))
	clientCmd.AddCommand(NewListCmd(env))
	clientCmd.AddCommand(NewSearchCmd(env))
	clientCmd.AddCommand(NewShowCmd(env))
	clientCmd.AddCommand(NewUpdateCmd(env))
	clientCmd.AddCommand(NewDeleteCmd(env))

	return clientCmd
}

package client

import (
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/spf13/cobra"
)

func NewShowCmd(env *app.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <client-id|account-number>",
		Short: "Show a client and its accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := env.Service.Client.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := env.Session.CanAccessClient(c.ID); err != nil {
				return err
			}
			return views.RenderClientDetail(c, env.Service.Account.ListByClient(c.ID), env.Currency())
		},
	}
}

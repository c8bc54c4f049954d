package account

import (
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/spf13/cobra"
)

type listFlags struct {
	Client string
	Stats  bool
}

type ListCommandRunner struct {
	env   *app.Env
	flags *listFlags
}

func NewListCmd(env *app.Env) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts (alias: ls)",
		Long: `List accounts. A client session only sees the account it logged in
with. With --stats the bank totals are shown as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ListCommandRunner{env: env, flags: flags}
			return runner.Run()
		},
	}

	cmd.Flags().StringVar(&flags.Client, "client", "", "Only accounts of this client (id or account number)")
	cmd.Flags().BoolVarP(&flags.Stats, "stats", "s", false, "Show totals by account type")

	return cmd
}

func (r *ListCommandRunner) Run() error {
	var accounts []model.Account

	switch {
	case !r.env.Session.IsAdmin():
		acc, err := r.env.Service.Account.ByNumber(r.env.Session.AccountNumber)
		if err != nil {
			return err
		}
		accounts = []model.Account{acc}
	case r.flags.Client != "":
		owner, err := r.env.Service.Client.Resolve(r.flags.Client)
		if err != nil {
			return err
		}
		accounts = r.env.Service.Account.ListByClient(owner.ID)
	default:
		accounts = r.env.Service.Account.List()
	}

	if err := views.NewAccountListView().Render(accounts, r.env.Holder, r.env.Currency()); err != nil {
		return err
	}

	if r.flags.Stats {
		if err := r.env.Session.RequireAdmin(); err != nil {
			return err
		}
		return views.RenderStats(r.env.Service.Account.Stats(), r.env.Currency())
	}
	return nil
}

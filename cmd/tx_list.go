package cmd

import (
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/spf13/cobra"
)

type txListFlags struct {
	Number string
	Limit  int
}

type txListRunner struct {
	env   *app.Env
	flags *txListFlags
}

func NewTxListCmd(env *app.Env) *cobra.Command {
	flags := &txListFlags{}

	cmd := &cobra.Command{
		Use:     "tx-list [account-number]",
		Aliases: []string{"history"},
		Short:   "Show the transaction history of an account, newest first",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.Number = args[0]
			}
			runner := &txListRunner{env: env, flags: flags}
			return runner.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.Number, "number", "n", "", "Account number (defaults to the session account)")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 20, "Maximum rows to show, 0 for all")

	return cmd
}

func (r *txListRunner) Run() error {
	number := r.flags.Number
	if number == "" {
		number = r.env.Session.AccountNumber
	}
	acc, err := r.env.Service.Account.Resolve(number)
	if err != nil {
		return err
	}
	if err := r.env.Session.CanAccessAccount(acc.Number); err != nil {
		return err
	}

	txs, err := r.env.Service.Ledger.History(acc.Number, r.flags.Limit)
	if err != nil {
		return err
	}
	return views.NewTransactionListView().Render(acc.Number, txs, r.flags.Limit)
}

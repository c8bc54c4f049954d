package client

import (
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/errhandler"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/ui/prompts"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type UpdateCommandRunner struct {
	env   *app.Env
	flags *clientFlags
	cmd   *cobra.Command
	ref   string
}

func NewUpdateCmd(env *app.Env) *cobra.Command {
	flags := &clientFlags{}

	cmd := &cobra.Command{
		Use:   "update <client-id|account-number>",
		Short: "Change a client's identity fields",
		Long: `Change a client's identity fields. Only the flags given are changed;
without flags the form is shown prefilled with the current values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &UpdateCommandRunner{env: env, flags: flags, cmd: cmd, ref: args[0]}
			return runner.Run()
		},
	}
	flags.bind(cmd)

	return cmd
}

func (r *UpdateCommandRunner) Run() error {
	if err := r.env.Session.RequireAdmin(); err != nil {
		return err
	}

	cur, err := r.env.Service.Client.Resolve(r.ref)
	if err != nil {
		return err
	}

	var in model.Client
	if r.flags.changed(r.cmd) {
		in, err = r.flags.apply(r.cmd, cur)
	} else {
		in, err = prompts.PromptClientForm(cur)
	}
	if err != nil {
		return err
	}

	c, ticket, err := r.env.Service.Client.Update(cur.ID, in)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Client %s updated\n", c.ID)
	errhandler.Warn(r.env.AwaitSync(r.cmd.Context(), ticket))
	return views.RenderClientDetail(c, r.env.Service.Account.ListByClient(c.ID), r.env.Currency())
}

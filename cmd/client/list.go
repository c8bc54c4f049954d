package client

import (
	"strings"

	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/ui/prompts"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/spf13/cobra"
)

type listFlags struct {
	Tree bool
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
		Short:   "List clients (alias: ls)",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ListCommandRunner{env: env, flags: flags}
			return runner.Run()
		},
	}

	cmd.Flags().BoolVarP(&flags.Tree, "tree", "t", false, "Show each client's accounts as a tree")

	return cmd
}

func (r *ListCommandRunner) Run() error {
	if err := r.env.Session.RequireAdmin(); err != nil {
		return err
	}

	clients := r.env.Service.Client.List()
	if r.flags.Tree {
		return views.RenderClientTree(clients, r.env.Service.Account.ListByClient, r.env.Currency())
	}
	return render(r.env, clients)
}

func render(env *app.Env, clients []model.Client) error {
	return views.NewClientListView().Render(clients, func(id string) int {
		return len(env.Service.Account.ListByClient(id))
	})
}

func NewSearchCmd(env *app.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "search [term]",
		Short: "Find clients by name or email",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Session.RequireAdmin(); err != nil {
				return err
			}

			term := strings.Join(args, " ")
			if term == "" {
				var err error
				term, err = prompts.PromptInput("Name or email:", "", nil)
				if err != nil {
					return err
				}
			}
			return render(env, env.Service.Client.Search(term))
		},
	}
}

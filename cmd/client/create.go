package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/errhandler"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/ui/prompts"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type clientFlags struct {
	LastName    string
	FirstName   string
	BirthDate   string
	Gender      string
	Address     string
	Phone       string
	Nationality string
	Email       string
}

func (f *clientFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.LastName, "nom", "", "Last name")
	cmd.Flags().StringVar(&f.FirstName, "prenom", "", "First name")
	cmd.Flags().StringVar(&f.BirthDate, "naissance", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.Gender, "sexe", "", "Gender (M or F)")
	cmd.Flags().StringVar(&f.Address, "adresse", "", "Address")
	cmd.Flags().StringVar(&f.Phone, "tel", "", "Phone number")
	cmd.Flags().StringVar(&f.Nationality, "nationalite", "", "Nationality")
	cmd.Flags().StringVar(&f.Email, "email", "", "Email (optional)")
}

func (f *clientFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"nom", "prenom", "naissance", "sexe", "adresse", "tel", "nationalite", "email"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply overlays the flags that were set on base.
func (f *clientFlags) apply(cmd *cobra.Command, base model.Client) (model.Client, error) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("nom", &base.LastName, f.LastName)
	set("prenom", &base.FirstName, f.FirstName)
	set("sexe", &base.Gender, f.Gender)
	set("adresse", &base.Address, f.Address)
	set("tel", &base.Phone, f.Phone)
	set("nationalite", &base.Nationality, f.Nationality)
	set("email", &base.Email, f.Email)

	if cmd.Flags().Changed("naissance") {
		d, err := time.Parse(constants.DateFormat, strings.TrimSpace(f.BirthDate))
		if err != nil {
			return model.Client{}, fmt.Errorf("%w: birth date must be YYYY-MM-DD", model.ErrInvalidClient)
		}
		base.BirthDate = d
	}
	return base, nil
}

type CreateCommandRunner struct {
	env   *app.Env
	flags *clientFlags
	cmd   *cobra.Command
}

func NewCreateCmd(env *app.Env) *cobra.Command {
	flags := &clientFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new client.",
		Long: `Register a new client. Without flags an interactive form is shown.

Example: ega client create --nom Mensah --prenom Kofi --naissance 1990-03-04 \
  --sexe M --adresse Lomé --tel +22890000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &CreateCommandRunner{env: env, flags: flags, cmd: cmd}
			return runner.Run()
		},
	}
	flags.bind(cmd)

	return cmd
}

func (r *CreateCommandRunner) Run() error {
	if err := r.env.Session.RequireAdmin(); err != nil {
		return err
	}

	var (
		in  model.Client
		err error
	)
	if r.flags.changed(r.cmd) {
		in, err = r.flags.apply(r.cmd, model.Client{})
	} else {
		in, err = prompts.PromptClientForm(model.Client{})
	}
	if err != nil {
		return err
	}

	c, ticket, err := r.env.Service.Client.Create(in)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Client %s created with id %s\n", c.FullName(), c.ID)
	errhandler.Warn(r.env.AwaitSync(r.cmd.Context(), ticket))
	return views.RenderClientDetail(c, nil, r.env.Currency())
}

package account

import (
	"fmt"
	"strings"

	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/errhandler"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/money"
	"github.com/egabank/ega/internal/service"
	"github.com/egabank/ega/internal/ui/prompts"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/egabank/ega/internal/validation"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type createFlags struct {
	Client  string
	Type    string
	Number  string
	Balance string
}

// AccountCreator manages the state and logic for opening an account
type AccountCreator struct {
	env   *app.Env
	flags *createFlags
	cmd   *cobra.Command
	input service.OpenAccountInput
}

func NewCreateCmd(env *app.Env) *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new account for a client.",
		Long: `Open a new account for a client. The account number is generated
unless --number is given; an initial balance is recorded as an opening deposit.

Example: ega account create --client clt_01J... --type COURANT --balance 50000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			creator := &AccountCreator{env: env, flags: flags, cmd: cmd}
			if err := env.Session.RequireAdmin(); err != nil {
				return err
			}
			if cmd.Flags().Changed("client") || cmd.Flags().Changed("type") {
				return creator.FlagsMode()
			}
			return creator.InteractiveMode()
		},
	}

	cmd.Flags().StringVar(&flags.Client, "client", "", "Owner: client id or number of one of its accounts")
	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "Account type: COURANT or EPARGNE")
	cmd.Flags().StringVarP(&flags.Number, "number", "n", "", "Account number (11 digits, generated when empty)")
	cmd.Flags().StringVarP(&flags.Balance, "balance", "b", "", "Initial balance")

	return cmd
}

// FlagsMode builds the account from command-line flags
func (ac *AccountCreator) FlagsMode() error {
	if ac.flags.Client == "" || ac.flags.Type == "" {
		return fmt.Errorf("--client and --type are both required")
	}

	owner, err := ac.env.Service.Client.Resolve(ac.flags.Client)
	if err != nil {
		return err
	}
	t, err := model.ParseAccountType(ac.flags.Type)
	if err != nil {
		return err
	}

	ac.input = service.OpenAccountInput{ClientID: owner.ID, Type: t, Number: strings.TrimSpace(ac.flags.Number)}
	if ac.flags.Balance != "" {
		if err := validation.ValidateInitialBalance(ac.flags.Balance); err != nil {
			return err
		}
		ac.input.InitialBalance, _ = money.Parse(ac.flags.Balance)
	}

	return ac.Save()
}

// InteractiveMode builds the account through interactive prompts
func (ac *AccountCreator) InteractiveMode() error {
	owner, err := prompts.PromptClientSelection("Account owner:", ac.env.Service.Client.List())
	if err != nil {
		return err
	}

	t, err := prompts.PromptAccountType("")
	if err != nil {
		return err
	}

	raw, err := prompts.PromptAmount("Initial balance:", "Leave empty for 0", validation.ValidateInitialBalance)
	if err != nil {
		return err
	}

	ac.input = service.OpenAccountInput{ClientID: owner.ID, Type: t}
	if strings.TrimSpace(raw) != "" {
		ac.input.InitialBalance, _ = money.Parse(raw)
	}

	return ac.Save()
}

func (ac *AccountCreator) Save() error {
	acc, ticket, err := ac.env.Service.Account.Open(ac.input)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Account %s opened for %s\n", acc.Number, ac.env.Holder(acc.ClientID))
	errhandler.Warn(ac.env.AwaitSync(ac.cmd.Context(), ticket))

	verified, _ := ac.env.Service.Ledger.Verify(acc.Number)
	return views.RenderAccountDetail(acc, ac.env.Holder(acc.ClientID), ac.env.Currency(), verified)
}

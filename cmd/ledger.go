package cmd

import (
	"errors"
	"fmt"

	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/errhandler"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/money"
	"github.com/egabank/ega/internal/service"
	"github.com/egabank/ega/internal/ui"
	"github.com/egabank/ega/internal/ui/prompts"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/egabank/ega/internal/validation"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type ledgerFlags struct {
	Account     string
	To          string
	Amount      string
	Origin      string
	Description string
	Yes         bool
}

// ledgerRunner gathers the inputs of a money movement from flags, prompting
// for whatever is missing.
type ledgerRunner struct {
	env   *app.Env
	flags *ledgerFlags
	cmd   *cobra.Command
}

func (r *ledgerRunner) bindCommon(withOrigin bool) {
	r.cmd.Flags().StringVarP(&r.flags.Account, "number", "n", "", "Account number (defaults to the session account)")
	r.cmd.Flags().StringVar(&r.flags.Amount, "amount", "", "Amount, up to two decimals")
	r.cmd.Flags().StringVarP(&r.flags.Description, "description", "d", "", "Free text stored on the transaction")
	r.cmd.Flags().BoolVarP(&r.flags.Yes, "yes", "y", false, "Skip the confirmation prompt")
	if withOrigin {
		r.cmd.Flags().StringVar(&r.flags.Origin, "origin", "", "Origin of the funds")
	}
}

func (r *ledgerRunner) interactive() bool {
	return !r.cmd.Flags().Changed("amount")
}

// visibleAccounts is what the session may pick from in a prompt.
func (r *ledgerRunner) visibleAccounts() []model.Account {
	if r.env.Session.IsAdmin() {
		return r.env.Service.Account.List()
	}
	acc, err := r.env.Service.Account.ByNumber(r.env.Session.AccountNumber)
	if err != nil {
		return nil
	}
	return []model.Account{acc}
}

func (r *ledgerRunner) source(title string) (model.Account, error) {
	if r.flags.Account != "" {
		return r.env.Service.Account.Resolve(r.flags.Account)
	}
	if !r.env.Session.IsAdmin() {
		return r.env.Service.Account.ByNumber(r.env.Session.AccountNumber)
	}
	return prompts.PromptAccountSelection(title, r.visibleAccounts(), r.env.Currency())
}

func (r *ledgerRunner) destination(from model.Account) (model.Account, error) {
	if r.flags.To != "" {
		return r.env.Service.Account.Resolve(r.flags.To)
	}
	if !r.env.Session.IsAdmin() {
		number, err := prompts.PromptInput("Destination account number:", "", validation.ValidateAccountNumber)
		if err != nil {
			return model.Account{}, err
		}
		return r.env.Service.Account.ByNumber(number)
	}

	var others []model.Account
	for _, acc := range r.env.Service.Account.List() {
		if acc.Number != from.Number {
			others = append(others, acc)
		}
	}
	return prompts.PromptAccountSelection("Destination account:", others, r.env.Currency())
}

func (r *ledgerRunner) amount(message string) (int64, error) {
	if r.flags.Amount != "" {
		return money.ParsePositive(r.flags.Amount)
	}
	return prompts.PromptMoney(message, r.env.Currency())
}

func (r *ledgerRunner) details(withOrigin bool) error {
	if !r.interactive() {
		return nil
	}
	var err error
	if withOrigin && r.flags.Origin == "" {
		r.flags.Origin, err = prompts.PromptDescription("Origin of the funds (optional):", false)
		if err != nil {
			return err
		}
	}
	if r.flags.Description == "" {
		r.flags.Description, err = prompts.PromptDescription("Description (optional):", false)
	}
	return err
}

func (r *ledgerRunner) confirm(message string) (bool, error) {
	if r.flags.Yes || !r.interactive() {
		return true, nil
	}
	ok, err := prompts.PromptConfirm(message, true)
	if err != nil {
		return false, err
	}
	if !ok {
		pterm.Info.Println("Operation cancelled")
	}
	return ok, nil
}

// finish renders the receipt and reports on the remote write. A partial
// transfer still shows what was recorded before returning the error.
func (r *ledgerRunner) finish(title string, receipt service.Receipt, err error) error {
	if err != nil && !errors.Is(err, model.ErrPartialTransfer) {
		return err
	}
	if rerr := views.RenderReceipt(title, receipt, r.env.Currency()); rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}
	errhandler.Warn(r.env.AwaitSync(r.cmd.Context(), receipt.Sync))
	return nil
}

func NewDepositCmd(env *app.Env) *cobra.Command {
	flags := &ledgerFlags{}

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Credit an account",
		Long: `Credit an account with a deposit.

Example: ega deposit -n 10000000001 --amount 25000 --origin "Salaire"`,
	}
	runner := &ledgerRunner{env: env, flags: flags, cmd: cmd}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		acc, err := runner.source("Account to credit:")
		if err != nil {
			return err
		}
		if err := env.Session.CanAccessAccount(acc.Number); err != nil {
			return err
		}
		amount, err := runner.amount("Amount to deposit:")
		if err != nil {
			return err
		}
		if err := runner.details(true); err != nil {
			return err
		}

		ok, err := runner.confirm(fmt.Sprintf("Deposit %s on %s?", ui.Amount(amount, env.Currency()), acc.Number))
		if err != nil || !ok {
			return err
		}

		receipt, err := env.Service.Ledger.Deposit(acc.Number, amount, flags.Origin, flags.Description)
		return runner.finish("Deposit", receipt, err)
	}
	runner.bindCommon(true)

	return cmd
}

func NewWithdrawCmd(env *app.Env) *cobra.Command {
	flags := &ledgerFlags{}

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Debit an account",
		Long: `Debit an account. The withdrawal is refused when the balance does not
cover the amount.`,
	}
	runner := &ledgerRunner{env: env, flags: flags, cmd: cmd}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		acc, err := runner.source("Account to debit:")
		if err != nil {
			return err
		}
		if err := env.Session.CanTransferFrom(acc.Number); err != nil {
			return err
		}
		amount, err := runner.amount(fmt.Sprintf("Amount to withdraw (balance %s):", ui.Amount(acc.Balance, env.Currency())))
		if err != nil {
			return err
		}
		if err := runner.details(false); err != nil {
			return err
		}

		ok, err := runner.confirm(fmt.Sprintf("Withdraw %s from %s?", ui.Amount(amount, env.Currency()), acc.Number))
		if err != nil || !ok {
			return err
		}

		receipt, err := env.Service.Ledger.Withdraw(acc.Number, amount, flags.Description)
		return runner.finish("Withdrawal", receipt, err)
	}
	runner.bindCommon(false)

	return cmd
}

func NewTransferCmd(env *app.Env) *cobra.Command {
	flags := &ledgerFlags{}

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two accounts",
		Long: `Move money between two accounts. The source is debited first; if the
credit then fails the debit is reversed.

Example: ega transfer -n 10000000001 --to 10000000002 --amount 5000`,
	}
	runner := &ledgerRunner{env: env, flags: flags, cmd: cmd}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		from, err := runner.source("Source account:")
		if err != nil {
			return err
		}
		if err := env.Session.CanTransferFrom(from.Number); err != nil {
			return err
		}
		to, err := runner.destination(from)
		if err != nil {
			return err
		}
		if to.Number == from.Number {
			return model.ErrSameAccount
		}
		amount, err := runner.amount(fmt.Sprintf("Amount to transfer (balance %s):", ui.Amount(from.Balance, env.Currency())))
		if err != nil {
			return err
		}
		if err := runner.details(false); err != nil {
			return err
		}

		ok, err := runner.confirm(fmt.Sprintf("Transfer %s from %s to %s?", ui.Amount(amount, env.Currency()), from.Number, to.Number))
		if err != nil || !ok {
			return err
		}

		receipt, err := env.Service.Ledger.Transfer(from.Number, to.Number, amount, flags.Description)
		return runner.finish("Transfer", receipt, err)
	}
	runner.bindCommon(false)
	cmd.Flags().StringVar(&flags.To, "to", "", "Destination account number")

	return cmd
}

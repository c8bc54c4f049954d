package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/statement"
	"github.com/egabank/ega/internal/ui/prompts"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	periodThisMonth = "This month"
	periodLastMonth = "Last month"
	periodCustom    = "Custom"
)

type statementFlags struct {
	Number string
	From   string
	To     string
	PDF    string
}

type statementRunner struct {
	env   *app.Env
	flags *statementFlags
}

func NewStatementCmd(env *app.Env) *cobra.Command {
	flags := &statementFlags{}

	cmd := &cobra.Command{
		Use:     "statement [account-number]",
		Aliases: []string{"releve"},
		Short:   "Build an account statement for a period",
		Long: `Build an account statement for a period of whole days, with the
opening and closing balances and every movement in between.

Example: ega statement 10000000001 --from 2025-01-01 --to 2025-01-31 --pdf jan.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.Number = args[0]
			}
			runner := &statementRunner{env: env, flags: flags}
			return runner.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.Number, "number", "n", "", "Account number (defaults to the session account)")
	cmd.Flags().StringVar(&flags.From, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.To, "to", "", "Last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.PDF, "pdf", "", "Also write the statement to this PDF file")

	return cmd
}

func (r *statementRunner) Run() error {
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

	if r.flags.From == "" || r.flags.To == "" {
		if err := r.promptPeriod(); err != nil {
			return err
		}
	}

	window, err := statement.ParseRange(r.flags.From, r.flags.To, r.env.Location)
	if err != nil {
		return err
	}

	st, err := r.env.Statements.Build(acc.Number, window)
	if err != nil {
		return err
	}
	if err := views.RenderStatement(st, r.env.Currency()); err != nil {
		return err
	}

	if r.flags.PDF != "" {
		return r.writePDF(st)
	}
	return nil
}

func (r *statementRunner) promptPeriod() error {
	choice, err := prompts.PromptSelect("Statement period:", []string{periodThisMonth, periodLastMonth, periodCustom}, periodThisMonth)
	if err != nil {
		return err
	}

	now := time.Now().In(r.env.Location)
	if choice != periodCustom {
		r.flags.From, r.flags.To = presetPeriod(choice, now)
		return nil
	}

	from, to := presetPeriod(periodThisMonth, now)
	if r.flags.From, err = prompts.PromptDate("First day:", from); err != nil {
		return err
	}
	r.flags.To, err = prompts.PromptDate("Last day:", to)
	return err
}

// presetPeriod returns the first and last day of the month named by choice,
// relative to now.
func presetPeriod(choice string, now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if choice == periodLastMonth {
		first = first.AddDate(0, -1, 0)
	}
	last := first.AddDate(0, 1, -1)
	return first.Format(constants.DateFormat), last.Format(constants.DateFormat)
}

func (r *statementRunner) writePDF(st statement.Statement) error {
	f, err := os.Create(r.flags.PDF)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.flags.PDF, err)
	}

	err = statement.RenderPDF(f, st, statement.PDFOptions{
		BankName:    r.env.Config.Defaults.BankName,
		Currency:    r.env.Currency(),
		Location:    r.env.Location,
		GeneratedAt: time.Now(),
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", r.flags.PDF, err)
	}

	pterm.Success.Printf("Statement written to %s\n", r.flags.PDF)
	return nil
}

package cmd

import (
	"errors"

	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/remotesync"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func NewSyncCmd(env *app.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push pending local changes to the remote API",
		Long: `Push every record still marked pending, and every remote delete that
could not be sent, to the remote API. Deletes are sent first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Session.RequireAdmin(); err != nil {
				return err
			}

			spinner, _ := pterm.DefaultSpinner.Start("Synchronizing with the remote API...")
			report, err := env.Sync.Resync(cmd.Context())
			if spinner != nil {
				_ = spinner.Stop()
			}
			if errors.Is(err, remotesync.ErrRemoteDisabled) {
				pterm.Info.Println("No remote API configured, nothing to synchronize")
				return nil
			}

			views.RenderResyncReport(report, err)
			if err != nil && report.Failed == 0 {
				return err
			}
			return nil
		},
	}
}

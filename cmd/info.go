package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/ui/views"
	"github.com/spf13/cobra"
)

type infoRunner struct {
	env *app.Env
}

func NewInfoCmd(env *app.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, cache location, remote status and bank totals.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{env: env}
			return runner.Run(cmd.Context())
		},
	}
}

func (r *infoRunner) Run(ctx context.Context) error {
	cfg := r.env.Config

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	dbExists := false
	if _, err := os.Stat(r.env.DBPath); err == nil {
		dbExists = true
	}

	items := views.SystemInfoItem{
		ConfigPath:      configPath,
		DBPath:          r.env.DBPath,
		DBExists:        dbExists,
		RemoteURL:       cfg.Remote.BaseURL,
		LoadedFrom:      r.env.Loaded.Origin,
		PendingSync:     r.env.Sync.Pending(),
		Tombstones:      len(r.env.Store.Tombstones()),
		DefaultCurrency: cfg.Defaults.Currency,
		Timezone:        r.env.Location.String(),
		AppDataDir:      appDataDirOrUnknown(),
	}
	if r.env.Remote != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		items.RemoteReachable = r.env.Remote.Ping(pingCtx)
		cancel()
	} else if cfg.RemoteEnabled() {
		items.RemoteReachable = errors.New("client not initialized")
	}

	if err := views.RenderSystemInfo(items); err != nil {
		return err
	}

	if !r.env.Session.IsAdmin() {
		return nil
	}
	snapshots, err := r.env.Cache.List()
	if err != nil {
		return err
	}
	if err := views.RenderSnapshots(snapshots); err != nil {
		return err
	}
	return views.RenderStats(r.env.Service.Account.Stats(), r.env.Currency())
}

func appDataDirOrUnknown() string {
	dir, err := app.GetAppDataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}

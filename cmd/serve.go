package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/auth"
	"github.com/egabank/ega/internal/logging"
	"github.com/egabank/ega/internal/server"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func NewServeCmd(env *app.Env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the accounts API over HTTP",
		Long: `Serve the accounts API over HTTP with JWT sessions, statement
downloads, live collection updates over websocket and Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Session.RequireAdmin(); err != nil {
				return err
			}

			cfg := env.Config
			tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			srv := server.New(env.Service, env.Statements, env.Store, tokens, server.Options{
				AdminCode:      cfg.Auth.AdminCode,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Currency:       cfg.Defaults.Currency,
				BankName:       cfg.Defaults.BankName,
				Location:       env.Location,
				Logger:         logging.Component(env.Logger, "http"),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pterm.Info.Printf("Listening on %s (Ctrl+C to stop)\n", addr)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr)")

	return cmd
}

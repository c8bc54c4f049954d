package cmd

import (
	"fmt"

	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/auth"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func NewTokenCmd(env *app.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for the current session",
		Long: `Issue a bearer token for the HTTP API carrying the current session.
Use --account to get a client token, --admin-code for an admin one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := auth.NewTokens(env.Config.Auth.JWTSecret, env.Config.Auth.TokenTTL)
			if err != nil {
				return err
			}
			token, expires, err := tokens.Issue(env.Session)
			if err != nil {
				return err
			}

			if pterm.RawOutput {
				fmt.Println(token)
				return nil
			}
			pterm.Info.Printf("Session %s, expires %s\n", env.Session, expires.In(env.Location).Format("2006-01-02 15:04"))
			fmt.Println(token)
			return nil
		},
	}
}

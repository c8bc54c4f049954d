package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/egabank/ega/cmd/account"
	"github.com/egabank/ega/cmd/client"
	"github.com/egabank/ega/internal/app"
	"github.com/egabank/ega/internal/auth"
	"github.com/egabank/ega/internal/config"
	"github.com/egabank/ega/internal/errhandler"
	"github.com/egabank/ega/internal/ui/prompts"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	cfg           *config.Config
	sessionFlags  struct{ account, adminCode string }
	firstRun      bool
	skipInitSteps = map[string]bool{"help": true, "completion": true}
)

func Execute(migrations fs.FS) {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	env := &app.Env{}
	var cleanup func()
	defer func() {
		if cleanup != nil {
			cleanup()
		}
	}()

	rootCmd := &cobra.Command{
		Use:   "ega",
		Short: "ega manages EGA bank clients, accounts, transactions and statements",
		Long: `ega manages EGA bank clients, accounts, transactions and statements.
Changes are written to the remote API when it is reachable and kept in a
local cache otherwise; 'ega sync' pushes what is still pending.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipInitSteps[cmd.Name()] {
				return nil
			}
			if err := initConfig(); err != nil {
				return err
			}
			if firstRun && !pterm.RawOutput && isTerminal() {
				if err := initWizard(); err != nil {
					return err
				}
			}

			application, done, err := app.NewApp(cmd.Context(), cfg, migrations)
			if err != nil {
				return err
			}
			cleanup = done
			env.App = application

			session, err := openSession(application)
			if err != nil {
				return err
			}
			env.Session = session

			if r := application.Loaded; r.RemoteErr != nil && cfg.RemoteEnabled() {
				pterm.Warning.Printf("Remote API unreachable, working from the local cache (%s)\n", r.Origin)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")
	rootCmd.PersistentFlags().StringVar(&sessionFlags.account, "account", "", "act as the client owning this account number")
	rootCmd.PersistentFlags().StringVar(&sessionFlags.adminCode, "admin-code", "", "admin code (defaults to $EGA_ADMIN_CODE)")

	rootCmd.AddCommand(client.NewClientCmd(env))
	rootCmd.AddCommand(account.NewAccountCmd(env))

	rootCmd.AddCommand(NewDepositCmd(env))
	rootCmd.AddCommand(NewWithdrawCmd(env))
	rootCmd.AddCommand(NewTransferCmd(env))
	rootCmd.AddCommand(NewTxListCmd(env))
	rootCmd.AddCommand(NewStatementCmd(env))
	rootCmd.AddCommand(NewSyncCmd(env))
	rootCmd.AddCommand(NewServeCmd(env))
	rootCmd.AddCommand(NewTokenCmd(env))
	rootCmd.AddCommand(NewInfoCmd(env))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
		errhandler.HandleError(err)
		os.Exit(1)
	}
}

// openSession decides who is acting. Without flags the operator is an
// admin unless an admin code is configured.
func openSession(a *app.App) (auth.Session, error) {
	code := sessionFlags.adminCode
	if code == "" {
		code = os.Getenv("EGA_ADMIN_CODE")
	}

	switch {
	case sessionFlags.account != "":
		return auth.LoginClient(a.Store, sessionFlags.account)
	case code != "":
		return auth.LoginAdmin(code, a.Config.Auth.AdminCode)
	case a.Config.Auth.AdminCode == "":
		return auth.Admin(), nil
	default:
		return auth.Session{}, fmt.Errorf("an admin code is configured: pass --admin-code or --account: %w", auth.ErrBadCredentials)
	}
}

func initConfig() error {
	_ = godotenv.Load()

	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		appDir, err := app.GetAppDataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if err := createDefaultConfig(appDir); err != nil {
			return fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	viper.SetEnvPrefix("EGA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override

	if err := viper.ReadInConfig(); err != nil {

		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	cfg = config.NewDefault()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}

	cfg.ConfigPath = viper.ConfigFileUsed()
	if cfg.Database.Path != "" {
		expanded, err := expandPath(cfg.Database.Path)
		if err != nil {
			return err
		}
		cfg.Database.Path = expanded
	}

	return nil
}

// initWizard asks for the remote API on the very first run.
func initWizard() error {
	if cfg.Remote.BaseURL != "" {
		return nil
	}

	baseURL, err := prompts.PromptInitRemote(viper.GetString("remote.base_url"))
	if err != nil {
		return err
	}

	viper.Set("remote.base_url", baseURL)
	cfg.Remote.BaseURL = baseURL

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save config to file: %w", err)
	}

	if baseURL == "" {
		pterm.Success.Println("Configuration saved. Running in local-only mode.")
	} else {
		pterm.Success.Printf("Configuration saved. Remote API set to: %s\n", baseURL)
	}
	return nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}

func createDefaultConfig(appDir string) error {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	firstRun = true

	return nil
}

func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amaumene/kioskarr/internal/app"
	"github.com/amaumene/kioskarr/internal/auth"
	"github.com/amaumene/kioskarr/internal/config"
)

type rootOptions struct {
	configFile string
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	root := &cobra.Command{
		Use:           "kioskarr",
		Short:         "Self-service media request kiosk client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (env, yaml, json or toml)")
	flags.String("api-url", "", "kiosk API base URL (API_URL)")
	flags.String("log-level", "", "log level: debug, info, warn, error (LOG_LEVEL)")
	flags.Bool("ephemeral", false, "keep the session in memory only (EPHEMERAL)")

	_ = opts.v.BindPFlag("API_URL", flags.Lookup("api-url"))
	_ = opts.v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	_ = opts.v.BindPFlag("EPHEMERAL", flags.Lookup("ephemeral"))

	root.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newSearchCmd(opts),
		newRequestCmd(opts),
		newRequestsCmd(opts),
		newAdminCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// bootstrap loads the configuration, assembles the client, restores the
// persisted session and enters the command's route
func (o *rootOptions) bootstrap(cmd *cobra.Command, route string) (*app.App, func(), error) {
	cfg, err := config.Load(o.v, o.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	a, cleanup, err := app.InitializeApp(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize kioskarr: %w", err)
	}

	a.Gate.Restore(cmd.Context())

	if err := enter(a, route); err != nil {
		cleanup()
		return nil, nil, err
	}
	return a, cleanup, nil
}

// enter navigates to route and turns guard redirects into user-facing errors
func enter(a *app.App, route string) error {
	err := a.Router.Enter(route)
	var redirect *auth.RedirectError
	if !errors.As(err, &redirect) {
		return err
	}

	switch {
	case strings.HasPrefix(redirect.To, auth.LoginPath):
		return fmt.Errorf("not logged in: run 'kioskarr login' first")
	case route == auth.LoginPath:
		return fmt.Errorf("already logged in as %s: run 'kioskarr logout' first", a.Gate.User().Username)
	default:
		return fmt.Errorf("%s requires the admin role", route)
	}
}

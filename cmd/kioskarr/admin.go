package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amaumene/kioskarr/internal/auth"
	"github.com/amaumene/kioskarr/internal/client"
	"github.com/amaumene/kioskarr/internal/i18n"
	"github.com/amaumene/kioskarr/internal/models"
	"github.com/amaumene/kioskarr/internal/utils"
)

func newAdminCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands (admin role required)",
	}

	users := &cobra.Command{Use: "users", Short: "Manage kiosk accounts"}
	users.AddCommand(
		newAdminUsersListCmd(opts),
		newAdminUsersDeleteCmd(opts),
		newAdminUsersUpdateCmd(opts),
	)

	settings := &cobra.Command{Use: "settings", Short: "Read or replace the server settings"}
	settings.AddCommand(
		newAdminSettingsGetCmd(opts),
		newAdminSettingsSetCmd(opts),
	)

	requests := &cobra.Command{Use: "requests", Short: "Moderate requests"}
	requests.AddCommand(
		newAdminRequestsApproveCmd(opts),
		newAdminRequestsUpdateCmd(opts),
	)

	cmd.AddCommand(users, settings, requests)
	return cmd
}

func newAdminUsersListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.bootstrap(cmd, auth.AdminPath)
			if err != nil {
				return err
			}
			defer cleanup()

			users, err := a.Client.Users(cmd.Context())
			if err != nil {
				return errors.New(client.MessageOf(err, a.Translator.T(i18n.MsgUsersFailed)))
			}
			return printUsers(cmd.OutOrStdout(), users)
		},
	}
}

func newAdminUsersDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, cleanup, err := opts.bootstrap(cmd, auth.AdminPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.Client.DeleteUser(cmd.Context(), id); err != nil {
				return errors.New(client.MessageOf(err, a.Translator.T(i18n.MsgUsersFailed)))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User #%d deleted\n", id)
			return nil
		},
	}
}

func newAdminUsersUpdateCmd(opts *rootOptions) *cobra.Command {
	var (
		email  string
		active bool
		role   string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an account's email, role or active flag",
		Example: `  kioskarr admin users update 4 --role admin
  kioskarr admin users update 7 --active=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch models.UserUpdate
			flags := cmd.Flags()
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("active") {
				patch.IsActive = &active
			}
			if flags.Changed("role") {
				r := models.UserRole(role)
				if r != models.RoleAdmin && r != models.RoleUser {
					return fmt.Errorf("invalid --role %q: must be admin or user", role)
				}
				patch.Role = &r
			}
			if patch == (models.UserUpdate{}) {
				return fmt.Errorf("nothing to update: pass --email, --active or --role")
			}

			a, cleanup, err := opts.bootstrap(cmd, auth.AdminPath)
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := a.Client.UpdateUser(cmd.Context(), id, patch)
			if err != nil {
				return errors.New(client.MessageOf(err, a.Translator.T(i18n.MsgUsersFailed)))
			}
			return printUser(cmd.OutOrStdout(), *user)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().BoolVar(&active, "active", true, "enable or disable the account")
	cmd.Flags().StringVar(&role, "role", "", "new role: admin or user")
	return cmd
}

func newAdminSettingsGetCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the server settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.bootstrap(cmd, auth.AdminPath)
			if err != nil {
				return err
			}
			defer cleanup()

			settings, err := a.Client.Settings(cmd.Context())
			if err != nil {
				return errors.New(client.MessageOf(err, a.Translator.T(i18n.MsgSettingsFailed)))
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(settings)
			}
			return printSettings(cmd.OutOrStdout(), settings)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw settings document")
	return cmd
}

func newAdminSettingsSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "set <json>",
		Short:   "Replace the server settings with a JSON document",
		Example: `  kioskarr admin settings set '{"max_requests_per_day": 10}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var settings models.Settings
			if err := json.Unmarshal([]byte(args[0]), &settings); err != nil {
				return fmt.Errorf("failed to parse settings: %w", err)
			}
			if settings == nil {
				return fmt.Errorf("settings must be a JSON object")
			}

			a, cleanup, err := opts.bootstrap(cmd, auth.AdminPath)
			if err != nil {
				return err
			}
			defer cleanup()

			updated, err := a.Client.UpdateSettings(cmd.Context(), settings)
			if err != nil {
				return errors.New(client.MessageOf(err, a.Translator.T(i18n.MsgSettingsFailed)))
			}
			return printSettings(cmd.OutOrStdout(), updated)
		},
	}
}

func newAdminRequestsApproveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, cleanup, err := opts.bootstrap(cmd, auth.AdminPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if !a.Requests.Approve(cmd.Context(), id) {
				return errors.New(a.Requests.Error())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Request #%d approved\n", id)
			return nil
		},
	}
}

func newAdminRequestsUpdateCmd(opts *rootOptions) *cobra.Command {
	var statusFlag, message, quality string

	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Override a request's status, message or quality",
		Example: `  kioskarr admin requests update 12 --status failed --message "no release found"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch models.RequestUpdate
			flags := cmd.Flags()
			if flags.Changed("status") {
				s, err := parseStatus(statusFlag)
				if err != nil {
					return err
				}
				patch.Status = &s
			}
			if flags.Changed("message") {
				patch.StatusMessage = &message
			}
			if flags.Changed("quality") {
				q, err := utils.NormalizeQuality(quality)
				if err != nil {
					return err
				}
				patch.QualityPreference = &q
			}
			if patch == (models.RequestUpdate{}) {
				return fmt.Errorf("nothing to update: pass --status, --message or --quality")
			}

			a, cleanup, err := opts.bootstrap(cmd, auth.AdminPath)
			if err != nil {
				return err
			}
			defer cleanup()

			updated, ok := a.Requests.Update(cmd.Context(), id, patch)
			if !ok {
				return errors.New(a.Requests.Error())
			}
			return printRequest(cmd.OutOrStdout(), a.Translator, *updated)
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "new status")
	cmd.Flags().StringVar(&message, "message", "", "status message shown to the requester")
	cmd.Flags().StringVar(&quality, "quality", "", "quality: 720p, 1080p, 4K")
	return cmd
}

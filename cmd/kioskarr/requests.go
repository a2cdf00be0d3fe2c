package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amaumene/kioskarr/internal/app"
	"github.com/amaumene/kioskarr/internal/auth"
	"github.com/amaumene/kioskarr/internal/models"
	"github.com/amaumene/kioskarr/internal/status"
	"github.com/amaumene/kioskarr/internal/stores"
)

func newRequestsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List and manage your requests",
	}
	cmd.AddCommand(
		newRequestsListCmd(opts),
		newRequestsShowCmd(opts),
		newRequestsCancelCmd(opts),
		newRequestsStatsCmd(opts),
		newRequestsWatchCmd(opts),
	)
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid request ID %q", raw)
	}
	return id, nil
}

// parseStatus resolves a --status value, suggesting the closest status on a typo
func parseStatus(raw string) (models.RequestStatus, error) {
	s := status.Parse(raw)
	if s.Known() {
		return s, nil
	}
	if suggestion, ok := status.Suggest(raw); ok {
		return "", fmt.Errorf("unknown status %q, did you mean %q?", raw, suggestion)
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

type listOptions struct {
	view   string
	status string
	all    bool
}

// fetchList loads the list in user or admin scope and applies the view and status filters
func fetchList(ctx context.Context, a *app.App, o listOptions) ([]models.MediaRequest, error) {
	view, err := stores.ParseView(o.view)
	if err != nil {
		return nil, err
	}
	var only models.RequestStatus
	if o.status != "" {
		if only, err = parseStatus(o.status); err != nil {
			return nil, err
		}
	}

	if o.all {
		if err := enter(a, auth.AdminPath); err != nil {
			return nil, err
		}
	}

	var ok bool
	if o.all {
		ok = a.Requests.FetchAll(ctx)
	} else {
		ok = a.Requests.FetchMine(ctx)
	}
	if !ok {
		return nil, errors.New(a.Requests.Error())
	}

	requests := stores.Filter(a.Requests.Requests(), view)
	if only != "" {
		requests = stores.WithStatus(requests, only)
	}
	return requests, nil
}

func newRequestsListCmd(opts *rootOptions) *cobra.Command {
	var o listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List requests",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.bootstrap(cmd, auth.RequestsPath)
			if err != nil {
				return err
			}
			defer cleanup()

			requests, err := fetchList(cmd.Context(), a, o)
			if err != nil {
				return err
			}
			return printRequests(cmd.OutOrStdout(), a.Translator, requests, o.all)
		},
	}

	addListFlags(cmd, &o)
	return cmd
}

func addListFlags(cmd *cobra.Command, o *listOptions) {
	cmd.Flags().StringVar(&o.view, "view", string(stores.ViewAll), "view: all, pending, completed, failed")
	cmd.Flags().StringVar(&o.status, "status", "", "only show requests in this status")
	cmd.Flags().BoolVar(&o.all, "all", false, "show every user's requests (admin)")
}

func newRequestsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, cleanup, err := opts.bootstrap(cmd, auth.RequestsPath)
			if err != nil {
				return err
			}
			defer cleanup()

			req, ok := a.Requests.FetchOne(cmd.Context(), id)
			if !ok {
				return errors.New(a.Requests.Error())
			}
			return printRequest(cmd.OutOrStdout(), a.Translator, *req)
		},
	}
}

func newRequestsCancelCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a request that has not started downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, cleanup, err := opts.bootstrap(cmd, auth.RequestsPath)
			if err != nil {
				return err
			}
			defer cleanup()

			req, ok := a.Requests.FetchOne(cmd.Context(), id)
			if !ok {
				return errors.New(a.Requests.Error())
			}
			if !status.IsCancellable(req.Status) {
				return fmt.Errorf("request #%d cannot be cancelled (%s)", id, status.LabelIn(a.Translator, req.Status))
			}

			if !a.Requests.Cancel(cmd.Context(), id) {
				return errors.New(a.Requests.Error())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Request #%d cancelled\n", id)
			return nil
		},
	}
}

func newRequestsStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your request statistics and remaining daily quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.bootstrap(cmd, auth.RequestsPath)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, ok := a.Requests.Stats(cmd.Context())
			if !ok {
				return errors.New(a.Requests.Error())
			}
			return printStats(cmd.OutOrStdout(), *stats)
		},
	}
}

func newRequestsWatchCmd(opts *rootOptions) *cobra.Command {
	var o listOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the request list on screen, refreshed periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.bootstrap(cmd, auth.RequestsPath)
			if err != nil {
				return err
			}
			defer cleanup()

			view, err := stores.ParseView(o.view)
			if err != nil {
				return err
			}
			if o.all {
				if err := enter(a, auth.AdminPath); err != nil {
					return err
				}
				a.Refresher.SetAdminMode(true)
			}

			out := cmd.OutOrStdout()
			a.Refresher.OnRefresh(func(snapshot []models.MediaRequest) {
				fmt.Fprintf(out, "\n%s\n", time.Now().Format(dateFormat))
				if err := printRequests(out, a.Translator, stores.Filter(snapshot, view), o.all); err != nil {
					a.Logger.Error().Err(err).Msg("Failed to render requests")
				}
			})

			expired := make(chan struct{})
			var once sync.Once
			a.Gate.OnForcedLogout(func() { once.Do(func() { close(expired) }) })

			if err := a.Refresher.Mount(); err != nil {
				return err
			}
			defer a.Refresher.Unmount()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-sigChan:
				return nil
			case <-expired:
				return fmt.Errorf("session expired: run 'kioskarr login' again")
			case <-cmd.Context().Done():
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&o.view, "view", string(stores.ViewAll), "view: all, pending, completed, failed")
	cmd.Flags().BoolVar(&o.all, "all", false, "watch every user's requests (admin)")
	return cmd
}

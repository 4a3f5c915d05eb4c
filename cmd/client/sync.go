package main

import (
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/tui"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/spf13/cobra"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		GroupID: "sync",
		Short:   "Pull remote changes and push local ones",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := opts.app.Authenticate(ctx); err != nil {
				return err
			}

			report, err := opts.app.Services.SyncService.Sync(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSyncReport(report, err))
			return err
		},
	}
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		GroupID: "sync",
		Short:   "Sync periodically until interrupted",
		Long:    "Run the background sync job every workers.sync_interval until Ctrl+C.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, Ctrl+C to stop")
			return opts.app.Watch(cmd.Context())
		},
	}
}

func newConflictsCmd(opts *rootOptions) *cobra.Command {
	var listOnly bool

	cmd := &cobra.Command{
		Use:     "conflicts",
		GroupID: "sync",
		Short:   "Review and resolve stored conflicts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if listOnly {
				conflicts, err := opts.app.Services.SyncService.Conflicts(ctx)
				if err != nil {
					return err
				}
				for _, c := range conflicts {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tlocal %s\tserver %s\n",
						c.EntityType, c.EntityID, c.LocalModifiedAt.UTC().Format("2006-01-02T15:04:05.000000Z"),
						c.ServerModifiedAt.UTC().Format("2006-01-02T15:04:05.000000Z"))
				}
				return nil
			}

			if _, err := opts.app.Authenticate(ctx); err != nil {
				return err
			}
			result, err := opts.app.TUI.PickConflicts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "resolved %d, deferred %d\n", result.Resolved, result.Deferred)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&listOnly, "list", "l", false, "print the conflicts and exit")

	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var merged string

	cmd := &cobra.Command{
		Use:     "resolve <type> <id> <keep_local|keep_server|merge>",
		GroupID: "sync",
		Short:   "Resolve one conflict without the picker",
		Example: `  tasksync resolve task 0198c7d2-... keep_server
  tasksync resolve goal g-1 merge --data '{"id":"g-1","name":"merged"}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			entityType, err := parseEntityType(args[0])
			if err != nil {
				return err
			}

			resolution := models.Resolution(args[2])
			if !resolution.Valid() {
				return fmt.Errorf("unknown resolution %q", args[2])
			}

			var payload []byte
			if merged != "" {
				if payload, err = readPayload(merged, cmd.InOrStdin()); err != nil {
					return err
				}
			}

			if _, err := opts.app.Authenticate(ctx); err != nil {
				return err
			}
			return opts.app.Services.SyncService.Resolve(ctx, entityType, args[1], resolution, payload)
		},
	}
	cmd.Flags().StringVarP(&merged, "data", "d", "", "merged payload for the merge resolution (- reads stdin)")

	return cmd
}

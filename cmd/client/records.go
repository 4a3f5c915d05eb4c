package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MKhiriev/go-task-sync/models"
	"github.com/spf13/cobra"
)

// readPayload returns the JSON object given as arg, or read from in when
// arg is "-".
func readPayload(arg string, in io.Reader) (json.RawMessage, error) {
	data := []byte(arg)
	if arg == "-" {
		var err error
		if data, err = io.ReadAll(in); err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
	}

	if !json.Valid(data) {
		return nil, errors.New("payload is not valid JSON")
	}
	return json.RawMessage(data), nil
}

func printRecord(w io.Writer, rec models.LocalRecord) {
	state := "synced"
	switch {
	case rec.Conflicted:
		state = "conflict"
	case rec.Dirty:
		state = "pending"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.EntityType, rec.EntityID, rec.ModifiedAt.UTC().Format("2006-01-02T15:04:05.000000Z"), state)
}

func newPutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "put <type> <json|->",
		GroupID: "records",
		Short:   "Create or update a record locally",
		Long: `Save a task, project, goal or habit in the local store. A payload
without an id gets a new one. The change is pushed on the next sync.`,
		Example: `  tasksync put task '{"title":"Buy milk"}'
  cat habit.json | tasksync put habit -`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, err := parseEntityType(args[0])
			if err != nil {
				return err
			}
			payload, err := readPayload(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}

			rec, err := opts.app.Services.RecordService.Put(cmd.Context(), entityType, payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.EntityID)
			return nil
		},
	}
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "get <type> <id>",
		GroupID: "records",
		Short:   "Print a record",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, err := parseEntityType(args[0])
			if err != nil {
				return err
			}

			rec, err := opts.app.Services.RecordService.Get(cmd.Context(), entityType, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(rec.Data))
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list <type>",
		GroupID: "records",
		Short:   "List records that are not deleted",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, err := parseEntityType(args[0])
			if err != nil {
				return err
			}

			records, err := opts.app.Services.RecordService.List(cmd.Context(), entityType)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, rec := range records {
				printRecord(w, rec)
			}
			return w.Flush()
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <type> <id>",
		GroupID: "records",
		Short:   "Soft-delete a record",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, err := parseEntityType(args[0])
			if err != nil {
				return err
			}
			return opts.app.Services.RecordService.Delete(cmd.Context(), entityType, args[1])
		},
	}
}

package main

import (
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/tui"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/spf13/cobra"
)

func newVersionCmd(opts *rootOptions, build models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information and the server state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderBuildInfo(build, opts.app.ServerStatus(cmd.Context())))
			return nil
		},
	}
}

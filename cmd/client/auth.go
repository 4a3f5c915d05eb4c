package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-task-sync/models"
	"github.com/spf13/cobra"
)

// readCredentials takes the password from args or, when absent, from the
// first line of in.
func readCredentials(args []string, in io.Reader) (models.User, error) {
	user := models.User{Login: args[0]}
	if len(args) > 1 {
		user.Password = args[1]
		return user, nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return models.User{}, fmt.Errorf("read password: %w", err)
	}
	user.Password = strings.TrimRight(line, "\r\n")
	return user, nil
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "register <login> [password]",
		GroupID: "auth",
		Short:   "Create an account and log in",
		Long:    "Create an account on the sync server. Without a password argument it is read from stdin.",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := readCredentials(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := opts.app.Services.AuthService.Register(cmd.Context(), user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered and logged in as %s\n", user.Login)
			return nil
		},
	}
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "login <login> [password]",
		GroupID: "auth",
		Short:   "Log in and remember the session",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := readCredentials(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := opts.app.Services.AuthService.Login(cmd.Context(), user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user.Login)
			return nil
		},
	}
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		GroupID: "auth",
		Short:   "Forget the stored session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.app.Services.AuthService.Logout(cmd.Context())
		},
	}
}

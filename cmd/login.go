package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/tradedesk/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var username string
	var password string
	var passwordStdin bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and load your user and first portfolio",
		Args:  cobra.NoArgs,
		RunE: withSession(app, func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("a password is required: use --password or --password-stdin")
			}

			credentials := domain.Credentials{Username: strings.TrimSpace(username), Password: password}
			var err error
			if quiet {
				err = app.service.SignIn(cmd.Context(), credentials)
			} else {
				err = runSignInSpinner(cmd.Context(), cmd.ErrOrStderr(), app.store, func(ctx context.Context) error {
					return app.service.SignIn(ctx, credentials)
				})
			}
			if err != nil {
				return fmt.Errorf("sign in as %s: %w", credentials.Username, err)
			}

			user, _ := app.store.User()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s).\n", user.Username, user.ID)
			return err
		}),
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Do not show the progress spinner")
	_ = cmd.MarkFlagRequired("username")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the session",
		Args:  cobra.NoArgs,
		RunE: withSession(app, func(cmd *cobra.Command, _ []string) error {
			app.service.Logout()

			if forget {
				if err := app.snapshots.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("remove session snapshot: %w", err)
				}
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return err
		}),
	}

	cmd.Flags().BoolVar(&forget, "forget", false, "Also delete the stored session snapshot")

	return cmd
}

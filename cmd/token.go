package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newTokenCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the session token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Exchange the session token for a fresh one",
		Args:  cobra.NoArgs,
		RunE: withSession(app, func(cmd *cobra.Command, _ []string) error {
			if err := app.service.RefreshSessionToken(cmd.Context()); err != nil {
				return fmt.Errorf("refresh session token: %w", err)
			}

			expiry, ok := app.store.TokenExpiry()
			if !ok {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Token refreshed.")
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Token refreshed, expires at %s.\n", expiry.Local().Format(time.RFC3339))
			return err
		}),
	})

	return cmd
}

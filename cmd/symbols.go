package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSymbolsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "symbols",
		Short: "List the tradable symbols",
		Args:  cobra.NoArgs,
		RunE: withSession(app, func(cmd *cobra.Command, _ []string) error {
			if err := app.service.LoadAvailableSymbols(cmd.Context()); err != nil {
				return fmt.Errorf("load symbols: %w", err)
			}

			symbols := app.store.AvailableSymbols()
			if asJSON {
				return writeDocument(cmd.OutOrStdout(), outputJSON, symbols)
			}

			if len(symbols) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No symbols available.")
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, symbol := range symbols {
				if _, err := fmt.Fprintf(tw, "%s\t%s\n", symbol.Ticker, symbol.Name); err != nil {
					return err
				}
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

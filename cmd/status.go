package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	statusadapter "github.com/bnema/tradedesk/internal/adapters/render/status"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: withSession(app, func(cmd *cobra.Command, _ []string) error {
			state := app.store.State()
			polling := app.refresher.Status().PortfolioID

			format := resolveOutputFormat(asJSON, asYAML)
			if format != outputText {
				return writeDocument(cmd.OutOrStdout(), format, toStatusDocument(state, polling))
			}

			rendered, err := app.statusRenderer(state, statusadapter.RenderOptions{
				Now:            app.clock.Now(),
				ExpiringWithin: app.cfg.TokenRefreshSkew,
				Polling:        polling,
			})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Render YAML output")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}

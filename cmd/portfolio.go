package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bnema/tradedesk/internal/domain"
)

func newPortfolioCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Manage portfolios",
	}

	cmd.AddCommand(
		newPortfolioAddCmd(app),
		newPortfolioUseCmd(app),
		newPortfolioShowCmd(app),
	)

	return cmd
}

func newPortfolioAddCmd(app *app) *cobra.Command {
	var id string
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a portfolio to your account and make it active",
		Args:  cobra.NoArgs,
		RunE: withSession(app, func(cmd *cobra.Command, _ []string) error {
			summary := domain.PortfolioSummary{
				ID:   domain.PortfolioID(strings.TrimSpace(id)),
				Name: strings.TrimSpace(name),
			}
			if summary.ID == "" {
				summary.ID = domain.PortfolioID(uuid.NewString())
			}

			if err := app.service.AddPortfolio(cmd.Context(), summary); err != nil {
				return fmt.Errorf("add portfolio: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Portfolio %s (%s) is now active.\n", summary.Name, summary.ID)
			return err
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "Portfolio ID (default: generated)")
	cmd.Flags().StringVar(&name, "name", "", "Portfolio name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPortfolioUseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <portfolio-id>",
		Short: "Fetch one of your portfolios and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(app, func(cmd *cobra.Command, args []string) error {
			if err := app.ensureFreshToken(cmd.Context()); err != nil {
				return err
			}

			id := domain.PortfolioID(strings.TrimSpace(args[0]))
			if err := app.service.SelectPortfolio(cmd.Context(), id); err != nil {
				return fmt.Errorf("use portfolio %s: %w", id, err)
			}

			portfolio, _ := app.store.ActivePortfolio()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Portfolio %s (%s) is now active.\n", portfolio.Name, portfolio.ID)
			return err
		}),
	}
}

func newPortfolioShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active portfolio",
		Args:  cobra.NoArgs,
		RunE: withSession(app, func(cmd *cobra.Command, _ []string) error {
			portfolio, ok := app.store.ActivePortfolio()
			if !ok {
				return fmt.Errorf("%w: run `td portfolio use <id>` first", domain.ErrNoActivePortfolio)
			}

			format := outputYAML
			if asJSON {
				format = outputJSON
			}
			return writeDocument(cmd.OutOrStdout(), format, toPortfolioDocument(portfolio))
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON instead of YAML")

	return cmd
}

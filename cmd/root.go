package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/tradedesk/internal/config"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "td",
		Short:         "tradedesk (td): a terminal client for your trading account",
		Long:          "td signs in to the trading API, keeps your session between invocations, and lets you manage portfolios and orders from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	v := viper.New()
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	_ = v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))

	app := newApp(v)

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newTokenCmd(app),
		newStatusCmd(app),
		newPortfolioCmd(app),
		newOrderCmd(app),
		newSymbolsCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}

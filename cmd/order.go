package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bnema/tradedesk/internal/domain"
)

func newOrderCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage orders of the active portfolio",
	}

	cmd.AddCommand(newOrderAddCmd(app), newOrderCancelCmd(app))

	return cmd
}

func newOrderAddCmd(app *app) *cobra.Command {
	var symbol string
	var quantity string
	var side string
	var orderType string
	var limitPrice string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Place an order on the active portfolio",
		Args:  cobra.NoArgs,
		RunE: withSession(app, func(cmd *cobra.Command, _ []string) error {
			order, err := parseOrder(symbol, quantity, side, orderType, limitPrice)
			if err != nil {
				return err
			}

			placed, err := app.service.AddOrder(order)
			if err != nil {
				return fmt.Errorf("add order: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed: %s %s %s (%s).\n",
				placed.ID, placed.Side, placed.Quantity.String(), placed.Symbol, describePrice(placed))
			return err
		}),
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Ticker symbol")
	cmd.Flags().StringVar(&quantity, "quantity", "", "Quantity to trade")
	cmd.Flags().StringVar(&side, "side", string(domain.SideBuy), "Order side: buy or sell")
	cmd.Flags().StringVar(&orderType, "type", string(domain.OrderTypeMarket), "Order type: market or limit")
	cmd.Flags().StringVar(&limitPrice, "limit-price", "", "Limit price (limit orders only)")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func newOrderCancelCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order of the active portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(app, func(cmd *cobra.Command, args []string) error {
			id := domain.OrderID(strings.TrimSpace(args[0]))

			portfolio, ok := app.store.ActivePortfolio()
			_, found := portfolio.Order(id)

			if err := app.service.CancelOrder(id); err != nil {
				return fmt.Errorf("cancel order %s: %w", id, err)
			}

			if ok && !found {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Order %s not found, nothing to cancel.\n", id)
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Order %s cancelled.\n", id)
			return err
		}),
	}
}

func parseOrder(symbol, quantity, side, orderType, limitPrice string) (domain.Order, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(quantity))
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: quantity %q is not a number", domain.ErrInvalidOrder, quantity)
	}

	order := domain.Order{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Quantity: qty,
		Side:     domain.Side(strings.ToLower(strings.TrimSpace(side))),
		Type:     domain.OrderType(strings.ToLower(strings.TrimSpace(orderType))),
	}

	if raw := strings.TrimSpace(limitPrice); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%w: limit price %q is not a number", domain.ErrInvalidOrder, limitPrice)
		}
		if order.Type != domain.OrderTypeLimit {
			return domain.Order{}, fmt.Errorf("%w: --limit-price needs --type limit", domain.ErrInvalidOrder)
		}
		order.LimitPrice = &price
	}

	return order, nil
}

func describePrice(order domain.Order) string {
	if order.Type == domain.OrderTypeLimit && order.LimitPrice != nil {
		return "limit " + order.LimitPrice.StringFixed(2)
	}
	return string(order.Type)
}

package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/bnema/tradedesk/internal/domain"
)

const allocationBarWidth = 20

type RenderOptions struct {
	Now time.Time
	// ExpiringWithin flags tokens that expire inside this window.
	ExpiringWithin time.Duration
	// Polling names the portfolio the refresh cycle is tracking, if any.
	Polling domain.PortfolioID
}

func renderView(state domain.SessionState, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Trading Session"),
		s.header.Render(sessionHeader(state)),
	}

	if state.Loading {
		lines = append(lines, s.warning.Render("loading..."))
	}

	if !state.IsAuthenticated() {
		lines = append(lines, s.empty.Render("Not signed in. Run `td login` to start a session."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, tokenLine(state.TokenExpiry, opts, s))
	lines = append(lines, s.detail.Render(symbolsLine(state.AvailableSymbols)))

	if state.User != nil {
		lines = append(lines, s.section.Render(renderPortfolioList(*state.User, state, s)))
	}

	if state.ActivePortfolio == nil {
		lines = append(lines, s.section.Render(s.empty.Render("No active portfolio.")))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.section.Render(renderPortfolio(*state.ActivePortfolio, opts, s)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func sessionHeader(state domain.SessionState) string {
	switch {
	case state.User != nil:
		return fmt.Sprintf("signed in as %s (%s)", state.User.Username, state.User.ID)
	case state.IsAuthenticated():
		return "signed in"
	default:
		return "signed out"
	}
}

func tokenLine(expiry *time.Time, opts RenderOptions, s styles) string {
	label := s.key.Render("token:")
	if expiry == nil {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.meta.Render("no expiry recorded"))
	}

	expiryStyle := lipgloss.NewStyle().Foreground(expiryColor(*expiry, opts.Now, opts.ExpiringWithin))
	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		label,
		" ",
		expiryStyle.Render(formatExpiryRelative(*expiry, opts.Now)),
	)

	if opts.Now.IsZero() {
		return line
	}
	if !expiry.After(opts.Now) {
		return line + " " + s.warning.Render("[expired]")
	}
	if (domain.TokenGrant{ExpiresAt: *expiry}).ExpiringSoon(opts.Now, opts.ExpiringWithin) {
		return line + " " + s.warning.Render("[expiring]")
	}
	return line
}

func symbolsLine(symbols []domain.Symbol) string {
	if symbols == nil {
		return "symbols: not loaded"
	}
	return fmt.Sprintf("symbols: %d available", len(symbols))
}

func renderPortfolioList(user domain.User, state domain.SessionState, s styles) string {
	lines := []string{s.key.Render(fmt.Sprintf("portfolios: %d", len(user.Portfolios)))}
	activeID, hasActive := state.ActivePortfolioID()

	for _, summary := range user.Portfolios {
		marker := " "
		if hasActive && summary.ID == activeID {
			marker = "*"
		}
		lines = append(lines, s.detail.Render(fmt.Sprintf("%s %s (%s)", marker, summary.Name, summary.ID)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPortfolio(portfolio domain.Portfolio, opts RenderOptions, s styles) string {
	title := s.portfolio.Render(portfolioTitle(portfolio))
	if opts.Polling != "" && opts.Polling == portfolio.ID {
		title += " " + s.meta.Render("[live]")
	}

	parts := []string{title}
	parts = append(parts, positionLines(portfolio.Positions, s)...)
	parts = append(parts, orderLines(portfolio.Orders, s)...)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func portfolioTitle(portfolio domain.Portfolio) string {
	name := strings.TrimSpace(portfolio.Name)
	if name == "" {
		name = "Portfolio"
	}
	visibility := "private"
	if portfolio.IsPublic {
		visibility = "public"
	}
	return fmt.Sprintf("%s (%s, %s)", name, portfolio.ID, visibility)
}

func positionLines(positions []domain.Position, s styles) []string {
	if len(positions) == 0 {
		return []string{s.empty.Render("positions: none")}
	}

	total := decimal.Zero
	for _, position := range positions {
		total = total.Add(marketValue(position))
	}

	lines := []string{s.key.Render(fmt.Sprintf("positions: %d  value: %s", len(positions), total.StringFixed(2)))}
	for _, position := range positions {
		share := 0.0
		if total.IsPositive() {
			share, _ = marketValue(position).Div(total).Mul(decimal.NewFromInt(100)).Float64()
		}

		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render(fmt.Sprintf("  %-6s", position.Symbol)),
			" ",
			sideStyle(position.Side, s).Render(fmt.Sprintf("%-4s", position.Side)),
			" ",
			s.detail.Render(fmt.Sprintf("%s @ %s", position.Quantity.String(), position.Price.StringFixed(2))),
			" ",
			renderAllocationBar(share, allocationBarWidth, s),
			" ",
			s.meta.Render(fmt.Sprintf("%3.0f%%", clampPercent(share))),
		))
	}

	return lines
}

func orderLines(orders []domain.Order, s styles) []string {
	if len(orders) == 0 {
		return []string{s.empty.Render("orders: none")}
	}

	lines := []string{s.key.Render(fmt.Sprintf("orders: %d", len(orders)))}
	for _, order := range orders {
		price := "market"
		if order.Type == domain.OrderTypeLimit && order.LimitPrice != nil {
			price = "limit " + order.LimitPrice.StringFixed(2)
		}

		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.meta.Render(fmt.Sprintf("  %s", order.ID)),
			" ",
			sideStyle(order.Side, s).Render(string(order.Side)),
			" ",
			s.detail.Render(fmt.Sprintf("%s %s (%s)", order.Quantity.String(), order.Symbol, price)),
		))
	}

	return lines
}

func marketValue(position domain.Position) decimal.Decimal {
	return position.Quantity.Mul(position.Price)
}

func sideStyle(side domain.Side, s styles) lipgloss.Style {
	if side == domain.SideSell {
		return s.sell
	}
	return s.buy
}

func renderAllocationBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100.0))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatExpiryAt(expiresAt, now time.Time) string {
	if now.IsZero() {
		return expiresAt.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := expiresAt.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return expiresAt.Format("15:04")
	}

	return expiresAt.Format("15:04 on 02 Jan")
}

func formatExpiryRelative(expiresAt, now time.Time) string {
	if now.IsZero() {
		return "expires " + formatExpiryAt(expiresAt, now)
	}
	if !expiresAt.After(now) {
		return fmt.Sprintf("expired (%s)", formatExpiryAt(expiresAt, now))
	}

	remaining := expiresAt.Sub(now)
	if remaining < time.Hour {
		minutes := int(math.Ceil(remaining.Minutes()))
		suffix := "minutes"
		if minutes == 1 {
			suffix = "minute"
		}
		return fmt.Sprintf("expires in %d %s (%s)", minutes, suffix, formatExpiryAt(expiresAt, now))
	}

	hours := int(math.Ceil(remaining.Hours()))
	suffix := "hours"
	if hours == 1 {
		suffix = "hour"
	}
	return fmt.Sprintf("expires in %d %s (%s)", hours, suffix, formatExpiryAt(expiresAt, now))
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp from 240 (faded) to 255 (bright).
	interpolated := 240.0 + 15.0*normalized
	return lipgloss.Color(fmt.Sprintf("%d", int(interpolated)))
}

// expiryColor brightens as the token nears expiry inside window.
func expiryColor(expiresAt, now time.Time, window time.Duration) lipgloss.Color {
	if now.IsZero() || !expiresAt.After(now) || window <= 0 {
		return lipgloss.Color("255")
	}

	remaining := expiresAt.Sub(now)
	return interpolateColor(window.Seconds()-remaining.Seconds(), 0, window.Seconds())
}

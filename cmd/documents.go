package cmd

import (
	"time"

	"github.com/bnema/tradedesk/internal/domain"
)

// Output documents for --json and --yaml. The token itself is never printed.
type statusDocument struct {
	Authenticated   bool               `json:"authenticated" yaml:"authenticated"`
	Loading         bool               `json:"loading" yaml:"loading"`
	TokenExpiry     string             `json:"token_expiry,omitempty" yaml:"token_expiry,omitempty"`
	User            *userDocument      `json:"user,omitempty" yaml:"user,omitempty"`
	ActivePortfolio *portfolioDocument `json:"active_portfolio,omitempty" yaml:"active_portfolio,omitempty"`
	SymbolsLoaded   bool               `json:"symbols_loaded" yaml:"symbols_loaded"`
	SymbolCount     int                `json:"symbol_count" yaml:"symbol_count"`
	Polling         string             `json:"polling,omitempty" yaml:"polling,omitempty"`
}

type userDocument struct {
	ID         string                     `json:"id" yaml:"id"`
	Username   string                     `json:"username" yaml:"username"`
	Email      string                     `json:"email,omitempty" yaml:"email,omitempty"`
	Disabled   bool                       `json:"disabled" yaml:"disabled"`
	Portfolios []portfolioSummaryDocument `json:"portfolios" yaml:"portfolios"`
}

type portfolioSummaryDocument struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type portfolioDocument struct {
	ID        string             `json:"id" yaml:"id"`
	Name      string             `json:"name" yaml:"name"`
	OwnerID   string             `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`
	IsPublic  bool               `json:"is_public" yaml:"is_public"`
	Positions []positionDocument `json:"positions" yaml:"positions"`
	Orders    []orderDocument    `json:"orders" yaml:"orders"`
}

type positionDocument struct {
	ID       string `json:"id" yaml:"id"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Quantity string `json:"quantity" yaml:"quantity"`
	Price    string `json:"price" yaml:"price"`
	Side     string `json:"side" yaml:"side"`
}

type orderDocument struct {
	ID          string `json:"id" yaml:"id"`
	Symbol      string `json:"symbol" yaml:"symbol"`
	Quantity    string `json:"quantity" yaml:"quantity"`
	PortfolioID string `json:"portfolio_id,omitempty" yaml:"portfolio_id,omitempty"`
	Side        string `json:"side" yaml:"side"`
	Type        string `json:"order_type" yaml:"order_type"`
	LimitPrice  string `json:"limit_price,omitempty" yaml:"limit_price,omitempty"`
	CreatedAt   string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

func toStatusDocument(state domain.SessionState, polling domain.PortfolioID) statusDocument {
	doc := statusDocument{
		Authenticated: state.IsAuthenticated(),
		Loading:       state.Loading,
		SymbolsLoaded: state.AvailableSymbols != nil,
		SymbolCount:   len(state.AvailableSymbols),
		Polling:       string(polling),
	}
	if state.TokenExpiry != nil {
		doc.TokenExpiry = state.TokenExpiry.UTC().Format(time.RFC3339)
	}
	if state.User != nil {
		user := toUserDocument(*state.User)
		doc.User = &user
	}
	if state.ActivePortfolio != nil {
		portfolio := toPortfolioDocument(*state.ActivePortfolio)
		doc.ActivePortfolio = &portfolio
	}

	return doc
}

func toUserDocument(user domain.User) userDocument {
	doc := userDocument{
		ID:         string(user.ID),
		Username:   user.Username,
		Email:      user.Email,
		Disabled:   user.Disabled,
		Portfolios: make([]portfolioSummaryDocument, 0, len(user.Portfolios)),
	}
	for _, summary := range user.Portfolios {
		doc.Portfolios = append(doc.Portfolios, portfolioSummaryDocument{ID: string(summary.ID), Name: summary.Name})
	}

	return doc
}

func toPortfolioDocument(portfolio domain.Portfolio) portfolioDocument {
	doc := portfolioDocument{
		ID:        string(portfolio.ID),
		Name:      portfolio.Name,
		OwnerID:   string(portfolio.OwnerID),
		IsPublic:  portfolio.IsPublic,
		Positions: make([]positionDocument, 0, len(portfolio.Positions)),
		Orders:    make([]orderDocument, 0, len(portfolio.Orders)),
	}
	for _, position := range portfolio.Positions {
		doc.Positions = append(doc.Positions, positionDocument{
			ID:       string(position.ID),
			Symbol:   position.Symbol,
			Quantity: position.Quantity.String(),
			Price:    position.Price.String(),
			Side:     string(position.Side),
		})
	}
	for _, order := range portfolio.Orders {
		doc.Orders = append(doc.Orders, toOrderDocument(order))
	}

	return doc
}

func toOrderDocument(order domain.Order) orderDocument {
	doc := orderDocument{
		ID:          string(order.ID),
		Symbol:      order.Symbol,
		Quantity:    order.Quantity.String(),
		PortfolioID: string(order.PortfolioID),
		Side:        string(order.Side),
		Type:        string(order.Type),
		CreatedAt:   order.CreatedAt,
	}
	if order.LimitPrice != nil {
		doc.LimitPrice = order.LimitPrice.String()
	}

	return doc
}

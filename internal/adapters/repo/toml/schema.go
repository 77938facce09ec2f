package toml

import "fmt"

const currentSchemaVersion = 1

// snapshotSchema is the on-disk form of domain.SessionState. Null fields are
// omitted; symbols_loaded separates an empty symbol list from one never loaded.
type snapshotSchema struct {
	Version         int              `toml:"version"`
	Loading         bool             `toml:"loading"`
	Token           *string          `toml:"token,omitempty"`
	TokenExpiry     string           `toml:"token_expiry,omitempty"`
	SymbolsLoaded   bool             `toml:"symbols_loaded"`
	User            *userSchema      `toml:"user,omitempty"`
	ActivePortfolio *portfolioSchema `toml:"active_portfolio,omitempty"`
	Symbols         []symbolSchema   `toml:"symbols,omitempty"`
}

func (s *snapshotSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s snapshotSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type userSchema struct {
	ID         string                   `toml:"id"`
	Username   string                   `toml:"username"`
	Email      string                   `toml:"email,omitempty"`
	Disabled   bool                     `toml:"disabled"`
	Portfolios []portfolioSummarySchema `toml:"portfolios,omitempty"`
}

type portfolioSummarySchema struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

type portfolioSchema struct {
	ID        string           `toml:"id"`
	Name      string           `toml:"name"`
	OwnerID   string           `toml:"owner_id,omitempty"`
	IsPublic  bool             `toml:"is_public"`
	Positions []positionSchema `toml:"positions,omitempty"`
	Orders    []orderSchema    `toml:"orders,omitempty"`
}

type positionSchema struct {
	ID       string `toml:"id"`
	Symbol   string `toml:"symbol"`
	Quantity string `toml:"quantity"`
	Price    string `toml:"price"`
	Side     string `toml:"side"`
}

type orderSchema struct {
	ID          string `toml:"id"`
	Symbol      string `toml:"symbol"`
	Quantity    string `toml:"quantity"`
	PortfolioID string `toml:"portfolio_id,omitempty"`
	Side        string `toml:"side"`
	Type        string `toml:"order_type"`
	LimitPrice  string `toml:"limit_price,omitempty"`
	CreatedAt   string `toml:"created_at,omitempty"`
}

type symbolSchema struct {
	Ticker string `toml:"ticker"`
	Name   string `toml:"name"`
	Logo   string `toml:"logo,omitempty"`
}

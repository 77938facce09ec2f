package ports

import (
	"context"

	"github.com/bnema/tradedesk/internal/domain"
)

// PortfolioSource fetches the latest snapshot of one portfolio.
type PortfolioSource interface {
	FetchPortfolio(ctx context.Context, id domain.PortfolioID) (domain.Portfolio, error)
}

// RemoteService is the trading API boundary consumed by session operations.
type RemoteService interface {
	PortfolioSource
	Authenticate(ctx context.Context, credentials domain.Credentials) (domain.TokenGrant, error)
	FetchUser(ctx context.Context) (domain.User, error)
	RefreshToken(ctx context.Context) (domain.TokenGrant, error)
	FetchSymbols(ctx context.Context) ([]domain.Symbol, error)
}

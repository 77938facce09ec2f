package ports

import (
	"context"

	"github.com/bnema/tradedesk/internal/domain"
)

type SnapshotRepository interface {
	Load(ctx context.Context) (domain.SessionState, error)
	Save(ctx context.Context, state domain.SessionState) error
}

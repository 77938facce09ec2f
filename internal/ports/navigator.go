package ports

import "github.com/bnema/tradedesk/internal/domain"

// Navigator receives fire-and-forget "go to view" signals.
type Navigator interface {
	NavigateTo(view domain.View)
}

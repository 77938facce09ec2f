package application

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/session"
	"github.com/bnema/tradedesk/internal/testutil"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mockAnyContext() interface{} {
	return mock.Anything
}

func mockAnyArgument() interface{} {
	return mock.Anything
}

func newFakeClock() *testutil.FakeClock {
	return testutil.NewFakeClock(epoch)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *syncBuffer) {
	out := &syncBuffer{}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})), out
}

// recordMutations returns a func reporting every mutation committed on store
// since the call.
func recordMutations(t *testing.T, store *session.Store) func() []session.MutationName {
	t.Helper()

	var mu sync.Mutex
	var names []session.MutationName
	unsubscribe := store.Subscribe(func(c session.Commit) {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, c.Mutation)
	})
	t.Cleanup(unsubscribe)

	return func() []session.MutationName {
		mu.Lock()
		defer mu.Unlock()
		return append([]session.MutationName(nil), names...)
	}
}

func samplePortfolio(id domain.PortfolioID, name string) domain.Portfolio {
	return domain.Portfolio{
		ID:      id,
		Name:    name,
		OwnerID: "u-1",
		Positions: []domain.Position{
			{ID: "pos-1", Symbol: "AAPL", Quantity: decimal.RequireFromString("10"), Price: decimal.RequireFromString("187.25"), Side: domain.SideBuy},
		},
		Orders: []domain.Order{
			{ID: "o-1", Symbol: "AAPL", Quantity: decimal.RequireFromString("2"), PortfolioID: id, Side: domain.SideBuy, Type: domain.OrderTypeMarket, CreatedAt: "2026-02-28T10:00:00"},
		},
	}
}

func marketOrder(symbol, quantity string) domain.Order {
	return domain.Order{
		Symbol:   symbol,
		Quantity: decimal.RequireFromString(quantity),
		Side:     domain.SideBuy,
		Type:     domain.OrderTypeMarket,
	}
}

func tokenPtr(value string) *string {
	return &value
}

package session

import (
	"testing"
	"time"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDefaultsAreNull(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})

	assert.Equal(t, false, store.Get(FieldLoading))
	for _, field := range []Field{FieldUser, FieldToken, FieldTokenExpiry, FieldActivePortfolio, FieldAvailableSymbols} {
		assert.Nil(t, store.Get(field), "field %s", field)
	}
	assert.False(t, store.IsAuthenticated())
	assert.Zero(t, store.Revision())
}

func TestStoreCommitTouchesOnlyTheMutatedField(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := domain.User{ID: "u-1", Username: "ada", Portfolios: []domain.PortfolioSummary{{ID: "p-1", Name: "Main"}}}
	portfolio := domain.Portfolio{ID: "p-1", Name: "Main", Orders: []domain.Order{{ID: "o-1", Symbol: "AAPL"}}}
	symbols := []domain.Symbol{{Ticker: "AAPL", Name: "Apple"}}

	tests := []struct {
		name     string
		mutation MutationName
		payload  any
		field    Field
		want     any
	}{
		{name: "loading", mutation: SetLoading, payload: true, field: FieldLoading, want: true},
		{name: "user", mutation: SetUser, payload: user, field: FieldUser, want: &user},
		{name: "user pointer", mutation: SetUser, payload: &user, field: FieldUser, want: &user},
		{name: "token", mutation: SetToken, payload: "T", field: FieldToken, want: "T"},
		{name: "token expiry", mutation: SetTokenExpiry, payload: expiry, field: FieldTokenExpiry, want: expiry},
		{name: "portfolio", mutation: SetPortfolio, payload: portfolio, field: FieldActivePortfolio, want: &portfolio},
		{name: "symbols", mutation: SetAvailableSymbols, payload: symbols, field: FieldAvailableSymbols, want: symbols},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := NewStore(domain.SessionState{})
			before := store.State()

			store.Commit(tc.mutation, tc.payload)

			assert.Equal(t, tc.want, store.Get(tc.field))
			after := store.State()
			for _, field := range allFields {
				if field == tc.field {
					continue
				}
				assert.Equal(t, fieldOf(before, field), fieldOf(after, field), "field %s changed", field)
			}
			assert.Equal(t, uint64(1), store.Revision())
			assert.Equal(t, uint64(1), store.FieldRevision(tc.field))
		})
	}
}

func TestStoreCommitNilClearsField(t *testing.T) {
	t.Parallel()

	token := "T"
	store := NewStore(domain.SessionState{Token: &token, ActivePortfolio: &domain.Portfolio{ID: "p-1"}})
	require.True(t, store.IsAuthenticated())

	store.Commit(SetToken, nil)
	store.Commit(SetPortfolio, (*domain.Portfolio)(nil))

	assert.Nil(t, store.Get(FieldToken))
	assert.Nil(t, store.Get(FieldActivePortfolio))
	assert.False(t, store.IsAuthenticated())
}

func TestStoreReadsDoNotAliasState(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})
	payload := domain.Portfolio{ID: "p-1", Orders: []domain.Order{{ID: "o-1"}}}
	store.Commit(SetPortfolio, payload)

	payload.Orders[0].ID = "mutated-after-commit"
	read, ok := store.ActivePortfolio()
	require.True(t, ok)
	read.Orders[0].ID = "mutated-after-read"

	again, ok := store.ActivePortfolio()
	require.True(t, ok)
	assert.Equal(t, domain.OrderID("o-1"), again.Orders[0].ID)
}

func TestStoreUnknownMutationPanics(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})

	assert.PanicsWithError(t, `unknown mutation: "setColour"`, func() {
		store.Commit("setColour", "blue")
	})
	assert.Zero(t, store.Revision())
}

func TestStoreMalformedPayloadPanicsAndKeepsLockUsable(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})

	assert.Panics(t, func() {
		store.Commit(SetLoading, "yes")
	})
	assert.Panics(t, func() {
		store.Commit(SetUser, domain.Portfolio{})
	})

	store.Commit(SetLoading, true)
	assert.True(t, store.Loading())
}

func TestStoreUnknownFieldPanics(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})
	assert.Panics(t, func() {
		store.Get("colour")
	})
}

func TestStoreSubscribersRunInOrderAfterCommit(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})
	var calls []string

	store.Subscribe(func(c Commit) {
		assert.True(t, c.State.Loading)
		assert.Equal(t, SetLoading, c.Mutation)
		assert.Equal(t, FieldLoading, c.Field)
		calls = append(calls, "first")
	})
	store.Subscribe(func(c Commit) {
		assert.True(t, store.Loading(), "state must be applied before notification")
		calls = append(calls, "second")
	})

	store.Commit(SetLoading, true)

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestStoreUnsubscribeStopsNotifications(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})
	count := 0
	unsubscribe := store.Subscribe(func(Commit) { count++ })

	store.Commit(SetLoading, true)
	unsubscribe()
	unsubscribe()
	store.Commit(SetLoading, false)

	assert.Equal(t, 1, count)
}

func TestStoreListenerMayCommit(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})
	var seen []MutationName
	store.Subscribe(func(c Commit) {
		seen = append(seen, c.Mutation)
		if c.Mutation == SetToken {
			store.Commit(SetLoading, false)
		}
	})

	store.Commit(SetToken, "T")

	assert.Equal(t, []MutationName{SetToken, SetLoading}, seen)
	assert.Equal(t, uint64(2), store.Revision())
}

func TestStoreListenersGetIndependentCopies(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})
	store.Subscribe(func(c Commit) {
		c.State.ActivePortfolio.Name = "scribbled"
	})
	var got string
	store.Subscribe(func(c Commit) {
		got = c.State.ActivePortfolio.Name
	})

	store.Commit(SetPortfolio, domain.Portfolio{ID: "p-1", Name: "Main"})

	assert.Equal(t, "Main", got)
}

func TestStoreCommitIfUnchanged(t *testing.T) {
	t.Parallel()

	store := NewStore(domain.SessionState{})
	store.Commit(SetPortfolio, domain.Portfolio{ID: "p-1", Name: "v1"})
	rev := store.FieldRevision(FieldActivePortfolio)

	store.Commit(SetLoading, true)
	require.True(t, store.CommitIfUnchanged(FieldActivePortfolio, rev, SetPortfolio, domain.Portfolio{ID: "p-1", Name: "v2"}))

	assert.False(t, store.CommitIfUnchanged(FieldActivePortfolio, rev, SetPortfolio, domain.Portfolio{ID: "p-1", Name: "stale"}))
	current, ok := store.ActivePortfolio()
	require.True(t, ok)
	assert.Equal(t, "v2", current.Name)

	assert.Panics(t, func() {
		store.CommitIfUnchanged(FieldUser, 0, SetPortfolio, nil)
	})
}

var allFields = []Field{FieldLoading, FieldUser, FieldToken, FieldTokenExpiry, FieldActivePortfolio, FieldAvailableSymbols}

func fieldOf(state domain.SessionState, field Field) any {
	return NewStore(state).Get(field)
}

func TestStoreSnapshotPairsStateWithRevision(t *testing.T) {
	store := NewStore(domain.SessionState{})
	store.Commit(SetToken, "T")
	store.Commit(SetLoading, true)

	state, revision := store.Snapshot()
	assert.Equal(t, uint64(2), revision)
	assert.True(t, state.Loading)
	require.NotNil(t, state.Token)

	*state.Token = "mutated"
	assert.Equal(t, "T", store.Token())
}

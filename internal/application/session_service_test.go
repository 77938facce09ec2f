package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/ports/mocks"
	"github.com/bnema/tradedesk/internal/session"
)

type serviceFixture struct {
	store     *session.Store
	remote    *mocks.MockRemoteService
	navigator *mocks.MockNavigator
	service   *SessionService
}

func newServiceFixture(t *testing.T, initial domain.SessionState) serviceFixture {
	t.Helper()

	store := session.NewStore(initial)
	remote := mocks.NewMockRemoteService(t)
	navigator := mocks.NewMockNavigator(t)
	service := NewSessionService(store, remote, navigator, newFakeClock(), nil)
	service.newID = func() string { return "generated-id" }

	return serviceFixture{store: store, remote: remote, navigator: navigator, service: service}
}

func signedInState() domain.SessionState {
	portfolio := samplePortfolio("p-1", "Main")
	expiry := epoch.Add(time.Hour)
	return domain.SessionState{
		User:            &domain.User{ID: "u-1", Username: "ada", Portfolios: []domain.PortfolioSummary{{ID: "p-1", Name: "Main"}}},
		Token:           tokenPtr("T"),
		TokenExpiry:     &expiry,
		ActivePortfolio: &portfolio,
	}
}

func TestSessionServiceLoginLoadsFirstPortfolio(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})
	mutations := recordMutations(t, f.store)

	expiry := epoch.Add(30 * time.Minute)
	user := domain.User{ID: "u-1", Username: "ada", Portfolios: []domain.PortfolioSummary{{ID: "p-1", Name: "Main"}}}
	portfolio := samplePortfolio("p-1", "Main")

	f.remote.EXPECT().FetchUser(mockAnyContext()).Return(user, nil)
	f.remote.EXPECT().FetchPortfolio(mockAnyContext(), domain.PortfolioID("p-1")).Return(portfolio, nil)
	f.navigator.EXPECT().NavigateTo(domain.ViewDashboard).Return()

	err := f.service.Login(context.Background(), domain.TokenGrant{AccessToken: "T", ExpiresAt: expiry})
	require.NoError(t, err)

	state := f.store.State()
	assert.False(t, state.Loading)
	require.NotNil(t, state.Token)
	assert.Equal(t, "T", *state.Token)
	require.NotNil(t, state.TokenExpiry)
	assert.Equal(t, expiry, *state.TokenExpiry)
	require.NotNil(t, state.ActivePortfolio)
	assert.Equal(t, domain.PortfolioID("p-1"), state.ActivePortfolio.ID)
	require.NotNil(t, state.User)
	assert.Equal(t, []domain.PortfolioSummary{{ID: "p-1", Name: "Main"}}, state.User.Portfolios)

	assert.Equal(t, []session.MutationName{
		session.SetLoading,
		session.SetToken,
		session.SetTokenExpiry,
		session.SetPortfolio,
		session.SetUser,
		session.SetLoading,
	}, mutations())
}

func TestSessionServiceLoginWithoutPortfoliosSkipsPortfolioFetch(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})
	mutations := recordMutations(t, f.store)

	f.remote.EXPECT().FetchUser(mockAnyContext()).Return(domain.User{ID: "u-1", Username: "ada"}, nil)
	f.navigator.EXPECT().NavigateTo(domain.ViewDashboard).Return()

	require.NoError(t, f.service.Login(context.Background(), domain.TokenGrant{AccessToken: "T"}))

	_, ok := f.store.ActivePortfolio()
	assert.False(t, ok)
	_, ok = f.store.TokenExpiry()
	assert.False(t, ok)
	assert.Equal(t, []session.MutationName{
		session.SetLoading,
		session.SetToken,
		session.SetTokenExpiry,
		session.SetUser,
		session.SetLoading,
	}, mutations())
}

func TestSessionServiceLoginWithoutPortfoliosClearsPreviousPortfolio(t *testing.T) {
	f := newServiceFixture(t, signedInState())
	mutations := recordMutations(t, f.store)

	f.remote.EXPECT().FetchUser(mockAnyContext()).Return(domain.User{ID: "u-2", Username: "grace"}, nil)
	f.navigator.EXPECT().NavigateTo(domain.ViewDashboard).Return()

	require.NoError(t, f.service.Login(context.Background(), domain.TokenGrant{AccessToken: "T2", ExpiresAt: epoch.Add(time.Hour)}))

	user, ok := f.store.User()
	require.True(t, ok)
	assert.Equal(t, domain.UserID("u-2"), user.ID)
	_, ok = f.store.ActivePortfolio()
	assert.False(t, ok, "the previous user's portfolio must not stay active")
	assert.Equal(t, []session.MutationName{
		session.SetLoading,
		session.SetToken,
		session.SetTokenExpiry,
		session.SetPortfolio,
		session.SetUser,
		session.SetLoading,
	}, mutations())
}

func TestSessionServiceLoginFailureResetsLoading(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})

	remoteErr := errors.New("connection refused")
	f.remote.EXPECT().FetchUser(mockAnyContext()).Return(domain.User{}, remoteErr)

	err := f.service.Login(context.Background(), domain.TokenGrant{AccessToken: "T", ExpiresAt: epoch.Add(time.Hour)})
	require.Error(t, err)
	assert.ErrorIs(t, err, remoteErr)

	assert.False(t, f.store.Loading())
	assert.Equal(t, "T", f.store.Token(), "commits before the failure are kept")
	_, ok := f.store.User()
	assert.False(t, ok)
}

func TestSessionServiceLoginPortfolioFailureLeavesUserUnset(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})

	remoteErr := errors.New("portfolio gone")
	f.remote.EXPECT().FetchUser(mockAnyContext()).Return(domain.User{ID: "u-1", Portfolios: []domain.PortfolioSummary{{ID: "p-1"}}}, nil)
	f.remote.EXPECT().FetchPortfolio(mockAnyContext(), domain.PortfolioID("p-1")).Return(domain.Portfolio{}, remoteErr)

	err := f.service.Login(context.Background(), domain.TokenGrant{AccessToken: "T"})
	require.ErrorIs(t, err, remoteErr)

	assert.False(t, f.store.Loading())
	_, ok := f.store.User()
	assert.False(t, ok)
}

func TestSessionServiceSignIn(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})

	credentials := domain.Credentials{Username: "ada", Password: "secret"}
	f.remote.EXPECT().Authenticate(mockAnyContext(), credentials).Return(domain.TokenGrant{AccessToken: "T", TokenType: "bearer"}, nil)
	f.remote.EXPECT().FetchUser(mockAnyContext()).Return(domain.User{ID: "u-1"}, nil)
	f.navigator.EXPECT().NavigateTo(domain.ViewDashboard).Return()

	require.NoError(t, f.service.SignIn(context.Background(), credentials))
	assert.True(t, f.store.IsAuthenticated())
}

func TestSessionServiceSignInAuthenticateFailureCommitsNothing(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})

	remoteErr := errors.New("401 incorrect username or password")
	f.remote.EXPECT().Authenticate(mockAnyContext(), domain.Credentials{Username: "ada"}).Return(domain.TokenGrant{}, remoteErr)

	err := f.service.SignIn(context.Background(), domain.Credentials{Username: "ada"})
	require.ErrorIs(t, err, remoteErr)
	assert.Zero(t, f.store.Revision())
}

func TestSessionServiceLogoutClearsSession(t *testing.T) {
	f := newServiceFixture(t, signedInState())
	mutations := recordMutations(t, f.store)
	f.navigator.EXPECT().NavigateTo(domain.ViewHome).Return()

	f.service.Logout()

	state := f.store.State()
	assert.Nil(t, state.Token)
	assert.Nil(t, state.TokenExpiry)
	assert.Nil(t, state.User)
	assert.Nil(t, state.ActivePortfolio)
	assert.Equal(t, []session.MutationName{
		session.SetTokenExpiry,
		session.SetToken,
		session.SetUser,
		session.SetPortfolio,
	}, mutations())
}

func TestSessionServiceLogoutWhenSignedOut(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})
	f.navigator.EXPECT().NavigateTo(domain.ViewHome).Return()

	f.service.Logout()

	assert.False(t, f.store.IsAuthenticated())
}

func TestSessionServiceRefreshSessionTokenIsRepeatable(t *testing.T) {
	f := newServiceFixture(t, signedInState())

	first := epoch.Add(2 * time.Hour)
	second := epoch.Add(3 * time.Hour)
	f.remote.EXPECT().RefreshToken(mockAnyContext()).Return(domain.TokenGrant{AccessToken: "T2", ExpiresAt: first}, nil).Once()
	f.remote.EXPECT().RefreshToken(mockAnyContext()).Return(domain.TokenGrant{AccessToken: "T3", ExpiresAt: second}, nil).Once()

	require.NoError(t, f.service.RefreshSessionToken(context.Background()))
	assert.Equal(t, "T2", f.store.Token())

	require.NoError(t, f.service.RefreshSessionToken(context.Background()))
	assert.Equal(t, "T3", f.store.Token())
	expiry, ok := f.store.TokenExpiry()
	require.True(t, ok)
	assert.Equal(t, second, expiry)
}

func TestSessionServiceRefreshSessionTokenRequiresSession(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})

	err := f.service.RefreshSessionToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestSessionServiceRefreshSessionTokenFailureKeepsToken(t *testing.T) {
	f := newServiceFixture(t, signedInState())

	remoteErr := errors.New("token expired")
	f.remote.EXPECT().RefreshToken(mockAnyContext()).Return(domain.TokenGrant{}, remoteErr)

	err := f.service.RefreshSessionToken(context.Background())
	require.ErrorIs(t, err, remoteErr)
	assert.Equal(t, "T", f.store.Token())
}

func TestSessionServiceEnsureFreshToken(t *testing.T) {
	t.Run("far from expiry", func(t *testing.T) {
		f := newServiceFixture(t, signedInState())

		refreshed, err := f.service.EnsureFreshToken(context.Background(), 2*time.Minute)
		require.NoError(t, err)
		assert.False(t, refreshed)
	})

	t.Run("within skew", func(t *testing.T) {
		state := signedInState()
		soon := epoch.Add(time.Minute)
		state.TokenExpiry = &soon
		f := newServiceFixture(t, state)
		f.remote.EXPECT().RefreshToken(mockAnyContext()).Return(domain.TokenGrant{AccessToken: "T2", ExpiresAt: epoch.Add(time.Hour)}, nil)

		refreshed, err := f.service.EnsureFreshToken(context.Background(), 2*time.Minute)
		require.NoError(t, err)
		assert.True(t, refreshed)
		assert.Equal(t, "T2", f.store.Token())
	})

	t.Run("no expiry recorded", func(t *testing.T) {
		state := signedInState()
		state.TokenExpiry = nil
		f := newServiceFixture(t, state)

		refreshed, err := f.service.EnsureFreshToken(context.Background(), 2*time.Minute)
		require.NoError(t, err)
		assert.False(t, refreshed)
	})

	t.Run("signed out", func(t *testing.T) {
		f := newServiceFixture(t, domain.SessionState{})

		_, err := f.service.EnsureFreshToken(context.Background(), 2*time.Minute)
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestSessionServiceAddPortfolioCopiesUser(t *testing.T) {
	f := newServiceFixture(t, signedInState())
	f.navigator.EXPECT().NavigateTo(domain.ViewDashboard).Return()

	before, ok := f.store.User()
	require.True(t, ok)

	err := f.service.AddPortfolio(context.Background(), domain.PortfolioSummary{ID: "p-2", Name: "Growth"})
	require.NoError(t, err)

	after, ok := f.store.User()
	require.True(t, ok)
	assert.Len(t, before.Portfolios, 1, "earlier read copy must not change")
	assert.Equal(t, []domain.PortfolioSummary{{ID: "p-1", Name: "Main"}, {ID: "p-2", Name: "Growth"}}, after.Portfolios)

	active, ok := f.store.ActivePortfolio()
	require.True(t, ok)
	assert.Equal(t, domain.Portfolio{ID: "p-2", Name: "Growth", OwnerID: "u-1"}, active)
}

func TestSessionServiceAddPortfolioKnownIDDoesNotDuplicate(t *testing.T) {
	f := newServiceFixture(t, signedInState())
	f.navigator.EXPECT().NavigateTo(domain.ViewDashboard).Return()

	require.NoError(t, f.service.AddPortfolio(context.Background(), domain.PortfolioSummary{ID: "p-1", Name: "Main"}))

	user, _ := f.store.User()
	assert.Len(t, user.Portfolios, 1)
}

func TestSessionServiceAddPortfolioRequiresUser(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})

	err := f.service.AddPortfolio(context.Background(), domain.PortfolioSummary{ID: "p-2"})
	assert.ErrorIs(t, err, domain.ErrNoUser)
	assert.Zero(t, f.store.Revision())
}

func TestSessionServiceSetActivePortfolioAssignsValue(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})

	portfolio := samplePortfolio("p-9", "Other")
	f.service.SetActivePortfolio(portfolio)

	active, ok := f.store.ActivePortfolio()
	require.True(t, ok)
	assert.Equal(t, portfolio, active)
}

func TestSessionServiceSelectPortfolio(t *testing.T) {
	state := signedInState()
	state.User.Portfolios = append(state.User.Portfolios, domain.PortfolioSummary{ID: "p-2", Name: "Growth"})
	f := newServiceFixture(t, state)

	growth := samplePortfolio("p-2", "Growth")
	f.remote.EXPECT().FetchPortfolio(mockAnyContext(), domain.PortfolioID("p-2")).Return(growth, nil)

	require.NoError(t, f.service.SelectPortfolio(context.Background(), "p-2"))

	active, _ := f.store.ActivePortfolio()
	assert.Equal(t, growth, active)

	err := f.service.SelectPortfolio(context.Background(), "p-404")
	assert.ErrorIs(t, err, domain.ErrPortfolioNotFound)
}

func TestSessionServiceAddOrder(t *testing.T) {
	f := newServiceFixture(t, signedInState())
	before, _ := f.store.ActivePortfolio()

	stored, err := f.service.AddOrder(marketOrder("MSFT", "3"))
	require.NoError(t, err)

	assert.Equal(t, domain.OrderID("generated-id"), stored.ID)
	assert.Equal(t, domain.PortfolioID("p-1"), stored.PortfolioID)
	assert.Equal(t, "2026-03-01T09:00:00Z", stored.CreatedAt)

	after, _ := f.store.ActivePortfolio()
	require.Len(t, after.Orders, 2)
	assert.Equal(t, stored, after.Orders[1])
	assert.Len(t, before.Orders, 1)
}

func TestSessionServiceAddOrderKeepsCallerID(t *testing.T) {
	f := newServiceFixture(t, signedInState())

	order := marketOrder("MSFT", "1")
	order.ID = "client-7"
	stored, err := f.service.AddOrder(order)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderID("client-7"), stored.ID)
}

func TestSessionServiceAddOrderErrors(t *testing.T) {
	t.Run("no active portfolio", func(t *testing.T) {
		f := newServiceFixture(t, domain.SessionState{})

		_, err := f.service.AddOrder(marketOrder("MSFT", "1"))
		assert.ErrorIs(t, err, domain.ErrNoActivePortfolio)
	})

	t.Run("invalid order", func(t *testing.T) {
		f := newServiceFixture(t, signedInState())
		rev := f.store.Revision()

		_, err := f.service.AddOrder(marketOrder("", "1"))
		assert.ErrorIs(t, err, domain.ErrInvalidOrder)
		assert.Equal(t, rev, f.store.Revision())
	})
}

func TestSessionServiceCancelOrder(t *testing.T) {
	f := newServiceFixture(t, signedInState())

	require.NoError(t, f.service.CancelOrder("o-1"))

	active, _ := f.store.ActivePortfolio()
	assert.Empty(t, active.Orders)
}

func TestSessionServiceCancelOrderAbsentIDLeavesOrders(t *testing.T) {
	f := newServiceFixture(t, signedInState())
	before, _ := f.store.ActivePortfolio()
	rev := f.store.Revision()

	require.NoError(t, f.service.CancelOrder("missing"))

	after, _ := f.store.ActivePortfolio()
	assert.Equal(t, before.Orders, after.Orders)
	assert.Equal(t, rev, f.store.Revision())
}

func TestSessionServiceCancelOrderRequiresPortfolio(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})

	assert.ErrorIs(t, f.service.CancelOrder("o-1"), domain.ErrNoActivePortfolio)
}

func TestSessionServiceLoadAvailableSymbolsOnce(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})

	symbols := []domain.Symbol{{Ticker: "AAPL", Name: "Apple Inc."}}
	f.remote.EXPECT().FetchSymbols(mockAnyContext()).Return(symbols, nil).Once()

	require.NoError(t, f.service.LoadAvailableSymbols(context.Background()))
	require.NoError(t, f.service.LoadAvailableSymbols(context.Background()))

	assert.Equal(t, symbols, f.store.AvailableSymbols())
}

func TestSessionServiceLoadAvailableSymbolsEmptyListCountsAsLoaded(t *testing.T) {
	f := newServiceFixture(t, domain.SessionState{})
	f.remote.EXPECT().FetchSymbols(mockAnyContext()).Return(nil, nil).Once()

	require.NoError(t, f.service.LoadAvailableSymbols(context.Background()))
	require.NoError(t, f.service.LoadAvailableSymbols(context.Background()))

	assert.NotNil(t, f.store.AvailableSymbols())
}

package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/ports"
	"github.com/bnema/tradedesk/internal/session"
)

// SessionService runs the compound session operations. Remote failures are
// returned wrapped and leave earlier commits in place; only the loading flag
// is reset.
type SessionService struct {
	store     *session.Store
	remote    ports.RemoteService
	navigator ports.Navigator
	clock     ports.Clock
	logger    *slog.Logger
	newID     func() string
}

func NewSessionService(store *session.Store, remote ports.RemoteService, navigator ports.Navigator, clock ports.Clock, logger *slog.Logger) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SessionService{
		store:     store,
		remote:    remote,
		navigator: navigator,
		clock:     clock,
		logger:    orDiscard(logger),
		newID:     uuid.NewString,
	}
}

func (s *SessionService) Authenticate(ctx context.Context, credentials domain.Credentials) (domain.TokenGrant, error) {
	grant, err := s.remote.Authenticate(ctx, credentials)
	if err != nil {
		return domain.TokenGrant{}, fmt.Errorf("authenticate: %w", err)
	}
	return grant, nil
}

// Login installs grant, loads the user and their first portfolio, then
// navigates to the dashboard.
func (s *SessionService) Login(ctx context.Context, grant domain.TokenGrant) error {
	s.store.Commit(session.SetLoading, true)

	if err := s.login(ctx, grant); err != nil {
		s.store.Commit(session.SetLoading, false)
		return err
	}

	s.store.Commit(session.SetLoading, false)
	s.navigator.NavigateTo(domain.ViewDashboard)
	return nil
}

func (s *SessionService) login(ctx context.Context, grant domain.TokenGrant) error {
	s.store.Commit(session.SetToken, grant.AccessToken)
	s.store.Commit(session.SetTokenExpiry, expiryPayload(grant.ExpiresAt))

	user, err := s.remote.FetchUser(ctx)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}

	if first, ok := user.FirstPortfolio(); ok {
		portfolio, err := s.remote.FetchPortfolio(ctx, first.ID)
		if err != nil {
			return fmt.Errorf("fetch portfolio %s: %w", first.ID, err)
		}
		s.store.Commit(session.SetPortfolio, portfolio)
	} else if _, active := s.store.ActivePortfolio(); active {
		// A portfolio left over from an earlier session does not belong to user.
		s.store.Commit(session.SetPortfolio, nil)
	}

	s.store.Commit(session.SetUser, user)
	return nil
}

func (s *SessionService) SignIn(ctx context.Context, credentials domain.Credentials) error {
	grant, err := s.Authenticate(ctx, credentials)
	if err != nil {
		return err
	}
	return s.Login(ctx, grant)
}

func (s *SessionService) Logout() {
	s.store.Commit(session.SetTokenExpiry, nil)
	s.store.Commit(session.SetToken, nil)
	s.store.Commit(session.SetUser, nil)
	s.store.Commit(session.SetPortfolio, nil)
	s.navigator.NavigateTo(domain.ViewHome)
}

func (s *SessionService) RefreshSessionToken(ctx context.Context) error {
	if !s.store.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	grant, err := s.remote.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}

	s.store.Commit(session.SetToken, grant.AccessToken)
	s.store.Commit(session.SetTokenExpiry, expiryPayload(grant.ExpiresAt))
	return nil
}

// EnsureFreshToken refreshes the token when it expires within skew. It
// reports whether a refresh happened.
func (s *SessionService) EnsureFreshToken(ctx context.Context, skew time.Duration) (bool, error) {
	if !s.store.IsAuthenticated() {
		return false, domain.ErrNotAuthenticated
	}

	expiry, ok := s.store.TokenExpiry()
	if !ok {
		return false, nil
	}
	grant := domain.TokenGrant{AccessToken: s.store.Token(), ExpiresAt: expiry}
	if !grant.ExpiringSoon(s.clock.Now(), skew) {
		return false, nil
	}

	s.logger.Info("session token expiring, refreshing", "expires_at", expiry)
	if err := s.RefreshSessionToken(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// AddPortfolio records summary on the user and makes it the active
// portfolio. The active value is a placeholder until the refresh cycle
// fetches the full record.
func (s *SessionService) AddPortfolio(ctx context.Context, summary domain.PortfolioSummary) error {
	user, ok := s.store.User()
	if !ok {
		return domain.ErrNoUser
	}

	if !user.HasPortfolio(summary.ID) {
		s.store.Commit(session.SetUser, user.WithPortfolio(summary))
	}

	s.SetActivePortfolio(domain.Portfolio{ID: summary.ID, Name: summary.Name, OwnerID: user.ID})
	s.navigator.NavigateTo(domain.ViewDashboard)
	return nil
}

func (s *SessionService) SetActivePortfolio(portfolio domain.Portfolio) {
	s.store.Commit(session.SetPortfolio, portfolio)
}

// SelectPortfolio fetches one of the user's portfolios and makes it active.
func (s *SessionService) SelectPortfolio(ctx context.Context, id domain.PortfolioID) error {
	user, ok := s.store.User()
	if !ok {
		return domain.ErrNoUser
	}
	if !user.HasPortfolio(id) {
		return fmt.Errorf("%w: %s", domain.ErrPortfolioNotFound, id)
	}

	portfolio, err := s.remote.FetchPortfolio(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch portfolio %s: %w", id, err)
	}

	s.SetActivePortfolio(portfolio)
	return nil
}

// AddOrder appends order to the active portfolio and returns the stored
// order, with an id and portfolio id filled in when missing.
func (s *SessionService) AddOrder(order domain.Order) (domain.Order, error) {
	portfolio, ok := s.store.ActivePortfolio()
	if !ok {
		return domain.Order{}, domain.ErrNoActivePortfolio
	}
	if err := order.Validate(); err != nil {
		return domain.Order{}, err
	}

	if order.ID == "" {
		order.ID = domain.OrderID(s.newID())
	}
	if order.PortfolioID == "" {
		order.PortfolioID = portfolio.ID
	}
	if order.CreatedAt == "" {
		order.CreatedAt = s.clock.Now().UTC().Format(time.RFC3339)
	}

	s.store.Commit(session.SetPortfolio, portfolio.WithOrder(order))
	return order.Clone(), nil
}

// CancelOrder removes the order with id from the active portfolio. An
// unknown id commits nothing.
func (s *SessionService) CancelOrder(id domain.OrderID) error {
	portfolio, ok := s.store.ActivePortfolio()
	if !ok {
		return domain.ErrNoActivePortfolio
	}

	next, found := portfolio.WithoutOrder(id)
	if !found {
		s.logger.Debug("cancel unknown order", "order_id", string(id))
		return nil
	}

	s.store.Commit(session.SetPortfolio, next)
	return nil
}

// LoadAvailableSymbols fetches the symbol list once per session.
func (s *SessionService) LoadAvailableSymbols(ctx context.Context) error {
	if s.store.Get(session.FieldAvailableSymbols) != nil {
		return nil
	}

	symbols, err := s.remote.FetchSymbols(ctx)
	if err != nil {
		return fmt.Errorf("fetch symbols: %w", err)
	}
	if symbols == nil {
		symbols = []domain.Symbol{}
	}

	s.store.Commit(session.SetAvailableSymbols, symbols)
	return nil
}

func expiryPayload(expiresAt time.Time) any {
	if expiresAt.IsZero() {
		return nil
	}
	return expiresAt
}

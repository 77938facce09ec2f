package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/ports"
	"github.com/bnema/tradedesk/internal/session"
)

const DefaultRefreshInterval = 5 * time.Second

type RefreshStatus struct {
	Polling     bool
	PortfolioID domain.PortfolioID
}

// refreshCycle is the Polling state. A nil cycle is Idle.
type refreshCycle struct {
	portfolioID domain.PortfolioID
	// revision is the activePortfolio field revision the cycle started from.
	revision uint64
	timer    ports.Timer
	ctx      context.Context
	cancel   context.CancelFunc
}

// PortfolioRefresher polls the active portfolio and commits fresh snapshots
// back into the store. Every activePortfolio commit restarts the cycle, so
// ticks run one interval after the previous tick landed.
type PortfolioRefresher struct {
	store    *session.Store
	source   ports.PortfolioSource
	clock    ports.Clock
	interval time.Duration
	logger   *slog.Logger

	mu           sync.Mutex
	cycle        *refreshCycle
	lastRevision uint64
	unsubscribe  func()
	closed       bool
}

func NewPortfolioRefresher(store *session.Store, source ports.PortfolioSource, clock ports.Clock, interval time.Duration, logger *slog.Logger) *PortfolioRefresher {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	return &PortfolioRefresher{
		store:    store,
		source:   source,
		clock:    clock,
		interval: interval,
		logger:   orDiscard(logger),
	}
}

// Start subscribes to the store and resumes polling when the state already
// holds an active portfolio.
func (r *PortfolioRefresher) Start() {
	unsubscribe := r.store.Subscribe(r.Observe)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		unsubscribe()
		return
	}
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.unsubscribe = unsubscribe

	portfolio, ok := r.store.ActivePortfolio()
	if !ok || r.cycle != nil {
		return
	}
	r.armLocked(portfolio.ID, r.store.FieldRevision(session.FieldActivePortfolio))
}

// Observe applies the Idle/Polling transition for activePortfolio commits.
func (r *PortfolioRefresher) Observe(commit session.Commit) {
	if commit.Field != session.FieldActivePortfolio {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || commit.Revision <= r.lastRevision {
		return
	}
	r.lastRevision = commit.Revision

	r.stopLocked()

	id, ok := commit.State.ActivePortfolioID()
	if !ok {
		r.logger.Debug("refresh idle", "revision", commit.Revision)
		return
	}
	r.armLocked(id, commit.Revision)
}

func (r *PortfolioRefresher) Status() RefreshStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cycle == nil {
		return RefreshStatus{}
	}
	return RefreshStatus{Polling: true, PortfolioID: r.cycle.portfolioID}
}

// Close unsubscribes, stops the held timer and cancels any in-flight fetch.
func (r *PortfolioRefresher) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.stopLocked()
}

func (r *PortfolioRefresher) armLocked(id domain.PortfolioID, revision uint64) {
	ctx, cancel := context.WithCancel(context.Background())
	cycle := &refreshCycle{portfolioID: id, revision: revision, ctx: ctx, cancel: cancel}
	cycle.timer = r.clock.AfterFunc(r.interval, func() { r.tick(cycle) })
	r.cycle = cycle
}

func (r *PortfolioRefresher) stopLocked() {
	if r.cycle == nil {
		return
	}
	r.cycle.timer.Stop()
	r.cycle.cancel()
	r.cycle = nil
}

func (r *PortfolioRefresher) rearm(cycle *refreshCycle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cycle != cycle || cycle.ctx.Err() != nil {
		return
	}
	cycle.timer = r.clock.AfterFunc(r.interval, func() { r.tick(cycle) })
}

func (r *PortfolioRefresher) tick(cycle *refreshCycle) {
	r.mu.Lock()
	current := r.cycle == cycle
	r.mu.Unlock()
	if !current {
		return
	}

	portfolio, err := r.source.FetchPortfolio(cycle.ctx, cycle.portfolioID)
	if err != nil {
		if cycle.ctx.Err() != nil {
			r.logger.Debug("refresh cancelled", "portfolio_id", string(cycle.portfolioID))
			return
		}
		r.logger.Warn("refresh portfolio", "portfolio_id", string(cycle.portfolioID), "error", err)
		r.rearm(cycle)
		return
	}
	if cycle.ctx.Err() != nil {
		r.logger.Debug("drop superseded portfolio snapshot", "portfolio_id", string(cycle.portfolioID))
		return
	}

	// The commit notifies Observe, which replaces this cycle.
	if r.store.CommitIfUnchanged(session.FieldActivePortfolio, cycle.revision, session.SetPortfolio, portfolio) {
		return
	}

	r.logger.Debug("drop stale portfolio snapshot", "portfolio_id", string(cycle.portfolioID))
	r.rearm(cycle)
}

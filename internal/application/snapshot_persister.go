package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/ports"
	"github.com/bnema/tradedesk/internal/session"
)

const defaultSaveTimeout = 10 * time.Second

// SnapshotPersister writes the whole session state through a
// SnapshotRepository after every commit.
type SnapshotPersister struct {
	repo        ports.SnapshotRepository
	logger      *slog.Logger
	saveTimeout time.Duration

	mu        sync.Mutex
	source    *session.Store
	lastSeen  uint64
	lastSaved uint64
}

func NewSnapshotPersister(repo ports.SnapshotRepository, logger *slog.Logger) *SnapshotPersister {
	return &SnapshotPersister{
		repo:        repo,
		logger:      orDiscard(logger),
		saveTimeout: defaultSaveTimeout,
	}
}

// Attach subscribes the persister to store and returns the unsubscribe func.
func (p *SnapshotPersister) Attach(store *session.Store) func() {
	p.mu.Lock()
	p.source = store
	p.mu.Unlock()

	return store.Subscribe(p.Observe)
}

// Observe saves commit.State unless a newer revision was already saved.
// A notification older than one already seen saves the store's current
// state instead.
// Failures are logged and swallowed.
func (p *SnapshotPersister) Observe(commit session.Commit) {
	p.mu.Lock()
	defer p.mu.Unlock()

	state, revision := commit.State, commit.Revision
	if revision < p.lastSeen && p.source != nil {
		state, revision = p.source.Snapshot()
	}
	if revision > p.lastSeen {
		p.lastSeen = revision
	}

	if revision <= p.lastSaved {
		p.logger.Debug("skip stale snapshot", "revision", revision, "last_saved", p.lastSaved)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.saveTimeout)
	defer cancel()

	if err := p.repo.Save(ctx, state); err != nil {
		p.logger.Warn("persist session snapshot", "mutation", string(commit.Mutation), "revision", revision, "error", err)
		return
	}
	p.lastSaved = revision
}

// RestoreState loads the persisted snapshot. A missing or unreadable
// snapshot yields the zero state.
func RestoreState(ctx context.Context, repo ports.SnapshotRepository, logger *slog.Logger) domain.SessionState {
	logger = orDiscard(logger)

	state, err := repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			logger.Debug("no session snapshot, starting fresh")
		} else {
			logger.Warn("restore session snapshot", "error", err)
		}
		return domain.SessionState{}
	}

	return state
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

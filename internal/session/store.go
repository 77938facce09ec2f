package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/bnema/tradedesk/internal/domain"
)

// Commit describes one applied mutation. State is the full state right
// after the mutation and belongs to the listener receiving it.
type Commit struct {
	Mutation MutationName
	Field    Field
	Revision uint64
	State    domain.SessionState
}

type Listener func(Commit)

type subscription struct {
	id       uint64
	listener Listener
}

type Store struct {
	mu             sync.RWMutex
	state          domain.SessionState
	revision       uint64
	fieldRevisions map[Field]uint64
	subscriptions  []subscription
	nextID         uint64
}

func NewStore(initial domain.SessionState) *Store {
	return &Store{
		state:          initial.Clone(),
		fieldRevisions: map[Field]uint64{},
	}
}

// Get returns a copy of one field, or nil when the field is null.
func (s *Store) Get(field Field) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch field {
	case FieldLoading:
		return s.state.Loading
	case FieldUser:
		if s.state.User == nil {
			return nil
		}
		user := s.state.User.Clone()
		return &user
	case FieldToken:
		if s.state.Token == nil {
			return nil
		}
		return *s.state.Token
	case FieldTokenExpiry:
		if s.state.TokenExpiry == nil {
			return nil
		}
		return *s.state.TokenExpiry
	case FieldActivePortfolio:
		if s.state.ActivePortfolio == nil {
			return nil
		}
		portfolio := s.state.ActivePortfolio.Clone()
		return &portfolio
	case FieldAvailableSymbols:
		if s.state.AvailableSymbols == nil {
			return nil
		}
		return domain.CloneSymbols(s.state.AvailableSymbols)
	default:
		panic(fmt.Errorf("%w: %q", ErrUnknownField, field))
	}
}

func (s *Store) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}

// Snapshot returns a copy of the state together with the revision it was
// read at.
func (s *Store) Snapshot() (domain.SessionState, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone(), s.revision
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Loading
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.IsAuthenticated()
}

// Token returns the session credential, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.Token == nil {
		return ""
	}
	return *s.state.Token
}

func (s *Store) TokenExpiry() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.TokenExpiry == nil {
		return time.Time{}, false
	}
	return *s.state.TokenExpiry, true
}

func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.User == nil {
		return domain.User{}, false
	}
	return s.state.User.Clone(), true
}

func (s *Store) ActivePortfolio() (domain.Portfolio, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.ActivePortfolio == nil {
		return domain.Portfolio{}, false
	}
	return s.state.ActivePortfolio.Clone(), true
}

func (s *Store) AvailableSymbols() []domain.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.CloneSymbols(s.state.AvailableSymbols)
}

func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.revision
}

// FieldRevision returns the revision of the last commit that wrote field,
// or 0 when the field was never written through this store.
func (s *Store) FieldRevision(field Field) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.fieldRevisions[field]
}

// Commit applies one mutation and notifies subscribers before returning.
func (s *Store) Commit(name MutationName, payload any) {
	m := lookupMutation(name)

	commit, subs, _ := s.apply(name, m, payload, nil)
	notify(commit, subs)
}

// CommitIfUnchanged applies the mutation only when field has not been
// written since revision. It reports whether the commit happened.
func (s *Store) CommitIfUnchanged(field Field, revision uint64, name MutationName, payload any) bool {
	m := lookupMutation(name)
	if m.field != field {
		panic(fmt.Errorf("%w: %s writes %s, not %s", ErrMalformedPayload, name, m.field, field))
	}

	commit, subs, ok := s.apply(name, m, payload, &revision)
	if !ok {
		return false
	}
	notify(commit, subs)
	return true
}

// Subscribe registers listener for every later commit. The returned func
// removes it and is safe to call more than once.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subscriptions = append(s.subscriptions, subscription{id: id, listener: listener})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, sub := range s.subscriptions {
			if sub.id == id {
				s.subscriptions = append(s.subscriptions[:i:i], s.subscriptions[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) apply(name MutationName, m mutation, payload any, expected *uint64) (Commit, []subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expected != nil && s.fieldRevisions[m.field] != *expected {
		return Commit{}, nil, false
	}

	next := s.state
	m.apply(&next, payload)
	s.state = next
	s.revision++
	s.fieldRevisions[m.field] = s.revision

	commit := Commit{Mutation: name, Field: m.field, Revision: s.revision, State: s.state.Clone()}
	subs := append([]subscription(nil), s.subscriptions...)
	return commit, subs, true
}

func notify(commit Commit, subs []subscription) {
	base := commit.State
	for _, sub := range subs {
		c := commit
		c.State = base.Clone()
		sub.listener(c)
	}
}

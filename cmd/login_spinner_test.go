package cmd

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/session"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSignInSpinnerModelFollowsLoadingFlag(t *testing.T) {
	var model tea.Model = newSignInSpinnerModel(nil)
	assert.Contains(t, model.View(), signingInLabel)

	model, cmd := model.Update(loadingMsg(true))
	assert.Nil(t, cmd)
	assert.Contains(t, model.View(), loadingSessionLabel)

	model, cmd = model.Update(loadingMsg(false))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, model.View())
}

func TestSignInSpinnerModelIgnoresLoadingFalseBeforeLoadingStarts(t *testing.T) {
	var model tea.Model = newSignInSpinnerModel(nil)

	model, cmd := model.Update(loadingMsg(false))
	assert.Nil(t, cmd)
	assert.Contains(t, model.View(), signingInLabel)
}

func TestSignInSpinnerModelQuitsWhenSignInReturns(t *testing.T) {
	var model tea.Model = newSignInSpinnerModel(nil)

	model, cmd := model.Update(signInDoneMsg{err: errors.New("denied")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, model.View())
}

func TestRunSignInSpinnerTracksStoreLoading(t *testing.T) {
	store := session.NewStore(domain.SessionState{})
	output := &lockedBuffer{}

	err := runSignInSpinner(context.Background(), output, store, func(context.Context) error {
		store.Commit(session.SetLoading, true)
		time.Sleep(150 * time.Millisecond)
		store.Commit(session.SetLoading, false)
		return nil
	})

	require.NoError(t, err)
	assert.Contains(t, output.String(), loadingSessionLabel)
	assert.False(t, store.Loading())
}

func TestRunSignInSpinnerReturnsLoginError(t *testing.T) {
	store := session.NewStore(domain.SessionState{})
	loginErr := errors.New("fetch user: 500")

	err := runSignInSpinner(context.Background(), &lockedBuffer{}, store, func(context.Context) error {
		store.Commit(session.SetLoading, true)
		store.Commit(session.SetLoading, false)
		return loginErr
	})

	assert.ErrorIs(t, err, loginErr)
}

func TestRunSignInSpinnerReturnsAuthenticationErrorWithoutLoading(t *testing.T) {
	store := session.NewStore(domain.SessionState{})
	authErr := errors.New("incorrect username or password")
	output := &lockedBuffer{}

	err := runSignInSpinner(context.Background(), output, store, func(context.Context) error {
		time.Sleep(100 * time.Millisecond)
		return authErr
	})

	assert.ErrorIs(t, err, authErr)
	assert.Contains(t, output.String(), signingInLabel)
	assert.NotContains(t, output.String(), loadingSessionLabel)
}

func TestRunSignInSpinnerStopsListeningAfterwards(t *testing.T) {
	store := session.NewStore(domain.SessionState{})

	require.NoError(t, runSignInSpinner(context.Background(), &lockedBuffer{}, store, func(context.Context) error {
		return nil
	}))

	done := make(chan struct{})
	go func() {
		store.Commit(session.SetLoading, true)
		store.Commit(session.SetLoading, false)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("commit blocked on a finished spinner")
	}
}

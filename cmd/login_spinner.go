package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tradedesk/internal/session"
)

const (
	signingInLabel      = "Signing in..."
	loadingSessionLabel = "Loading your session..."
)

type signInDoneMsg struct {
	err error
}

// loadingMsg mirrors a commit to the store's loading flag.
type loadingMsg bool

type signInSpinnerModel struct {
	spinner spinner.Model
	signIn  tea.Cmd
	loading bool
	done    bool
}

func newSignInSpinnerModel(signIn tea.Cmd) signInSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return signInSpinnerModel{spinner: s, signIn: signIn}
}

func (m signInSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.signIn)
}

func (m signInSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadingMsg:
		if bool(msg) {
			m.loading = true
			return m, nil
		}
		if !m.loading {
			return m, nil
		}
		m.loading = false
		m.done = true
		return m, tea.Quit
	case signInDoneMsg:
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m signInSpinnerModel) label() string {
	if m.loading {
		return loadingSessionLabel
	}
	return signingInLabel
}

func (m signInSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label())
}

// runSignInSpinner shows a spinner on output while signIn runs. The label
// follows the store's loading flag and the spinner stops once loading ends.
func runSignInSpinner(ctx context.Context, output io.Writer, store *session.Store, signIn func(context.Context) error) error {
	result := make(chan error, 1)
	signInCmd := func() tea.Msg {
		err := signIn(ctx)
		result <- err
		return signInDoneMsg{err: err}
	}

	p := tea.NewProgram(
		newSignInSpinnerModel(signInCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	unsubscribe := store.Subscribe(func(commit session.Commit) {
		if commit.Field == session.FieldLoading {
			p.Send(loadingMsg(commit.State.Loading))
		}
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return err
	}

	return <-result
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/session"
)

func newWatchCmd(app *app) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the active portfolio fresh and print each refresh",
		Args:  cobra.NoArgs,
		RunE: withSession(app, func(cmd *cobra.Command, _ []string) error {
			portfolio, ok := app.store.ActivePortfolio()
			if !ok {
				return fmt.Errorf("%w: run `td portfolio use <id>` first", domain.ErrNoActivePortfolio)
			}
			if err := app.ensureFreshToken(cmd.Context()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			out := &watchWriter{w: cmd.OutOrStdout()}
			unsubscribe := app.store.Subscribe(func(commit session.Commit) {
				if commit.Field != session.FieldActivePortfolio || commit.State.ActivePortfolio == nil {
					return
				}
				out.printf("%s %s\n", app.clock.Now().Format("15:04:05"), describeRefresh(*commit.State.ActivePortfolio))
			})
			defer out.close()
			defer unsubscribe()

			out.printf("Watching %s (%s) every %s. Press Ctrl+C to stop.\n", portfolio.Name, portfolio.ID, app.cfg.RefreshInterval)
			<-ctx.Done()
			return nil
		}),
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (default: until interrupted)")

	return cmd
}

func describeRefresh(portfolio domain.Portfolio) string {
	value := decimal.Zero
	for _, position := range portfolio.Positions {
		value = value.Add(position.Quantity.Mul(position.Price))
	}
	return fmt.Sprintf("%s refreshed: %d positions, %d orders, value %s",
		portfolio.ID, len(portfolio.Positions), len(portfolio.Orders), value.StringFixed(2))
}

// watchWriter serialises refresh lines and drops any written after close.
type watchWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func (w *watchWriter) printf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	_, _ = fmt.Fprintf(w.w, format, args...)
}

func (w *watchWriter) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
}

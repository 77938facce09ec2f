package navigation

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/bnema/tradedesk/internal/domain"
	"github.com/bnema/tradedesk/internal/ports"
)

var _ ports.Navigator = (*Printer)(nil)

// Printer announces view changes on a writer. The CLI has no screens, so a
// navigation is a line telling the user where the client would go next.
type Printer struct {
	out    io.Writer
	logger *slog.Logger
}

func NewPrinter(out io.Writer, logger *slog.Logger) *Printer {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Printer{out: out, logger: logger}
}

func (p *Printer) NavigateTo(view domain.View) {
	p.logger.Info("navigate", "view", string(view))
	if _, err := fmt.Fprintf(p.out, "-> %s\n", view); err != nil {
		p.logger.Debug("write navigation", "error", err)
	}
}

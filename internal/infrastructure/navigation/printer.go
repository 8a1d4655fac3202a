// Package navigation implements ports.Navigator for the two front-ends: the
// CLI prints a hint, the console records the redirect for its next response.
package navigation

import (
	"fmt"
	"io"
	"sync"

	"github.com/notastartupanymore/companywatch/internal/api/metrics"
	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

const loginHint = "session expired, run `companywatch login`"

// Printer writes the login hint for forced logouts. Explicit logouts are
// silent; the command reports them itself.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) ToLogin(cause domain.ExpiryCause, userInitiated bool) {
	metrics.LoginRedirectsTotal.WithLabelValues(causeLabel(cause, userInitiated)).Inc()
	if userInitiated {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, loginHint)
}

func causeLabel(cause domain.ExpiryCause, userInitiated bool) string {
	if userInitiated {
		return "logout"
	}
	return string(cause)
}

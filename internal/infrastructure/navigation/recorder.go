package navigation

import (
	"sync"

	"github.com/notastartupanymore/companywatch/internal/api/metrics"
	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// LoginPath is where clients of the console are sent to authenticate.
const LoginPath = "/login"

// Redirect is a navigation the console still has to hand to its client.
type Redirect struct {
	To    string             `json:"to"`
	Cause domain.ExpiryCause `json:"cause,omitempty"`
}

// Recorder keeps the latest forced redirect until the console takes it.
type Recorder struct {
	mu      sync.Mutex
	pending *Redirect
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ToLogin(cause domain.ExpiryCause, userInitiated bool) {
	metrics.LoginRedirectsTotal.WithLabelValues(causeLabel(cause, userInitiated)).Inc()
	if userInitiated {
		return
	}
	r.mu.Lock()
	r.pending = &Redirect{To: LoginPath, Cause: cause}
	r.mu.Unlock()
}

// Take returns and clears the pending redirect, or nil.
func (r *Recorder) Take() *Redirect {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pending
	r.pending = nil
	return p
}

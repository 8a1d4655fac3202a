package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

// SessionManager owns the process-wide authentication state.
//
// States move Unknown → {Authenticated, Anonymous}. Every forced move to
// Anonymous clears the stored token and asks the navigator for the login
// view; while that redirect is pending further expiry signals are ignored.
type SessionManager struct {
	store ports.CredentialStore
	api   ports.RemoteAPI
	nav   ports.Navigator
	log   zerolog.Logger
	now   func() time.Time

	mu              sync.Mutex
	state           domain.SessionState
	username        string
	hasToken        bool
	redirectPending bool
}

// NewSessionManager returns a manager in the Unknown state. Call Start once
// at startup.
func NewSessionManager(store ports.CredentialStore, api ports.RemoteAPI, nav ports.Navigator, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		store: store,
		api:   api,
		nav:   nav,
		log:   log,
		now:   time.Now,
		state: domain.SessionUnknown,
	}
}

// Session returns a snapshot of the current state.
func (m *SessionManager) Session() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Session{State: m.state, Username: m.username, HasToken: m.hasToken}
}

// Start derives the session from the stored token. A missing token yields
// Anonymous without a redirect; a rejected token yields Anonymous, a cleared
// token and one redirect. A cancelled context leaves the state untouched.
func (m *SessionManager) Start(ctx context.Context) (domain.Session, error) {
	token, err := m.store.Get(ctx)
	if err != nil {
		m.reset(false)
		return m.Session(), fmt.Errorf("start session: read token: %w", err)
	}
	if token == "" {
		m.reset(false)
		m.log.Debug().Msg("no stored token, session is anonymous")
		return m.Session(), nil
	}

	if tokenExpired(token, m.now()) {
		m.Expire(ctx, domain.CauseTokenExpired)
		return m.Session(), fmt.Errorf("start session: %w", domain.ErrAuthExpired)
	}

	profile, err := m.api.Me(ctx, token)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return m.Session(), fmt.Errorf("start session: %w", err)
		}
		cause := domain.CauseProfileFailed
		if errors.Is(err, domain.ErrAuthExpired) {
			cause = domain.CauseUnauthorized
		}
		m.Expire(ctx, cause)
		return m.Session(), fmt.Errorf("start session: %w", err)
	}

	m.Login(profile.Username)
	return m.Session(), nil
}

// Login marks the session authenticated. The caller must already have
// stored the token; no API call is made.
func (m *SessionManager) Login(username string) {
	m.mu.Lock()
	from := m.state
	m.state = domain.SessionAuthenticated
	m.username = username
	m.hasToken = true
	m.redirectPending = false
	m.mu.Unlock()

	m.log.Info().
		Str("from", string(from)).
		Str("to", string(domain.SessionAuthenticated)).
		Str("username", username).
		Msg("session authenticated")
}

// Logout clears the token and the session and navigates to login.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.reset(true)
	err := m.store.Clear(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to clear stored token on logout")
	}

	m.log.Info().Str("to", string(domain.SessionAnonymous)).Msg("session logged out")
	m.nav.ToLogin("", true)

	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Expire forces the session to Anonymous after any consumer observed that
// the token is no longer accepted.
func (m *SessionManager) Expire(ctx context.Context, cause domain.ExpiryCause) {
	m.mu.Lock()
	if m.redirectPending {
		m.mu.Unlock()
		m.log.Debug().Str("cause", string(cause)).Msg("expiry ignored, redirect already pending")
		return
	}
	from := m.state
	m.state = domain.SessionAnonymous
	m.username = ""
	m.hasToken = false
	m.redirectPending = true
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear stored token on expiry")
	}

	m.log.Info().
		Str("from", string(from)).
		Str("to", string(domain.SessionAnonymous)).
		Str("cause", string(cause)).
		Msg("session expired")
	m.nav.ToLogin(cause, false)
}

// Token returns the stored token. When none is stored the session expires
// and domain.ErrNotAuthenticated is returned.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	token, err := m.store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		m.Expire(ctx, domain.CauseMissingToken)
		return "", domain.ErrNotAuthenticated
	}
	return token, nil
}

func (m *SessionManager) reset(redirectPending bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = domain.SessionAnonymous
	m.username = ""
	m.hasToken = false
	m.redirectPending = redirectPending
}

// tokenExpired reports whether token is a JWT whose exp claim is in the
// past. Opaque tokens are never considered expired here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// withToken runs fn with the session token and expires the session when fn
// reports that the token was rejected.
func withToken(ctx context.Context, session ports.SessionService, fn func(token string) error) error {
	token, err := session.Token(ctx)
	if err != nil {
		return err
	}
	if err := fn(token); err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			session.Expire(ctx, domain.CauseUnauthorized)
		}
		return err
	}
	return nil
}

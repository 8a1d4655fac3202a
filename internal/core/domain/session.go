package domain

// SessionState is the lifecycle state of the process-wide session.
type SessionState string

const (
	SessionUnknown       SessionState = "unknown"
	SessionAuthenticated SessionState = "authenticated"
	SessionAnonymous     SessionState = "anonymous"
)

// Session is a read-only snapshot of the authentication state.
// Username is empty unless State is SessionAuthenticated.
type Session struct {
	State    SessionState `json:"state"`
	Username string       `json:"username,omitempty"`
	HasToken bool         `json:"has_token"`
}

// IsAuthenticated reports whether the snapshot describes a logged-in user.
func (s Session) IsAuthenticated() bool {
	return s.State == SessionAuthenticated
}

// ExpiryCause records why a session was forced back to anonymous.
type ExpiryCause string

const (
	CauseUnauthorized  ExpiryCause = "unauthorized"
	CauseTokenExpired  ExpiryCause = "token_expired"
	CauseProfileFailed ExpiryCause = "profile_failed"
	CauseMissingToken  ExpiryCause = "missing_token"
)

package auth

import "errors"

// ErrLoginRequired is returned by Guard.Authorize when no session is held.
var ErrLoginRequired = errors.New("login required: run 'lbadmin login' first")

// Decision is the outcome of a guard check.
type Decision int

const (
	// Allow means the protected view may render.
	Allow Decision = iota
	// RedirectToLogin means the caller must show the login flow instead.
	RedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	default:
		return "unknown"
	}
}

// Authenticator reports whether a session is held.
type Authenticator interface {
	IsAuthenticated() bool
}

// Guard gates protected views. It keeps no state and is re-evaluated on
// every navigation.
type Guard struct {
	session Authenticator
}

// NewGuard creates a guard reading from session.
func NewGuard(session Authenticator) *Guard {
	return &Guard{session: session}
}

// Check returns the decision for the current session.
func (g *Guard) Check() Decision {
	if g.session == nil || !g.session.IsAuthenticated() {
		return RedirectToLogin
	}
	return Allow
}

// Authorize runs protected if the session allows it, otherwise it returns
// ErrLoginRequired without calling it.
func (g *Guard) Authorize(protected func() error) error {
	if g.Check() != Allow {
		return ErrLoginRequired
	}
	return protected()
}

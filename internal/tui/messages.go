package tui

import "github.com/aurumfx/lbadmin/internal/auth"

// Message types for async operations. The controller owns the list, so
// results only carry the outcome; views re-read a snapshot.

// LoginSucceededMsg is sent when the login request returns a token.
type LoginSucceededMsg struct {
	Credentials *auth.Credentials
}

// LoginFailedMsg is sent when the login request fails.
type LoginFailedMsg struct {
	Err error
}

// ReloadedMsg is sent when a reload finishes.
type ReloadedMsg struct {
	Err error
}

// MutationDoneMsg is sent when a create, update or delete finishes.
type MutationDoneMsg struct {
	Op  string
	Err error
}

// ReorderSavedMsg is sent when saving the rank order finishes.
type ReorderSavedMsg struct {
	Err error
}

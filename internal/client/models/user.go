// Package models defines client-side data models used by the blogkeeper CLI.
package models

// User is the signed-in identity as the client remembers it. Token is the
// bearer credential presented on protected calls; it is persisted alongside
// the identity so a session survives restarts.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token,omitempty"`
}

// Session is a point-in-time view of the client's authentication state.
// Loading is true while a login or register call is in flight.
type Session struct {
	User    *User
	Loading bool
}

// Authenticated reports whether a user is present.
func (s Session) Authenticated() bool {
	return s.User != nil
}

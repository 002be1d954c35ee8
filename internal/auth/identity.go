// Package auth issues and verifies signed session tokens. The rest of the
// application only ever sees the closed Identity record; token parsing and
// validation happen once, at the HTTP boundary.
package auth

// Identity is the authenticated caller as established at the session
// boundary.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

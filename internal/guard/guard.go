// Package guard decides, per navigation, whether the current session may see
// a view. Pure and synchronous: no network, no storage.
package guard

import "taskdeck/internal/model"

// Requirement is what a view demands of the session.
type Requirement int

const (
	// Authenticated admits any logged-in session.
	Authenticated Requirement = iota
	// Admin additionally requires the admin role.
	Admin
)

// Decision is the navigation outcome.
type Decision int

const (
	// Admit renders the requested view.
	Admit Decision = iota
	// RedirectLogin sends the user to the unauthenticated entry point.
	RedirectLogin
	// RedirectDashboard sends a valid but under-privileged session to the
	// default authenticated view.
	RedirectDashboard
)

func Decide(sess model.Session, req Requirement) Decision {
	if !sess.LoggedIn() {
		return RedirectLogin
	}
	if req == Admin && !sess.IsAdmin() {
		return RedirectDashboard
	}
	return Admit
}

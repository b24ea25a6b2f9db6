package main

import "github.com/stirlingqr/leadgate/internal/session"

// view enumerates the whole-page states the router can land on. New states
// (e.g. a kiosk mode) slot in here without nesting boolean conditionals.
type view int

const (
	showLeadForm view = iota
	showThankYou
	showAdminDashboard
)

// selectView picks the page for the current session. The admin view fully
// replaces the visitor flow, and the thank-you page replaces the form once
// this client has submitted.
func selectView(sess session.Session) view {
	switch {
	case sess.Admin:
		return showAdminDashboard
	case sess.Submitted:
		return showThankYou
	default:
		return showLeadForm
	}
}

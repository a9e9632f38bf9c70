// Package gate decides whether a route may be opened by the current
// session. Public routes always pass. Protected routes require a valid
// session whose role is allowed to see the route's view; a missing
// session redirects to /login with no deep-link return, and a session
// with the wrong role is denied outright.
//
// The gate reads the session store fresh on every check, so a logout in
// another goroutine or process takes effect on the next navigation.
package gate

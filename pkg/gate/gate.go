package gate

import (
	"github.com/limphasa/schemectl/pkg/policy"
	"github.com/limphasa/schemectl/pkg/session"
)

// LoginRoute is where unauthenticated navigation is redirected
const LoginRoute = "/login"

// publicRoutes pass the gate with or without a session
var publicRoutes = map[string]bool{
	"/":          true,
	"/login":     true,
	"/register":  true,
	"/aboutUs":   true,
	"/contactUs": true,
}

// protectedRoutes maps each protected route to the view it renders
var protectedRoutes = map[string]policy.View{
	"/dashboard":            policy.ViewDashboard,
	"/blockchair-dashboard": policy.ViewBlockChairDashboard,
	"/treasurer-dashboard":  policy.ViewTreasurerDashboard,
	"/farmers":              policy.ViewFarmers,
	"/attendance":           policy.ViewAttendance,
	"/payments":             policy.ViewPayments,
	"/discipline":           policy.ViewDiscipline,
}

// Routes returns every route the gate knows, public and protected
func Routes() []string {
	out := make([]string, 0, len(publicRoutes)+len(protectedRoutes))
	for route := range publicRoutes {
		out = append(out, route)
	}
	for route := range protectedRoutes {
		out = append(out, route)
	}
	return out
}

// Decision is the outcome of a gate check. Allowed means render the
// route; otherwise RedirectTo names where to send the caller, or is
// empty for a plain denial.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Gate evaluates route access against the live session
type Gate struct {
	sessions *session.Store
}

// New creates a gate over the session store
func New(sessions *session.Store) *Gate {
	return &Gate{sessions: sessions}
}

// Check evaluates whether route may be opened right now. Unknown routes
// are treated as protected.
func (g *Gate) Check(route string) Decision {
	if publicRoutes[route] {
		return Decision{Allowed: true}
	}

	sess := g.sessions.Current()
	if sess == nil {
		return Decision{RedirectTo: LoginRoute}
	}

	view, known := protectedRoutes[route]
	if !known {
		return Decision{}
	}
	if !policy.CanView(sess.User.Role, view) {
		return Decision{}
	}
	return Decision{Allowed: true}
}

// CheckView evaluates view access for callers that are not routing by
// path, such as CLI commands.
func (g *Gate) CheckView(view policy.View) Decision {
	sess := g.sessions.Current()
	if sess == nil {
		return Decision{RedirectTo: LoginRoute}
	}
	if !policy.CanView(sess.User.Role, view) {
		return Decision{}
	}
	return Decision{Allowed: true}
}

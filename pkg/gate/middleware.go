package gate

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Middleware returns a gorilla/mux middleware enforcing the gate on
// every request. Denied requests without a session are redirected to
// the login route; sessions with an insufficient role get 403.
func (g *Gate) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if template, err := current.GetPathTemplate(); err == nil {
					route = template
				}
			}

			decision := g.Check(route)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			if decision.RedirectTo != "" {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}

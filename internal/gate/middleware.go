package gate

import (
	"net/http"

	"github.com/celian-arc/aim/internal/auth"
	"github.com/celian-arc/aim/internal/httpx"
	"github.com/celian-arc/aim/internal/i18n"
	"github.com/celian-arc/aim/internal/middleware"
)

// deny redirects to the index page with a flash message. The guarded
// handler never runs, so a denial produces no side effect.
func deny(w http.ResponseWriter, r *http.Request) {
	httpx.SetFlash(w, i18n.T(middleware.LangFrom(r), "forbidden"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RequireCapability guards a route with a single capability.
// Unauthenticated requests go to the login page instead.
func RequireCapability(c Capability) func(http.Handler) http.Handler {
	return RequireAnyCapability(c)
}

// RequireAnyCapability guards a route reachable through any of the
// listed capabilities (e.g. manage_assignments or its coach variant).
func RequireAnyCapability(caps ...Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !AllowsAny(Role(id.Role), caps...) {
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

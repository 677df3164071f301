package session

import "net/http"

// Guard decides whether a navigation may reach its view. It is a UI
// convenience only; authorization stays with the backend on every data call.
type Guard struct {
	// LoginPath receives unauthenticated requests for protected views.
	LoginPath string
	// DefaultPath receives authenticated requests for the auth forms, the
	// root path and anything unmatched.
	DefaultPath string
}

// RequireUser renders the wrapped view only when a user is present,
// redirecting to the login view otherwise. The original navigation is
// discarded; there is no return-to deep link.
func (g Guard) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authenticated(r) {
			http.Redirect(w, r, g.LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectAuthenticated gates the login and signup views in reverse: a
// signed-in session is sent to the default view instead of the form.
func (g Guard) RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authenticated(r) {
			http.Redirect(w, r, g.DefaultPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Fallback handles the root path and any unmatched path: redirect on user
// presence alone.
func (g Guard) Fallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authenticated(r) {
			http.Redirect(w, r, g.DefaultPath, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, g.LoginPath, http.StatusSeeOther)
	}
}

func authenticated(r *http.Request) bool {
	sess := FromContext(r.Context())
	return sess != nil && sess.User() != nil
}

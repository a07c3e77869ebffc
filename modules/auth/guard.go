package auth

import (
	"net/http"

	"github.com/gfschwingel/coppers/core"
	"github.com/gfschwingel/coppers/pkg/cookie"
	"github.com/gfschwingel/coppers/pkg/token"
)

// CookieName is the transport slot the credential travels in.
const CookieName = "access_token"

// Guard is the session middleware. Every request passing it with a valid
// credential leaves with a replacement credential for the same subject
// and a later expiry, so an active session never times out while an idle
// one lapses exactly one TTL after its last request.
type Guard struct {
	tokens  *token.Service
	cookies *cookie.Manager
}

func NewGuard(tokens *token.Service, cookies *cookie.Manager) *Guard {
	return &Guard{tokens: tokens, cookies: cookies}
}

// Middleware verifies the inbound credential, rotates it, and binds the
// subject to the request context. An absent cookie is rejected outright;
// a present-but-invalid one is additionally cleared on the response so
// the browser stops resending a dead credential.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := g.cookies.Get(r, CookieName)
		if err != nil {
			core.RespondError(w, core.Unauthorized("You are not authenticated!"))
			return
		}

		subject, err := g.tokens.Verify(raw)
		if err != nil {
			g.cookies.Clear(w, CookieName)
			core.RespondError(w, core.Unauthorized("You are not authenticated!"))
			return
		}

		rotated, expiresAt, err := g.tokens.Issue(subject)
		if err != nil {
			g.cookies.Clear(w, CookieName)
			core.RespondError(w, core.Unauthorized("You are not authenticated!"))
			return
		}
		g.cookies.Set(w, CookieName, rotated, expiresAt)

		next.ServeHTTP(w, r.WithContext(token.WithSubject(r.Context(), subject)))
	})
}

package middleware

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/timecapsule-app/timecapsule-backend/internal/response"
	"github.com/timecapsule-app/timecapsule-backend/internal/services"
)

// Identity is the authenticated caller injected into protected handlers. It
// is passed as an explicit parameter, never stashed on the request.
type Identity struct {
	UserID string
}

// SessionVerifier verifies a session token and returns its claims.
type SessionVerifier interface {
	VerifySession(token string) (*services.SessionClaims, error)
}

// AuthedHandler is a handler that requires an authenticated caller.
type AuthedHandler func(w http.ResponseWriter, r *http.Request, identity Identity)

// Gate wraps handlers that require an authenticated caller. Unauthenticated
// requests are rejected uniformly and the wrapped handler is never invoked.
type Gate struct {
	verifier SessionVerifier
}

func NewGate(verifier SessionVerifier) *Gate {
	return &Gate{verifier: verifier}
}

func (g *Gate) Wrap(next AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Safety net only; controllers are the primary error-handling path
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic while handling %s %s: %v", r.Method, r.URL.Path, rec)
				response.WriteFailure(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()

		token := parseCookies(r.Header.Get("Cookie"))[services.CookieName]
		if token == "" {
			response.WriteFailure(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := g.verifier.VerifySession(token)
		if err != nil {
			response.WriteFailure(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		userID := claims.ID
		if userID == "" {
			userID = claims.Subject
		}
		next(w, r, Identity{UserID: userID})
	}
}

// parseCookies parses a Cookie header: pairs split on ";", key/value on the
// first "=", both sides percent-decoded.
func parseCookies(header string) map[string]string {
	cookies := map[string]string{}
	if header == "" {
		return cookies
	}
	for _, pair := range strings.Split(header, ";") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key = decodeCookiePart(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		cookies[key] = decodeCookiePart(strings.TrimSpace(value))
	}
	return cookies
}

func decodeCookiePart(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

package shared

import (
	"log/slog"
	"net/http"
	"strconv"
)

// AuthMiddleware resolves the session user into an explicit caller identity.
type AuthMiddleware struct {
	Logger *slog.Logger
}

// Resolve attaches the caller Identity to the request context when the
// session carries an authenticated user. It never rejects; handlers that
// need a caller use RequireAuth.
func (m AuthMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess != nil && sess.User() != "" {
			userID, err := strconv.ParseInt(sess.User(), 10, 64)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Warn("malformed session user id", slog.String("value", sess.User()))
				}
			} else {
				ctx := ContextWithIdentity(r.Context(), Identity{UserID: userID, Email: sess.Get("email")})
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without an authenticated caller.
func (m AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()).UserID == 0 {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const csrfCookieName = "socialhabits_csrf"

// CSRFProtection wraps gorilla/csrf for browser clients. trustedOrigins
// lets the SPA origin submit cross-origin forms; API clients authenticate
// with bearer tokens and are unaffected.
func CSRFProtection(authKey []byte, trustedOrigins []string) gin.HandlerFunc {
	opts := []csrf.Option{
		csrf.Secure(true),
		csrf.HttpOnly(true),
		csrf.Path("/"),
		csrf.CookieName(csrfCookieName),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "CSRF token validation failed"}`))
		})),
	}
	if len(trustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(trustedOrigins))
	}
	csrfMiddleware := csrf.Protect(authKey, opts...)

	return func(c *gin.Context) {
		handler := csrfMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrf.Token(r)
			c.Set("csrf_token", token)
			c.Header("X-CSRF-Token", token)
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

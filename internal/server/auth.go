package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/souschef-ai/souschef-go/internal/logging"
)

// authMiddleware guards a route with static Bearer token authentication.
// An empty apiKey disables the guard entirely (development mode); the server
// logs one startup warning for that case rather than warning per request.
//
// Clients authenticate with:
//
//	Authorization: Bearer <apiKey>
//
// Failures get 401 with a WWW-Authenticate challenge. Presented token values
// are never logged.
func authMiddleware(apiKey string, next http.Handler) http.Handler {
	if apiKey == "" {
		return next
	}
	want := []byte(apiKey)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			logging.FromContext(r.Context()).Warn("auth: no bearer token",
				slog.String("path", r.URL.Path))
			w.Header().Set("WWW-Authenticate", `Bearer realm="souschef"`)
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		// Constant-time comparison; a static API key is still a credential.
		if subtle.ConstantTimeCompare([]byte(token), want) != 1 {
			logging.FromContext(r.Context()).Warn("auth: token rejected",
				slog.String("path", r.URL.Path))
			w.Header().Set("WWW-Authenticate", `Bearer realm="souschef" error="invalid_token"`)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively per RFC 7235. The second
// return value is false when the header is absent, uses another scheme, or
// carries no token.
func bearerToken(r *http.Request) (string, bool) {
	scheme, rest, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(rest)
	return token, token != ""
}

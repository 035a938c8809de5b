package controller

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"contractscanner/pkg/logger"
	"contractscanner/pkg/serrors"

	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// WithBearerAuth returns a middleware that only lets requests through when
// they carry "Authorization: Bearer <token>". An empty token rejects every
// request.
func WithBearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented, ok := bearerToken(r)
			if !ok || token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				logger.Warn(r.Context(), "rejected unauthenticated request", zap.Bool("tokenPresent", ok))
				w.Header().Set("WWW-Authenticate", `Bearer realm="contractscanner"`)
				WriteError(r.Context(), w, serrors.With(serrors.ErrUnauthorized, "missing or invalid bearer token"))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < len(bearerPrefix) || !strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	t := strings.TrimSpace(h[len(bearerPrefix):])

	return t, t != ""
}

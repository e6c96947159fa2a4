package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripmate/accounts-api/internal/model"
	"github.com/tripmate/accounts-api/internal/usecase"
)

type contextKey string

const userContextKey contextKey = "authUser"

// requireAuth resolves the bearer token and stores its owner on the request
// context. Missing, malformed, or revoked tokens end the request with 401.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			h.respondJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}

		key, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || key == "" {
			h.respondJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Invalid token.",
			})
			return
		}

		user, err := h.accounts.Authenticate(r.Context(), key)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthenticated) {
				h.respondJSON(w, http.StatusUnauthorized, map[string]string{
					"detail": "Invalid token.",
				})
				return
			}
			h.respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user placed by requireAuth.
func userFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// RequestLogger logs one line per request with method, path, status, and
// duration.
func RequestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

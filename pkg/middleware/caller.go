package middleware

import (
	"context"
	"net/http"

	"github.com/ksquareincmx/conference-server-sub000/pkg/logger"
)

const CallerKey contextKey = "caller"

// Caller identifies the authenticated user forwarded by the edge gateway.
// This service trusts the gateway headers; token verification happens upstream.
type Caller struct {
	ID    string
	Email string
	Role  string
}

// CallerFromContext returns the caller attached by CallerContext.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(CallerKey).(Caller)
	return caller, ok
}

func CallerContext(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := Caller{
				ID:    r.Header.Get("X-Caller-Id"),
				Email: r.Header.Get("X-Caller-Email"),
				Role:  r.Header.Get("X-Caller-Role"),
			}

			if caller.ID == "" {
				log.Warn("Request without caller identity",
					"method", r.Method,
					"path", r.URL.Path,
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Missing caller identity"}`))
				return
			}

			ctx := context.WithValue(r.Context(), CallerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

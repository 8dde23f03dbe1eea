package http

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/clubcricket/scorebook/internal/auth"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey contextKey = "dryRun"
)

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)

		// Call the next handler with the modified context.
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// scorerPinMiddleware gates scoring endpoints. The manager PIN is also
// accepted. An empty configured hash disables the check.
func (s *Server) scorerPinMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Cfg.Pins.ScorerHash == "" {
			next.ServeHTTP(w, r)
			return
		}
		if auth.VerifyPIN(r.Header.Get("X-Scorer-Pin"), s.Cfg.Pins.ScorerHash) ||
			(s.Cfg.Pins.ManagerHash != "" && auth.VerifyPIN(r.Header.Get("X-Manager-Pin"), s.Cfg.Pins.ManagerHash)) {
			next.ServeHTTP(w, r)
			return
		}
		log.Warn("Rejected request with invalid scorer PIN", "url", r.URL.Path)
		http.Error(w, "Invalid or missing PIN", http.StatusForbidden)
	})
}

// managerPinMiddleware gates administrative endpoints.
func (s *Server) managerPinMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Cfg.Pins.ManagerHash == "" {
			next.ServeHTTP(w, r)
			return
		}
		if auth.VerifyPIN(r.Header.Get("X-Manager-Pin"), s.Cfg.Pins.ManagerHash) {
			next.ServeHTTP(w, r)
			return
		}
		log.Warn("Rejected request with invalid manager PIN", "url", r.URL.Path)
		http.Error(w, "Invalid or missing PIN", http.StatusForbidden)
	})
}

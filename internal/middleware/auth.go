package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"devfolio/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
	// lookupErrKey marks a request whose session could not be resolved
	// because the session store itself failed.
	lookupErrKey contextKey = "session-lookup-error"
)

// LoadSession retrieves the session from Valkey and stores it in the
// request context. Downstream handlers access it via SessionFromCtx().
// It also counts as the activity signal: every request carrying a live
// session resets that session's inactivity deadline.
//
// This middleware does NOT enforce authentication. A store failure is
// not the same as a missing session: it is recorded in the context so
// protected routes answer 503 instead of bouncing a possibly valid
// cookie to the login screen.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Error("session lookup failed", "error", err)
				r = r.WithContext(context.WithValue(r.Context(), lookupErrKey, true))
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				store.Touch(r)
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401. When the
// cookie belonged to a session ended for inactivity, the payload says
// so, letting the SPA tell the operator why they were signed out and
// send them back to the login screen. A session-store outage instead
// yields 503, since the cookie may well be valid. Must be applied
// after LoadSession.
func RequireAuth(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromCtx(r.Context())
			if sess == nil {
				if SessionUnavailable(r.Context()) {
					writeSessionUnavailable(w)
					return
				}
				reason := "unauthenticated"
				if store.EndedIdle(r.Context(), r) {
					reason = "idle"
				}
				writeAuthError(w, reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Require2FA blocks sessions that still owe a TOTP code. Applied after
// RequireAuth; users without 2FA enrolled pass straight through.
func Require2FA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		if sess != nil && sess.TwoFAPending {
			writeAuthError(w, "two_factor_required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// SessionUnavailable reports whether LoadSession failed to reach the
// session store for this request.
func SessionUnavailable(ctx context.Context) bool {
	failed, _ := ctx.Value(lookupErrKey).(bool)
	return failed
}

func writeSessionUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	json.NewEncoder(w).Encode(map[string]string{
		"error":  "session store unavailable, try again shortly",
		"reason": "session_unavailable",
	})
}

func writeAuthError(w http.ResponseWriter, reason string) {
	msg := "authentication required"
	if reason == "idle" {
		msg = "Your session ended due to inactivity."
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":  msg,
		"reason": reason,
	})
}

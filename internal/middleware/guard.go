package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"go-staff-console/internal/model"
	"go-staff-console/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// GuardMiddleware evaluates the session guard once per request to a
// protected route, before the handler writes anything. A redirect decision
// answers with 401 and the login location; no protected content leaks.
type GuardMiddleware struct {
	guard *session.Guard
}

func NewGuardMiddleware(guard *session.Guard) *GuardMiddleware {
	return &GuardMiddleware{guard: guard}
}

func (m *GuardMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, sess, err := m.guard.Evaluate(r.Context())
		if err != nil {
			slog.Error("session guard evaluation failed", "error", err)
		}

		if decision != session.Allow {
			writeRedirectToLogin(w)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SessionFromContext(ctx context.Context) (model.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(model.Session)
	return sess, ok
}

func writeRedirectToLogin(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", "/auth")
	w.WriteHeader(http.StatusUnauthorized)

	_ = jsonEncode(w, model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "UNAUTHORIZED",
			Message: "No valid session",
			Details: "redirect to /auth",
		},
	})
}

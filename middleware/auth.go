package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user id stored by Auth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID is used by tests and by Auth.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// Auth validates the bearer token and stores the user id in the request
// context.
func Auth(tokens *utils.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenHeader := r.Header.Get("Authorization")
			if tokenHeader == "" {
				slog.DebugContext(r.Context(), "Missing Authorization header", slog.String("path", r.URL.Path))
				utils.WriteError(w, r, errs.Unauthorized("Missing Authorization header"))
				return
			}

			tokenParts := strings.Fields(tokenHeader)
			if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
				utils.WriteError(w, r, errs.Unauthorized("Invalid Authorization header format"))
				return
			}

			claims, err := tokens.ValidateJWT(tokenParts[1])
			if err != nil {
				slog.DebugContext(r.Context(), "Rejected token", slog.String("error", err.Error()))
				utils.WriteError(w, r, errs.Unauthorized("Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// AdminChecker reports whether the persisted role of a user is ADMIN.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// AdminOnly must run after Auth. It loads the user on every request, so a
// demoted admin loses access immediately.
func AdminOnly(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				utils.WriteError(w, r, errs.Unauthorized("Not authenticated"))
				return
			}
			admin, err := checker.IsAdmin(r.Context(), userID)
			if err != nil {
				utils.WriteError(w, r, err)
				return
			}
			if !admin {
				utils.WriteError(w, r, errs.Forbidden("Admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

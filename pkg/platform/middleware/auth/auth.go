// Package auth provides JWT bearer-token middleware. Token issuance belongs
// to the host authentication provider; this layer only verifies session
// tokens and exposes the authenticated user through the request context.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "vowcraft/pkg/domain"
	dErrors "vowcraft/pkg/domain-errors"
	"vowcraft/pkg/platform/httputil"
	"vowcraft/pkg/requestcontext"
)

// Claims are the verified claims the middleware needs from a session token.
type Claims struct {
	UserID    string
	SessionID string
}

// Validator verifies a bearer token and returns its claims.
type Validator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

const bearerPrefix = "Bearer "

// RequireAuth rejects requests without a valid bearer token and injects the
// authenticated user and session into the context.
func RequireAuth(validator Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := verify(w, r, validator, logger)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r, claims)))
		})
	}
}

// Optional populates the context when a valid bearer token is present and
// passes the request through untouched otherwise. Draft creation uses this:
// both anonymous visitors and signed-in users hit the same route.
func Optional(validator Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			claims, ok := verify(w, r, validator, logger)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r, claims)))
		})
	}
}

func verify(w http.ResponseWriter, r *http.Request, validator Validator, logger *slog.Logger) (*Claims, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	authHeader := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(authHeader, bearerPrefix)
	if !found || token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
		return nil, false
	}

	claims, err := validator.ValidateToken(token)
	if err != nil {
		logger.WarnContext(ctx, "unauthorized access - invalid token",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
		return nil, false
	}

	if _, err := id.ParseUserID(claims.UserID); err != nil {
		logger.WarnContext(ctx, "unauthorized access - malformed subject",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject"))
		return nil, false
	}

	return claims, true
}

func withClaims(r *http.Request, claims *Claims) context.Context {
	// Subject was validated in verify; parse cannot fail here.
	userID, _ := id.ParseUserID(claims.UserID)
	ctx := requestcontext.WithUserID(r.Context(), userID)
	return requestcontext.WithSessionID(ctx, claims.SessionID)
}

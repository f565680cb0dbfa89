package testutil

import (
	"net/http"

	id "vowcraft/pkg/domain"
	"vowcraft/pkg/requestcontext"
)

// WithUserID stamps a user ID on the request context, simulating what the
// auth middleware does for authenticated requests. Invalid IDs are ignored.
func WithUserID(req *http.Request, userID string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
}

// WithSessionID stamps a session ID on the request context.
func WithSessionID(req *http.Request, sessionID string) *http.Request {
	return req.WithContext(requestcontext.WithSessionID(req.Context(), sessionID))
}

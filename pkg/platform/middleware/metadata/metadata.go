// Package metadata extracts request-scoped client metadata: a request ID,
// the client IP, the raw User-Agent, and a human-readable device name.
package metadata

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"vowcraft/pkg/requestcontext"
)

// RequestIDHeader carries a caller-supplied request ID; a fresh UUID is
// assigned when the header is absent.
const RequestIDHeader = "X-Request-ID"

// ClientMetadata populates the context with request ID, client IP,
// User-Agent, and derived device name. Apply early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ua := r.Header.Get("User-Agent")

		ctx := r.Context()
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithClientMetadata(ctx, ClientIPFromRequest(r), ua, DeviceNameFromUserAgent(ua))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DeviceNameFromUserAgent derives a display name like "Chrome on Linux" for
// audit events and sync-status responses. Unknown agents yield "Unknown device".
func DeviceNameFromUserAgent(raw string) string {
	if raw == "" {
		return "Unknown device"
	}
	parsed := useragent.New(raw)
	name, _ := parsed.Browser()
	os := parsed.OSInfo().Name
	switch {
	case name != "" && os != "":
		return fmt.Sprintf("%s on %s", name, os)
	case name != "":
		return name
	case os != "":
		return os
	default:
		return "Unknown device"
	}
}

// ClientIPFromRequest extracts the real client IP, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2, ...);
	// the first one is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" (IPv6: "[::1]:port"), so strip the port.
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}

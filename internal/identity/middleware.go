package identity

import (
	"context"
	"net/http"

	id "vowcraft/pkg/domain"
	"vowcraft/pkg/requestcontext"
)

type storeKey struct{}

// Middleware binds a per-request CookieStore, exposes it through the context,
// and mirrors the current identity into requestcontext for services that only
// need to read it.
func Middleware(codec *Codec, maxAge int, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := NewCookieStore(codec, maxAge, secure, w, r)
			ctx := context.WithValue(r.Context(), storeKey{}, store)
			if anonID := store.Peek(); !anonID.IsNil() {
				ctx = requestcontext.WithAnonID(ctx, anonID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request's identity Store. Outside the middleware
// chain (tests, workers) it returns a no-op store so callers never branch on
// its presence.
func FromContext(ctx context.Context) Store {
	if store, ok := ctx.Value(storeKey{}).(Store); ok {
		return store
	}
	return noopStore{}
}

// WithStore injects a Store for tests that bypass the HTTP middleware.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

type noopStore struct{}

func (noopStore) GetOrCreate() id.AnonID { return id.AnonID{} }
func (noopStore) Peek() id.AnonID        { return id.AnonID{} }
func (noopStore) Clear()                 {}

package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. The write timeout leaves room for a sync
// request that walks the full retry budget before settling; everything else
// is small JSON and can be cut off early.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}
}

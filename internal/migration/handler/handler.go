package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vowcraft/internal/migration"
	"vowcraft/internal/migration/service"
	"vowcraft/pkg/platform/httputil"
	"vowcraft/pkg/requestcontext"
)

// Service defines the interface for migration sync operations.
type Service interface {
	Sync(ctx context.Context) (service.Status, error)
	Skip(ctx context.Context) (service.Status, error)
	Current(ctx context.Context) (service.Status, error)
}

// Handler wires the sync endpoints to the migration service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a migration handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the sync endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/sync", h.HandleSync)
	r.Post("/auth/sync/skip", h.HandleSkip)
	r.Get("/auth/sync/status", h.HandleStatus)
}

// HandleSync handles POST /auth/sync requests. Called by the client right
// after sign-in; drives the migration to a settled state and reports it.
// A failed migration still answers 200 with a bypassed state: sync never
// blocks the signed-in user.
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.service.Sync(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync settled",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx),
		"state", string(status.State),
		"attempts", status.Attempts,
	)
	httputil.WriteJSON(w, http.StatusOK, FromStatus(status))
}

// HandleSkip handles POST /auth/sync/skip requests.
func (h *Handler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.service.Skip(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync skipped",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, FromStatus(status))
}

// HandleStatus handles GET /auth/sync/status requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Current(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStatus(status))
}

// SyncResponse is the HTTP representation of a sync status.
type SyncResponse struct {
	State       string `json:"state"`
	Done        bool   `json:"done"`
	Attempts    int    `json:"attempts"`
	MaxAttempts int    `json:"max_attempts"`
}

// FromStatus converts a service status to its HTTP representation.
func FromStatus(status service.Status) *SyncResponse {
	return &SyncResponse{
		State:       string(status.State),
		Done:        status.State.Terminal(),
		Attempts:    status.Attempts,
		MaxAttempts: migration.MaxAttempts,
	}
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vowcraft/internal/user"
	"vowcraft/pkg/platform/httputil"
)

// Service defines the interface for account operations.
type Service interface {
	Status(ctx context.Context) (*user.User, error)
	Upgrade(ctx context.Context) (*user.User, error)
}

// Handler wires account endpoints to the user service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a user handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts account endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me/status", h.HandleStatus)
	r.Post("/me/upgrade", h.HandleUpgrade)
}

// HandleStatus handles GET /me/status requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Status(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUser(u))
}

// HandleUpgrade handles POST /me/upgrade requests. Called by the payment
// provider's webhook handler once checkout completes.
func (h *Handler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Upgrade(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUser(u))
}

// StatusResponse is the HTTP representation of an account record.
type StatusResponse struct {
	UserID   string     `json:"user_id"`
	Pro      bool       `json:"pro"`
	ProSince *time.Time `json:"pro_since,omitempty"`
}

// FromUser converts an account record to its HTTP representation.
func FromUser(u *user.User) *StatusResponse {
	return &StatusResponse{
		UserID:   u.ID.String(),
		Pro:      u.Pro,
		ProSince: u.ProSince,
	}
}

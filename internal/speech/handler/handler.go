package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vowcraft/internal/speech"
	"vowcraft/internal/speech/service"
	id "vowcraft/pkg/domain"
	"vowcraft/pkg/platform/httputil"
	"vowcraft/pkg/requestcontext"
)

// Service defines the interface for speech operations.
type Service interface {
	CreateDraft(ctx context.Context, input service.CreateInput) (*speech.Speech, error)
	List(ctx context.Context) ([]*speech.Speech, error)
	Get(ctx context.Context, speechID id.SpeechID) (*speech.Speech, error)
	Update(ctx context.Context, speechID id.SpeechID, input service.UpdateInput) (*speech.Speech, error)
	Delete(ctx context.Context, speechID id.SpeechID) error
}

// Handler wires speech endpoints to the speech service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a speech handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts speech endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/speeches", h.HandleCreate)
	r.Get("/speeches", h.HandleList)
	r.Get("/speeches/{speechID}", h.HandleGet)
	r.Put("/speeches/{speechID}", h.HandleUpdate)
	r.Delete("/speeches/{speechID}", h.HandleDelete)
}

// HandleCreate handles POST /speeches requests. Works for both anonymous and
// authenticated callers.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateSpeechRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sp, err := h.service.CreateDraft(ctx, service.CreateInput{
		Title:   req.Title,
		Role:    req.Role,
		Tone:    req.Tone,
		Tags:    req.Tags,
		Content: req.Content,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "draft creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromSpeech(sp))
}

// HandleList handles GET /speeches requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	speeches, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "speech listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSpeeches(speeches))
}

// HandleGet handles GET /speeches/{speechID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	speechID, err := id.ParseSpeechID(chi.URLParam(r, "speechID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sp, err := h.service.Get(ctx, speechID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSpeech(sp))
}

// HandleUpdate handles PUT /speeches/{speechID} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	speechID, err := id.ParseSpeechID(chi.URLParam(r, "speechID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateSpeechRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sp, err := h.service.Update(ctx, speechID, service.UpdateInput{
		Title:   req.Title,
		Role:    req.Role,
		Tone:    req.Tone,
		Tags:    req.Tags,
		Content: req.Content,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "speech update failed",
			"request_id", requestID,
			"speech_id", speechID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSpeech(sp))
}

// HandleDelete handles DELETE /speeches/{speechID} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	speechID, err := id.ParseSpeechID(chi.URLParam(r, "speechID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, speechID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

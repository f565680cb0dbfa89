package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vowcraft/internal/identity"
	"vowcraft/internal/speech"
	"vowcraft/internal/speech/service"
	id "vowcraft/pkg/domain"
	"vowcraft/pkg/platform/middleware/requesttime"
	"vowcraft/pkg/requestcontext"
)

const cookieKey = "test-cookie-key"

func newSpeechRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := service.New(speech.NewInMemoryStore(), identity.NewInMemoryRecords())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(svc, logger)

	r := chi.NewRouter()
	r.Use(requesttime.Middleware)
	r.Use(identity.Middleware(identity.NewCodec(cookieKey), 3600, false))
	r.Use(testAuth)
	h.Register(r)
	return r
}

// testAuth promotes the X-Test-User header to an authenticated caller.
func testAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get("X-Test-User"); raw != "" {
			userID, err := id.ParseUserID(raw)
			if err == nil {
				r = r.WithContext(requestcontext.WithUserID(r.Context(), userID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func postSpeech(t *testing.T, router http.Handler, payload map[string]any, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/speeches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnonymousDraftMintsCookie(t *testing.T) {
	router := newSpeechRouter(t)

	rec := postSpeech(t, router, map[string]any{"title": "For my brother"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created SpeechResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.True(t, created.Anonymous)
	assert.NotEmpty(t, created.ID)

	var anonCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == identity.CookieName {
			anonCookie = c
		}
	}
	require.NotNil(t, anonCookie, "expected an identity cookie on first write")
	assert.True(t, anonCookie.HttpOnly)

	// The same cookie scopes the listing back to this visitor.
	listReq := httptest.NewRequest(http.MethodGet, "/speeches", nil)
	listReq.AddCookie(anonCookie)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)

	var listed ListSpeechesResponse
	require.NoError(t, json.NewDecoder(listRec.Body).Decode(&listed))
	require.Len(t, listed.Speeches, 1)
	assert.Equal(t, created.ID, listed.Speeches[0].ID)
}

func TestAuthenticatedDraftOwnership(t *testing.T) {
	router := newSpeechRouter(t)
	userID := uuid.New().String()

	rec := postSpeech(t, router, map[string]any{"title": "Toast", "role": "groom"}, func(r *http.Request) {
		r.Header.Set("X-Test-User", userID)
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created SpeechResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.False(t, created.Anonymous)

	// No identity cookie is minted for authenticated callers.
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, identity.CookieName, c.Name)
	}
}

func TestCreateValidation(t *testing.T) {
	router := newSpeechRouter(t)

	t.Run("missing title", func(t *testing.T) {
		rec := postSpeech(t, router, map[string]any{"content": "hello"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		rec := postSpeech(t, router, map[string]any{"title": "x", "role": "officiant"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateAndDeleteLifecycle(t *testing.T) {
	router := newSpeechRouter(t)
	userID := uuid.New().String()
	asOwner := func(r *http.Request) { r.Header.Set("X-Test-User", userID) }

	rec := postSpeech(t, router, map[string]any{"title": "Before"}, asOwner)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created SpeechResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	body, _ := json.Marshal(map[string]any{"title": "After", "content": "rewritten"})
	putReq := httptest.NewRequest(http.MethodPut, "/speeches/"+created.ID, bytes.NewReader(body))
	putReq.Header.Set("Content-Type", "application/json")
	asOwner(putReq)
	putRec := httptest.NewRecorder()
	router.ServeHTTP(putRec, putReq)
	require.Equal(t, http.StatusOK, putRec.Code)

	var updated SpeechResponse
	require.NoError(t, json.NewDecoder(putRec.Body).Decode(&updated))
	assert.Equal(t, "After", updated.Title)

	t.Run("non-owner cannot read", func(t *testing.T) {
		getReq := httptest.NewRequest(http.MethodGet, "/speeches/"+created.ID, nil)
		getReq.Header.Set("X-Test-User", uuid.New().String())
		getRec := httptest.NewRecorder()
		router.ServeHTTP(getRec, getReq)
		assert.Equal(t, http.StatusNotFound, getRec.Code)
	})

	delReq := httptest.NewRequest(http.MethodDelete, "/speeches/"+created.ID, nil)
	asOwner(delReq)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, delReq)
	require.Equal(t, http.StatusNoContent, delRec.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/speeches/"+created.ID, nil)
	asOwner(getReq)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusNotFound, getRec.Code)
}

func TestMalformedSpeechID(t *testing.T) {
	router := newSpeechRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/speeches/not-a-uuid", nil)
	req.Header.Set("X-Test-User", uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

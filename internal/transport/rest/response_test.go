package rest

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/pkg/ctxutil"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rejection", domain.NewSwipeRejection(domain.SwipeRejectSelf, "own item"), http.StatusBadRequest},
		{"wrapped rejection", fmt.Errorf("record: %w", domain.NewSwipeRejection(domain.SwipeRejectDuplicate, "changed")), http.StatusBadRequest},
		{"validation", domain.NewValidationError("limit", "bad"), http.StatusBadRequest},
		{"bare validation", domain.ErrValidation, http.StatusBadRequest},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"not found", fmt.Errorf("item x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"already terminal", domain.ErrAlreadyTerminal, http.StatusConflict},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"transient", fmt.Errorf("insert: %w", domain.ErrTransient), http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(discard(), rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHandleError_TransientSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(discard(), rec, httptest.NewRequest(http.MethodGet, "/", nil), domain.ErrTransient)

	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestHandleError_LogsOnlyUnexpected(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handleError(logger, httptest.NewRecorder(), req, domain.ErrNotFound)
	assert.Empty(t, buf.String())

	handleError(logger, httptest.NewRecorder(), req, fmt.Errorf("disk on fire"))
	assert.Contains(t, buf.String(), "disk on fire")
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestHandleError_LogCarriesCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/swipes", nil)
	req = req.WithContext(ctxutil.WithRequestID(ctxutil.WithUserID(req.Context(), userID), "req-7"))

	handleError(logger, httptest.NewRecorder(), req, errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "request_id=req-7")
	assert.Contains(t, out, "user_id="+userID.String())
	assert.Contains(t, out, "path=/swipes")
}

package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/pkg/ctxutil"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Reason string            `json:"reason,omitempty"`
	Fields []fieldErrorEntry `json:"fields,omitempty"`
}

type fieldErrorEntry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps domain errors onto HTTP statuses. Anything unrecognized
// is logged and reported as 500.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var (
		rejection *domain.SwipeRejection
		invalid   *domain.ValidationError
	)

	switch {
	case errors.As(err, &rejection):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  rejection.Message,
			Reason: string(rejection.Reason),
		})
	case errors.As(err, &invalid):
		resp := errorResponse{Error: "validation failed"}
		for _, fe := range invalid.Errors {
			resp.Fields = append(resp.Fields, fieldErrorEntry{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyTerminal):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:  "opportunity is no longer active",
			Reason: "already_terminal",
		})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "conflict")
	case domain.IsTransient(err):
		log.LogAttrs(r.Context(), slog.LevelWarn, "transient store error", errorAttrs(r, err)...)
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable, retry")
	default:
		log.LogAttrs(r.Context(), slog.LevelError, "internal error", errorAttrs(r, err)...)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func errorAttrs(r *http.Request, err error) []slog.Attr {
	return append(ctxutil.LogAttrs(r.Context()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
}

// decodeJSON rejects unknown fields and trailing garbage.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

const maxBodyBytes = 64 << 10

package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"whispermap/internal/logging"
	"whispermap/internal/story"
	"whispermap/internal/validation"
)

const maxBodyBytes = 16 << 10

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// normalizer is implemented by request bodies that clean their fields before validation.
type normalizer interface {
	normalize()
}

// decodeValid decodes a JSON body into dst and runs struct validation on it.
// It writes the 400 response itself and returns false on failure.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		writeError(w, http.StatusBadRequest, "bad json")
		return false
	}

	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	if err := validation.Struct(dst); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, "invalid input", verr.Messages()...)
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid input")
		return false
	}
	return true
}

func storyID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// fail maps service errors to responses. Unknown errors are logged and hidden.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, story.ErrNotFound):
		writeError(w, http.StatusNotFound, "story not found")
	case errors.Is(err, story.ErrBannedContent):
		writeError(w, http.StatusBadRequest, "your story contains inappropriate content, please rephrase it")
	case errors.Is(err, story.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "invalid category")
	case errors.Is(err, story.ErrInvalidReaction):
		writeError(w, http.StatusBadRequest, "invalid reaction type")
	default:
		logging.Error().
			Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

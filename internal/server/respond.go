package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edugen/edugen/internal/content"
	"github.com/edugen/edugen/internal/llm"
	"github.com/edugen/edugen/internal/logging"
	"github.com/edugen/edugen/internal/quiz"
	"github.com/edugen/edugen/internal/session"
	"github.com/edugen/edugen/internal/store"
)

// badRequest reports a malformed request.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

var errNoContentService = errors.New("content services need an LLM provider")

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

// writeError maps err onto a status and a {"detail": ...} body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := classify(err)
	if status >= http.StatusInternalServerError {
		log := logging.FromContext(r.Context())
		log.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Detail: detail})
}

func classify(err error) (int, string) {
	var (
		br *badRequest
		ve *store.ValidationError
		be *quiz.BackendError
	)
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, br.msg
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, content.ErrEmptyInput),
		errors.Is(err, session.ErrNoSource),
		errors.Is(err, session.ErrIndex):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, content.ErrTooShort):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, store.ErrNotFound), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, quiz.ErrNoNewItems):
		return http.StatusConflict, err.Error()
	case errors.As(err, &be):
		return http.StatusBadGateway, be.Message
	case errors.Is(err, errNoContentService):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "the request timed out"
	}
	if msg := llm.UserMessage(err); msg != "" {
		return http.StatusBadGateway, msg
	}
	return http.StatusInternalServerError, "internal error"
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequestf("invalid JSON payload: %v", err)
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequestf("invalid %s %q", name, raw)
	}
	return id, nil
}

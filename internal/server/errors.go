package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/car-advisor/internal/advisor"
	"github.com/jonathan/car-advisor/internal/logging"
	"github.com/jonathan/car-advisor/internal/ranking"
	"github.com/jonathan/car-advisor/internal/validation"
)

// ErrCarNotFound indicates no car has the requested id
type ErrCarNotFound struct {
	ID string
}

func (e *ErrCarNotFound) Error() string {
	return fmt.Sprintf("car not found: %s", e.ID)
}

// ErrBadRequest indicates a body or query that could not be parsed
type ErrBadRequest struct {
	Message string
	Err     error
}

func (e *ErrBadRequest) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Err
}

// ErrAIUnavailable indicates the AI endpoints are not configured
type ErrAIUnavailable struct{}

func (e *ErrAIUnavailable) Error() string {
	return "ai_unavailable"
}

// errorBody is the JSON shape of every error response
type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *validation.Error
		badRequest    *ErrBadRequest
		notFound      *ErrCarNotFound
		aiUnavailable *ErrAIUnavailable
		maxBytesErr   *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr), errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.Is(err, ranking.ErrEmptyCatalog), errors.Is(err, ranking.ErrInvalidLimit):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &aiUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, advisor.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes the error body.
// Server-side failures are logged and their details hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)

	var details any
	message := err.Error()

	var validationErr *validation.Error
	switch {
	case errors.As(err, &validationErr):
		message = "validation failed"
		details = validationErr.Fields
	case status == http.StatusServiceUnavailable:
		message = "ai_unavailable"
		details = []validation.FieldError{{Field: "llm", Tag: "configured", Message: "AI features are not configured on this server"}}
	case status == http.StatusBadGateway:
		message = advisor.ErrUpstream.Error()
	case status >= http.StatusInternalServerError:
		message = "internal server error"
	}

	// 503 means the LLM is not configured, which is not a failure.
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logging.Ctx(r.Context()).Error().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	}

	s.errorResponse(w, status, message, details)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string, details any) {
	s.jsonResponse(w, status, errorBody{Error: message, Details: details})
}

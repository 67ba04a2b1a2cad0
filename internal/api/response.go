package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/terra-clan/robolearn/internal/gallery"
	"github.com/terra-clan/robolearn/internal/gateway"
	"github.com/terra-clan/robolearn/internal/quiz"
	"github.com/terra-clan/robolearn/internal/session"
)

// LoginPath is where unauthenticated visitors are sent
const LoginPath = "/login"

// ErrNotFound is returned by handlers for unknown path ids
var ErrNotFound = errors.New("not found")

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Action   string            `json:"action,omitempty"`
	Details  any               `json:"details,omitempty"`
}

// fallbackError is rendered for panics and unclassified failures
var fallbackError = apiError{
	Code:    "unexpected_error",
	Message: "Something went wrong.",
	Action:  "reload",
}

// ValidationError is a rejected request. Message is shown to the user.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, e apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error:   &e,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// handlerFunc is an HTTP handler that reports failures instead of writing them
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// render adapts h to http.Handler. Returned errors are mapped to responses
// and a panic renders the fallback error.
func render(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("handler panicked",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
				)
				respondError(w, http.StatusInternalServerError, fallbackError)
			}
		}()

		if err := h(w, r); err != nil {
			status, e := classify(err)
			if status == http.StatusInternalServerError {
				slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
			}
			respondError(w, status, e)
		}
	}
}

// classify maps an error to a status and an error body
func classify(err error) (int, apiError) {
	var validationErr *ValidationError
	var gatewayErr *gateway.Error

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, apiError{Code: "validation_error", Message: validationErr.Message, Fields: validationErr.Fields}

	case errors.Is(err, gallery.ErrInvalidFilter),
		errors.Is(err, gallery.ErrInvalidDraft),
		errors.Is(err, gateway.ErrEmptyInput),
		errors.Is(err, quiz.ErrUnknownOption),
		errors.Is(err, session.ErrInvalidLogin):
		return http.StatusBadRequest, apiError{Code: "validation_error", Message: err.Error()}

	case errors.Is(err, session.ErrUnauthenticated):
		return http.StatusUnauthorized, apiError{Code: "unauthorized", Message: "Please log in to continue.", Redirect: LoginPath}

	case errors.Is(err, ErrNotFound), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, apiError{Code: "not_found", Message: err.Error()}

	case errors.Is(err, quiz.ErrFinished),
		errors.Is(err, quiz.ErrFeedbackShown),
		errors.Is(err, quiz.ErrNoSelection),
		errors.Is(err, quiz.ErrFeedbackPending):
		return http.StatusConflict, apiError{Code: "invalid_transition", Message: err.Error()}

	case errors.Is(err, gateway.ErrNotConfigured):
		return http.StatusServiceUnavailable, apiError{Code: "configuration_error", Message: "The AI API key is not configured. AI features will not work."}

	case errors.As(err, &gatewayErr):
		return http.StatusBadGateway, apiError{Code: "gateway_error", Message: gatewayErr.Message}
	}

	return http.StatusInternalServerError, fallbackError
}

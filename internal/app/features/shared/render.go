// internal/app/features/shared/render.go
//
// JSON helpers used by every feature handler. The service is an API
// for the mobile client; there is no HTML surface.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fittedapp/fitted/internal/app/lifecycle"
	"go.uber.org/zap"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error writes an error envelope with the given status.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, errorBody{Error: code, Message: message})
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// RenderLifecycleError maps the domain error taxonomy onto HTTP
// statuses. AlreadyApproved and WrongPassword are expected outcomes;
// they are logged at info and never as server errors. Persistence
// failures get a generic retryable message.
func RenderLifecycleError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		Error(w, http.StatusNotFound, "not_found", "The requested record does not exist.")
	case errors.Is(err, lifecycle.ErrInvalidOperation):
		Error(w, http.StatusBadRequest, "invalid_operation", "That operation is not allowed.")
	case errors.Is(err, lifecycle.ErrAlreadyApproved):
		log.Info("approval refused, another request already approved", zap.String("op", op))
		Error(w, http.StatusConflict, "already_approved", "Another request for this item and event was already approved.")
	case errors.Is(err, lifecycle.ErrWrongPassword):
		log.Info("join refused, wrong passcode", zap.String("op", op))
		Error(w, http.StatusForbidden, "wrong_passcode", "That passcode is not correct.")
	case errors.Is(err, lifecycle.ErrUnauthenticated):
		Error(w, http.StatusUnauthorized, "unauthenticated", "Please sign in to continue.")
	default:
		var pe *lifecycle.PersistenceError
		if errors.As(err, &pe) {
			log.Error("store failure", zap.String("op", op), zap.Error(err))
		} else {
			log.Error("unexpected failure", zap.String("op", op), zap.Error(err))
		}
		Error(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
	}
}

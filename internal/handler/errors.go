package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/FemiElu/movaa-park-api/internal/domain"
)

// ErrorResponse is the JSON body for every error status.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code plus a
// human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a service error onto an HTTP status and error body.
// Unrecognized errors become an opaque 500; the logging middleware has
// already captured the detail.
func writeError(w http.ResponseWriter, err error) {
	var conflict domain.DriverConflictError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respond(w, http.StatusNotFound, errorBody("not_found", unwrapMessage(err)))
	case errors.Is(err, domain.ErrValidation):
		respond(w, http.StatusUnprocessableEntity, errorBody("validation_error", unwrapMessage(err)))
	case errors.Is(err, domain.ErrCapacity):
		respond(w, http.StatusConflict, errorBody("capacity_exceeded", unwrapMessage(err)))
	case errors.Is(err, domain.ErrImmutableField):
		respond(w, http.StatusConflict, errorBody("immutable_field", unwrapMessage(err)))
	case errors.Is(err, domain.ErrTripNotBookable):
		respond(w, http.StatusConflict, errorBody("trip_not_bookable", unwrapMessage(err)))
	case errors.Is(err, domain.ErrHoldExpired):
		respond(w, http.StatusConflict, errorBody("hold_expired", unwrapMessage(err)))
	case errors.As(err, &conflict):
		respond(w, http.StatusConflict, errorBody("driver_conflict", conflict.Error()))
	case errors.Is(err, domain.ErrInvalidState):
		respond(w, http.StatusConflict, errorBody("invalid_state", unwrapMessage(err)))
	default:
		respond(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// requestError reports a request rejected before reaching the service
// layer (e.g. missing or malformed body, bad path parameter).
func requestError(w http.ResponseWriter, message string) {
	respond(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// unwrapMessage strips the "service.X.Op:" call-chain prefixes from a
// wrapped error, leaving the human-readable tail for the response body.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		i := strings.Index(msg, ": ")
		if i < 0 || !strings.HasPrefix(msg, "service.") && !strings.HasPrefix(msg, "store.") {
			return msg
		}
		msg = msg[i+2:]
	}
}

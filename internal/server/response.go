package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dbsmedya/objectgraph/internal/types"
)

// errorBody is the structured failure returned by every endpoint.
type errorBody struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Error types reported to clients.
const (
	errTypeBadRequest         = "BadRequest"
	errTypeNotFound           = "NotFound"
	errTypeBackendUnavailable = "BackendUnavailable"
	errTypeCanceled           = "Canceled"
	errTypeInternal           = "InternalError"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, errorBody{
		Error: errorDetail{Type: errType, Message: message},
	})
}

// errorStatus maps a store or traversal error onto a response.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, errTypeBackendUnavailable
	case errors.Is(err, types.ErrSeedNotFound),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrUnknownType):
		return http.StatusNotFound, errTypeNotFound
	case errors.Is(err, types.ErrInvalidLimit):
		return http.StatusBadRequest, errTypeBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errTypeCanceled
	default:
		return http.StatusInternalServerError, errTypeInternal
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	status, errType := errorStatus(err)
	writeError(w, status, errType, err.Error())
}

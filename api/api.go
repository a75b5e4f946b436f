// Package api holds the shared request/response plumbing for route packages.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/infinitybotlist/eureka/jsonimpl"
	"go.uber.org/zap"

	"waggle/constants"
	"waggle/feed"
	"waggle/types"
)

func WriteJSON(logger *zap.Logger, w http.ResponseWriter, status int, v any) {
	bytes, err := jsonimpl.Marshal(v)
	if err != nil {
		logger.Error("failed to marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(constants.InternalServerError))
		return
	}

	w.WriteHeader(status)
	w.Write(bytes)
}

// WriteError maps the gateway's error taxonomy onto HTTP statuses. Internal
// detail never reaches the client; the gateway already logged it.
func WriteError(logger *zap.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feed.ErrAuthRequired):
		WriteJSON(logger, w, http.StatusUnauthorized, types.ApiError{Message: err.Error()})
	case feed.IsAuthorization(err):
		WriteJSON(logger, w, http.StatusForbidden, types.ApiError{Message: err.Error()})
	case feed.IsValidation(err):
		WriteJSON(logger, w, http.StatusBadRequest, types.ApiError{Message: err.Error()})
	case errors.Is(err, feed.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(constants.ResourceNotFound))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(constants.InternalServerError))
	}
}

// ReadJSON unmarshals the request body, writing the error response itself
// when the body is absent or malformed.
func ReadJSON(logger *zap.Logger, w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("failed to read request body", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(constants.InternalServerError))
		return false
	}

	if len(body) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(constants.BodyRequired))
		return false
	}

	if err := jsonimpl.Unmarshal(body, dst); err != nil {
		WriteJSON(logger, w, http.StatusBadRequest, types.ApiError{
			Message: "Invalid JSON",
			Context: map[string]string{"error": err.Error()},
		})
		return false
	}

	return true
}

func Success(message string, data any) types.Response {
	return types.Response{Success: true, Message: &message, JSON: data}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boddenberg/story-chat-client/internal/domain"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writePayload writes a backend payload without re-encoding it.
func writePayload(w http.ResponseWriter, status int, p domain.Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(p)
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var remote *domain.RemoteCallError
	var status *domain.StatusError
	var validation *domain.ErrValidation

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &status):
		logger.Warn("backend rejected call", zap.Int("upstream_status", status.StatusCode), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:          "story backend returned an error",
			UpstreamStatus: status.StatusCode,
		})
	case errors.As(err, &remote):
		logger.Warn("backend unreachable", zap.String("operation", remote.Operation), zap.Error(err))
		writeError(w, http.StatusBadGateway, "story backend unavailable: "+remote.Operation)
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

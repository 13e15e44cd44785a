package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/boddenberg/story-chat-client/internal/domain"
	"github.com/boddenberg/story-chat-client/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// chatRelayHandler handles POST /api/chat.
//
// Request:  {"message": "6-10 age", "session_id": null}
// Response: the backend payload, byte for byte.
func chatRelayHandler(backend port.ChatBackend, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/chat")
		defer span.End()

		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, `invalid request body: expected {"message": "...", "session_id": null}`)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "message", Message: "is required"}, logger)
			return
		}
		span.SetAttributes(attribute.Bool("chat.session_present", req.SessionID != nil))

		payload, err := backend.SendMessage(ctx, req.Message, req.SessionID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writePayload(w, http.StatusOK, payload)
	}
}

// healthRelayHandler handles GET /api/health.
func healthRelayHandler(backend port.ChatBackend, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := backend.CheckHealth(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writePayload(w, http.StatusOK, payload)
	}
}

// cleanupRelayHandler handles POST /api/cleanup.
func cleanupRelayHandler(backend port.ChatBackend, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := backend.Cleanup(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writePayload(w, http.StatusOK, payload)
	}
}

package observability

import (
	"github.com/boddenberg/story-chat-client/internal/domain"
	"github.com/boddenberg/story-chat-client/internal/port"

	"go.uber.org/zap"
)

// failureMessages are the fixed log messages per remote operation.
var failureMessages = map[string]string{
	domain.OpChat:    "API Error",
	domain.OpHealth:  "Health check failed",
	domain.OpCleanup: "Cleanup failed",
}

// FailureRecorder writes one Error entry per failed remote call.
type FailureRecorder struct {
	logger *zap.Logger
}

var _ port.FailureRecorder = (*FailureRecorder)(nil)

// NewFailureRecorder creates a FailureRecorder backed by logger.
func NewFailureRecorder(logger *zap.Logger) *FailureRecorder {
	return &FailureRecorder{logger: logger}
}

func (r *FailureRecorder) RecordFailure(operation string, err error) {
	msg, ok := failureMessages[operation]
	if !ok {
		msg = "Remote call failed"
	}
	r.logger.Error(msg, zap.String("operation", operation), zap.Error(err))
}

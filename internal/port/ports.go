// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the relay and the
// CLI from the concrete HTTP client.
package port

import (
	"context"
	"time"

	"github.com/boddenberg/story-chat-client/internal/domain"
)

// ChatBackend is the story chat backend as seen by its callers.
type ChatBackend interface {
	SendMessage(ctx context.Context, message string, sessionID *string) (domain.Payload, error)
	CheckHealth(ctx context.Context) (domain.Payload, error)
	Cleanup(ctx context.Context) (domain.Payload, error)
}

// FailureRecorder records a failed remote call before it is returned.
type FailureRecorder interface {
	RecordFailure(operation string, err error)
}

// CallMetrics observes remote calls.
type CallMetrics interface {
	RecordCall(operation string, d time.Duration, err error)
}

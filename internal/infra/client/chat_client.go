// Package client implements the HTTP client for the story chat backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/boddenberg/story-chat-client/internal/domain"
	"github.com/boddenberg/story-chat-client/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("client")

// ChatClient calls the story chat backend (/chat, /health, /cleanup).
// It keeps no state between calls and is safe for concurrent use.
type ChatClient struct {
	httpClient *http.Client
	baseURL    string
	recorder   port.FailureRecorder
	metrics    port.CallMetrics
}

var _ port.ChatBackend = (*ChatClient)(nil)

// NewChatClient creates a new ChatClient.
// baseURL is the backend API root, e.g. http://localhost:8000/api.
// metrics may be nil.
func NewChatClient(httpClient *http.Client, baseURL string, recorder port.FailureRecorder, metrics port.CallMetrics) *ChatClient {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ChatClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		recorder:   recorder,
		metrics:    metrics,
	}
}

// BaseURL returns the backend address the client was built with.
func (c *ChatClient) BaseURL() string {
	return c.baseURL
}

// SendMessage posts a chat message. A nil sessionID starts a new session.
func (c *ChatClient) SendMessage(ctx context.Context, message string, sessionID *string) (domain.Payload, error) {
	ctx, span := tracer.Start(ctx, "ChatClient.SendMessage")
	defer span.End()
	span.SetAttributes(attribute.Bool("chat.session_present", sessionID != nil))

	body, err := json.Marshal(&domain.ChatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return nil, c.fail(ctx, domain.OpChat, err)
	}

	return c.do(ctx, domain.OpChat, http.MethodPost, "/chat", body)
}

// CheckHealth asks the backend whether it is alive.
func (c *ChatClient) CheckHealth(ctx context.Context) (domain.Payload, error) {
	ctx, span := tracer.Start(ctx, "ChatClient.CheckHealth")
	defer span.End()

	return c.do(ctx, domain.OpHealth, http.MethodGet, "/health", nil)
}

// Cleanup asks the backend to drop its expired sessions.
func (c *ChatClient) Cleanup(ctx context.Context) (domain.Payload, error) {
	ctx, span := tracer.Start(ctx, "ChatClient.Cleanup")
	defer span.End()

	return c.do(ctx, domain.OpCleanup, http.MethodPost, "/cleanup", nil)
}

// do performs one request/response exchange. Any failure is recorded once
// and returned as a *domain.RemoteCallError wrapping the original error.
func (c *ChatClient) do(ctx context.Context, op, method, path string, body []byte) (payload domain.Payload, err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordCall(op, time.Since(start), err)
		}
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, c.fail(ctx, op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(ctx, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, op, err)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(ctx, op, &domain.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		})
	}

	// Validates without decoding; the payload goes back untouched.
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, c.fail(ctx, op, err)
	}

	return domain.Payload(data), nil
}

func (c *ChatClient) fail(ctx context.Context, op string, err error) error {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")

	c.recorder.RecordFailure(op, err)
	return &domain.RemoteCallError{Operation: op, Err: err}
}

type nopRecorder struct{}

func (nopRecorder) RecordFailure(string, error) {}

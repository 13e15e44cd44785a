package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/boddenberg/story-chat-client/internal/domain"
	"github.com/boddenberg/story-chat-client/internal/handler"
	"github.com/boddenberg/story-chat-client/internal/infra/client"
	"github.com/boddenberg/story-chat-client/internal/infra/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mocks ---

type mockBackend struct {
	payload   domain.Payload
	err       error
	message   string
	sessionID *string
}

func (m *mockBackend) SendMessage(_ context.Context, message string, sessionID *string) (domain.Payload, error) {
	m.message = message
	m.sessionID = sessionID
	return m.payload, m.err
}

func (m *mockBackend) CheckHealth(_ context.Context) (domain.Payload, error) {
	return m.payload, m.err
}

func (m *mockBackend) Cleanup(_ context.Context) (domain.Payload, error) {
	return m.payload, m.err
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHealthz(t *testing.T) {
	router := handler.NewRouter(&mockBackend{}, observability.NewMetrics(), zap.NewNop())

	rec := serve(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	ok := handler.NewRouter(&mockBackend{payload: domain.Payload(`{}`)}, observability.NewMetrics(), zap.NewNop())
	assert.Equal(t, http.StatusOK, serve(t, ok, http.MethodGet, "/readyz", "").Code)

	down := handler.NewRouter(&mockBackend{err: &domain.RemoteCallError{Operation: domain.OpHealth, Err: errors.New("refused")}}, observability.NewMetrics(), zap.NewNop())
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, down, http.MethodGet, "/readyz", "").Code)
}

func TestMetrics(t *testing.T) {
	router := handler.NewRouter(&mockBackend{}, observability.NewMetrics(), zap.NewNop())

	assert.Equal(t, http.StatusOK, serve(t, router, http.MethodGet, "/metrics", "").Code)

	rec := serve(t, router, http.MethodGet, "/v1/metrics/client", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap domain.ClientMetrics
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, "all_time", snap.Period)
}

func TestChatRelay_ForwardsRequestAndPayload(t *testing.T) {
	backend := &mockBackend{payload: domain.Payload(`{"session_id":"s-9","message":"Pick a genre"}`)}
	router := handler.NewRouter(backend, observability.NewMetrics(), zap.NewNop())

	rec := serve(t, router, http.MethodPost, "/api/chat", `{"message":"6-10 age","session_id":"s-9"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"session_id":"s-9","message":"Pick a genre"}`, rec.Body.String())
	assert.Equal(t, "6-10 age", backend.message)
	require.NotNil(t, backend.sessionID)
	assert.Equal(t, "s-9", *backend.sessionID)
}

func TestChatRelay_NullSession(t *testing.T) {
	backend := &mockBackend{payload: domain.Payload(`{}`)}
	router := handler.NewRouter(backend, observability.NewMetrics(), zap.NewNop())

	rec := serve(t, router, http.MethodPost, "/api/chat", `{"message":"hello","session_id":null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, backend.sessionID)
}

func TestChatRelay_Validation(t *testing.T) {
	router := handler.NewRouter(&mockBackend{}, observability.NewMetrics(), zap.NewNop())

	assert.Equal(t, http.StatusBadRequest, serve(t, router, http.MethodPost, "/api/chat", `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, router, http.MethodPost, "/api/chat", `{"message":"   "}`).Code)
}

func TestChatRelay_UpstreamStatus(t *testing.T) {
	backend := &mockBackend{err: &domain.RemoteCallError{
		Operation: domain.OpChat,
		Err:       &domain.StatusError{StatusCode: http.StatusInternalServerError, Body: "boom"},
	}}
	router := handler.NewRouter(backend, observability.NewMetrics(), zap.NewNop())

	rec := serve(t, router, http.MethodPost, "/api/chat", `{"message":"hi"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.EqualValues(t, 500, body["upstream_status"])
}

func TestHealthRelay_Unreachable(t *testing.T) {
	backend := &mockBackend{err: &domain.RemoteCallError{Operation: domain.OpHealth, Err: errors.New("dial tcp: refused")}}
	router := handler.NewRouter(backend, observability.NewMetrics(), zap.NewNop())

	rec := serve(t, router, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "story backend unavailable: health")
}

func TestCleanupRelay_UnknownError(t *testing.T) {
	router := handler.NewRouter(&mockBackend{err: errors.New("weird")}, observability.NewMetrics(), zap.NewNop())

	rec := serve(t, router, http.MethodPost, "/api/cleanup", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// TestRelay_EndToEnd wires the real client against a mock story backend.
func TestRelay_EndToEnd(t *testing.T) {
	storyBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/chat":
			var req domain.ChatRequest
			json.NewDecoder(r.Body).Decode(&req)
			sid := "new-session"
			if req.SessionID != nil {
				sid = *req.SessionID
			}
			json.NewEncoder(w).Encode(domain.StoryReply{SessionID: sid, Message: "echo: " + req.Message})
		case "/api/health":
			w.Write([]byte(`{"status":"healthy","model_loaded":true,"model_name":"gpt2"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer storyBackend.Close()

	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	c := client.NewChatClient(&http.Client{}, storyBackend.URL+"/api", observability.NewFailureRecorder(logger), metrics)
	router := handler.NewRouter(c, metrics, logger)

	rec := serve(t, router, http.MethodPost, "/api/chat", `{"message":"hi","session_id":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	reply, err := domain.DecodeStoryReply(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "new-session", reply.SessionID)
	assert.Equal(t, "echo: hi", reply.Message)

	rec = serve(t, router, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health, err := domain.DecodeHealthStatus(rec.Body.Bytes())
	require.NoError(t, err)
	assert.True(t, health.ModelLoaded)

	rec = serve(t, router, http.MethodPost, "/api/cleanup", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(3), snap.TotalCalls)
	assert.Equal(t, int64(1), snap.ByOperation[domain.OpCleanup])
}

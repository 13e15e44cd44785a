package domain

import (
	"encoding/json"
	"fmt"
)

// HealthStatus is a typed view of a /health payload.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	ModelName   string `json:"model_name"`
}

// DecodeHealthStatus decodes a /health payload into a HealthStatus.
func DecodeHealthStatus(p Payload) (*HealthStatus, error) {
	var h HealthStatus
	if err := json.Unmarshal(p, &h); err != nil {
		return nil, fmt.Errorf("decode health status: %w", err)
	}
	return &h, nil
}

// CleanupResult is a typed view of a /cleanup payload.
type CleanupResult struct {
	CleanedSessions int `json:"cleaned_sessions"`
}

// ClientMetrics is returned by GET /v1/metrics/client.
type ClientMetrics struct {
	TotalCalls  int64            `json:"totalCalls"`
	FailedCalls int64            `json:"failedCalls"`
	ErrorRate   float64          `json:"errorRate"`
	ByOperation map[string]int64 `json:"failuresByOperation"`
	Period      string           `json:"period"`
}

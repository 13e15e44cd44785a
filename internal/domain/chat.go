// Package domain holds the types exchanged with the story chat backend.
package domain

import (
	"encoding/json"
	"fmt"
)

// Payload is a backend response body, kept exactly as received.
// The client only guarantees it is valid JSON.
type Payload = json.RawMessage

// ChatRequest is the body of POST /chat.
//
// SessionID has no omitempty: a nil id must reach the backend as
// "session_id": null, which is how it starts a new conversation.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// StoryParams are the story settings the backend has collected so far.
type StoryParams struct {
	AgeGroup   string   `json:"age_group"`
	Genre      string   `json:"genre"`
	Length     string   `json:"length"`
	Topic      string   `json:"topic"`
	Characters []string `json:"characters,omitempty"`
}

// StoryReply is a typed view of a /chat payload.
// Callers decode it when they need the session id or the story; the client
// itself never looks inside a payload.
type StoryReply struct {
	SessionID   string       `json:"session_id"`
	Message     string       `json:"message"`
	StoryParams *StoryParams `json:"story_params,omitempty"`
	Story       *string      `json:"story,omitempty"`
	IsComplete  bool         `json:"is_complete"`
}

// DecodeStoryReply decodes a /chat payload into a StoryReply.
func DecodeStoryReply(p Payload) (*StoryReply, error) {
	var r StoryReply
	if err := json.Unmarshal(p, &r); err != nil {
		return nil, fmt.Errorf("decode story reply: %w", err)
	}
	return &r, nil
}

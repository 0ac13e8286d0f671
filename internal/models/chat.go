package models

import "strings"

// ChatRequest is the payload sent to the chat endpoint. Older clients post
// "message", newer ones "question".
type ChatRequest struct {
	Question string `json:"question,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Text returns the question, preferring the "question" field.
func (r ChatRequest) Text() string {
	if q := strings.TrimSpace(r.Question); q != "" {
		return q
	}
	return strings.TrimSpace(r.Message)
}

// ChatResponse is the tutor's reply. It stays renderable on failure paths.
type ChatResponse struct {
	Answer          string     `json:"answer"`
	SuggestedTopics []string   `json:"suggestedTopics"`
	Resources       []Resource `json:"resources,omitempty"`
	Error           string     `json:"error,omitempty"`
}

type HealthResponse struct {
	OK    bool   `json:"ok"`
	Model string `json:"model"`
	Host  string `json:"host"`
}

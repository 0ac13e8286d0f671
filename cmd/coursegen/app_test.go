package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegen-backend/internal/logger"
	"coursegen-backend/internal/models"
)

type fakeAPI struct {
	mu        sync.Mutex
	course    string
	chatBody  string
	requests  []models.CourseRequest
	questions []string
}

func (f *fakeAPI) GenerateCourse(_ context.Context, req models.CourseRequest) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return json.RawMessage(f.course), nil
}

func (f *fakeAPI) Chat(_ context.Context, message string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, message)
	return []byte(f.chatBody), nil
}

func (f *fakeAPI) Health(context.Context) (models.HealthResponse, error) {
	return models.HealthResponse{OK: true, Model: "llama3", Host: "http://127.0.0.1:11434"}, nil
}

func runApp(t *testing.T, api *fakeAPI, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, newApp(api, in, &out, logger.NewNop()).run(context.Background()))
	return out.String()
}

func TestApp_GenerateThenChat(t *testing.T) {
	api := &fakeAPI{
		course:   `{"overview":"Learn Go.","modules":[{"title":"Basics","topics":["Slices"]}],"resources":[]}`,
		chatBody: `{"answer":"A view over an array.","suggestedTopics":["arrays"]}`,
	}

	out := runApp(t, api,
		"Go", "", "6", "", "", "",
		"what is a slice?",
		"#1",
		":pdf",
		":quit",
	)

	require.Len(t, api.requests, 1)
	assert.Equal(t, "Go", api.requests[0].Topic)
	assert.Equal(t, models.Weeks(6), api.requests[0].Duration)

	assert.Contains(t, out, "Connected: model llama3")
	assert.Contains(t, out, "1. Basics\n   - Slices\n")
	assert.Contains(t, out, "[Duration: 6 weeks]")
	assert.Contains(t, out, "🤖 A view over an array.\n")
	assert.Contains(t, out, "     #1 arrays\n")
	assert.Contains(t, out, "Download feature coming soon!")
	assert.Equal(t, []string{"what is a slice?", "arrays"}, api.questions)
}

func TestApp_EmptyTopicNeverCallsProxy(t *testing.T) {
	api := &fakeAPI{}

	out := runApp(t, api, "", "", "", "", "", "", ":quit")

	assert.Empty(t, api.requests)
	assert.Contains(t, out, "Please enter a course topic")
}

func TestApp_InvalidFieldIsReprompted(t *testing.T) {
	api := &fakeAPI{course: `{}`}

	out := runApp(t, api, "Go", "expert", "advanced", "", "", "", "", ":quit")

	require.Len(t, api.requests, 1)
	assert.Equal(t, models.LevelAdvanced, api.requests[0].Level)
	assert.Contains(t, out, "No modules available.")
}

func TestApp_HelperWidgetFromForm(t *testing.T) {
	api := &fakeAPI{chatBody: `{"answer":"Pick a topic you enjoy."}`}

	out := runApp(t, api, ":helper what should I learn?", ":quit")

	assert.Equal(t, []string{"what should I learn?"}, api.questions)
	assert.Contains(t, out, "🤖 Pick a topic you enjoy.\n")
	assert.Empty(t, api.requests)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegen-backend/internal/logger"
	"coursegen-backend/internal/middleware"
	"coursegen-backend/internal/models"
	"coursegen-backend/internal/services"
)

type stubCourseService struct {
	course    models.Course
	chat      models.ChatResponse
	err       error
	gotReq    models.CourseRequest
	gotQ      string
	callCount int
}

func (s *stubCourseService) GenerateCourse(_ context.Context, req models.CourseRequest) (models.Course, error) {
	s.callCount++
	s.gotReq = req
	return s.course, s.err
}

func (s *stubCourseService) Chat(_ context.Context, question string) (models.ChatResponse, error) {
	s.callCount++
	s.gotQ = question
	if question == "" && s.err == nil {
		return models.ChatResponse{}, &services.ValidationError{Fields: map[string]string{"question": "Question is required"}}
	}
	return s.chat, s.err
}

func (s *stubCourseService) Model() string { return "llama3" }
func (s *stubCourseService) Host() string  { return "http://127.0.0.1:11434" }

func newTestHandler(svc *stubCourseService) *CourseHandler {
	return NewCourseHandler(svc, logger.NewNop())
}

func post(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-1")
	rr := httptest.NewRecorder()
	middleware.RequestID(h).ServeHTTP(rr, req)
	return rr
}

// ─── Health Handler Tests ───

func TestHealth(t *testing.T) {
	h := newTestHandler(&stubCourseService{})
	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true,"model":"llama3","host":"http://127.0.0.1:11434"}`, rr.Body.String())
}

// ─── Generate Course Handler Tests ───

func TestGenerateCourse_Success(t *testing.T) {
	svc := &stubCourseService{course: models.Course{
		Overview:  "Go in four weeks",
		Modules:   []models.Module{{Title: "Basics", Topics: []string{"types"}}},
		Resources: []models.Resource{},
	}}
	rr := post(t, newTestHandler(svc).GenerateCourse, "/api/generate-course",
		`{"topic":"Go","level":"beginner","duration":"4","preferredStyle":"interactive"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.Weeks(4), svc.gotReq.Duration)

	var resp models.CourseResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Go in four weeks", resp.Course.Overview)
	assert.NotContains(t, rr.Body.String(), "rawText")
}

func TestGenerateCourse_FallbackIncludesRawText(t *testing.T) {
	svc := &stubCourseService{course: models.Course{
		Overview:  "Could not strictly parse JSON. Returning text fallback as overview.",
		Modules:   []models.Module{},
		Resources: []models.Resource{},
		RawText:   "plain words",
	}}
	rr := post(t, newTestHandler(svc).GenerateCourse, "/api/generate-course", `{"topic":"Go"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"course":{
		"overview":"Could not strictly parse JSON. Returning text fallback as overview.",
		"modules":[],"resources":[],"rawText":"plain words"}}`, rr.Body.String())
}

func TestGenerateCourse_BadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `topic=Go`},
		{"wrong field type", `{"topic":42}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCourseService{}
			rr := post(t, newTestHandler(svc).GenerateCourse, "/api/generate-course", tc.body)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.Zero(t, svc.callCount)
		})
	}
}

func TestGenerateCourse_BadDurationReportsField(t *testing.T) {
	for _, body := range []string{
		`{"topic":"Go","duration":"four"}`,
		`{"topic":"Go","duration":2.5}`,
		`{"topic":"Go","duration":0}`,
		`{"topic":"Go","duration":"0"}`,
	} {
		t.Run(body, func(t *testing.T) {
			svc := &stubCourseService{}
			rr := post(t, newTestHandler(svc).GenerateCourse, "/api/generate-course", body)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			assert.Equal(t, "Duration must be between 1 and 52 weeks", resp.Error.Fields["duration"])
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.Zero(t, svc.callCount)
		})
	}
}

func TestGenerateCourse_IntegralFloatDuration(t *testing.T) {
	svc := &stubCourseService{course: models.Course{Modules: []models.Module{}, Resources: []models.Resource{}}}
	rr := post(t, newTestHandler(svc).GenerateCourse, "/api/generate-course", `{"topic":"Go","duration":4.0}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.Weeks(4), svc.gotReq.Duration)
}

func TestGenerateCourse_ValidationFields(t *testing.T) {
	svc := &stubCourseService{err: &services.ValidationError{Fields: map[string]string{"topic": "Please enter a course topic"}}}
	rr := post(t, newTestHandler(svc).GenerateCourse, "/api/generate-course", `{"topic":""}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Please enter a course topic", resp.Error.Fields["topic"])
}

func TestGenerateCourse_GatewayFailure(t *testing.T) {
	svc := &stubCourseService{err: &services.GatewayError{Op: "course", Err: errors.New("connection refused")}}
	rr := post(t, newTestHandler(svc).GenerateCourse, "/api/generate-course", `{"topic":"Go"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "GATEWAY_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "connection refused")
}

// ─── Chat Handler Tests ───

func TestChat_AcceptsQuestionOrMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"question", `{"question":"What is Go?"}`, "What is Go?"},
		{"message", `{"message":"What is Rust?"}`, "What is Rust?"},
		{"both", `{"question":"first","message":"second"}`, "first"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCourseService{chat: models.ChatResponse{Answer: "ok", SuggestedTopics: []string{"x"}}}
			rr := post(t, newTestHandler(svc).Chat, "/api/chat", tc.body)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, svc.gotQ)
			assert.JSONEq(t, `{"answer":"ok","suggestedTopics":["x"]}`, rr.Body.String())
		})
	}
}

func TestChat_EmptyQuestionIsRenderable(t *testing.T) {
	rr := post(t, newTestHandler(&stubCourseService{}).Chat, "/api/chat", `{"question":"  "}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Please ask a question.", resp.Answer)
	assert.Equal(t, []string{}, resp.SuggestedTopics)
}

func TestChat_GatewayFailureIsRenderable(t *testing.T) {
	svc := &stubCourseService{err: &services.GatewayError{Op: "chat", Err: errors.New("timeout")}}
	rr := post(t, newTestHandler(svc).Chat, "/api/chat", `{"question":"hi"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, tutorUnavailable, resp.Answer)
	assert.Equal(t, []string{}, resp.SuggestedTopics)
	assert.Contains(t, resp.Error, "timeout")
}

func TestChat_OversizedBody(t *testing.T) {
	body := `{"question":"` + string(bytes.Repeat([]byte("a"), maxBodyBytes+1)) + `"}`
	rr := post(t, newTestHandler(&stubCourseService{}).Chat, "/api/chat", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

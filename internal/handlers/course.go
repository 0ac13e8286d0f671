package handlers

import (
	"context"
	"errors"
	"net/http"

	"coursegen-backend/internal/logger"
	"coursegen-backend/internal/middleware"
	"coursegen-backend/internal/models"
	"coursegen-backend/internal/services"
)

const tutorUnavailable = "There was an error reaching the tutor service."

type courseService interface {
	GenerateCourse(ctx context.Context, req models.CourseRequest) (models.Course, error)
	Chat(ctx context.Context, question string) (models.ChatResponse, error)
	Model() string
	Host() string
}

type CourseHandler struct {
	service courseService
	log     *logger.Logger
}

func NewCourseHandler(service courseService, log *logger.Logger) *CourseHandler {
	return &CourseHandler{service: service, log: log}
}

func (h *CourseHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		OK:    true,
		Model: h.service.Model(),
		Host:  h.service.Host(),
	})
}

func (h *CourseHandler) GenerateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CourseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		var dErr *models.DurationError
		if errors.As(err, &dErr) {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"duration": models.DurationMessage()}, r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	course, err := h.service.GenerateCourse(r.Context(), req)
	if err != nil {
		h.log.Warn("generate course failed", "request_id", middleware.GetRequestID(r.Context()), "error", err)
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.CourseResponse{Course: course})
}

// Chat always answers with a ChatResponse body, even on failure, so the
// widget has something to render.
func (h *CourseHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{
			Answer:          "Please ask a question.",
			SuggestedTopics: []string{},
			Error:           "Invalid request body",
		})
		return
	}

	resp, err := h.service.Chat(r.Context(), req.Text())
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, models.ChatResponse{
				Answer:          "Please ask a question.",
				SuggestedTopics: []string{},
				Error:           "Question is required",
			})
			return
		}

		h.log.Error("tutor chat failed", "request_id", middleware.GetRequestID(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ChatResponse{
			Answer:          tutorUnavailable,
			SuggestedTopics: []string{},
			Error:           err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"coursegen-backend/internal/logger"
	"coursegen-backend/internal/metrics"
	"coursegen-backend/internal/models"
)

const (
	courseFallbackOverview = "Could not strictly parse JSON. Returning text fallback as overview."
	chatFallbackAnswer     = "Sorry, I couldn't parse a response."
)

// CourseService builds prompts, calls the model gateway once per request and
// turns whatever comes back into a renderable shape. It holds no per-request state.
type CourseService struct {
	gateway     ModelGateway
	log         *logger.Logger
	temperature float64
	timeout     time.Duration
}

func NewCourseService(gateway ModelGateway, log *logger.Logger, temperature float64, timeout time.Duration) *CourseService {
	return &CourseService{
		gateway:     gateway,
		log:         log,
		temperature: temperature,
		timeout:     timeout,
	}
}

func (s *CourseService) Model() string { return s.gateway.Model() }
func (s *CourseService) Host() string  { return s.gateway.Host() }

// GenerateCourse defaults and validates req, asks the model for a syllabus and
// parses the reply. Malformed model output never fails the call; only
// validation and gateway errors do.
func (s *CourseService) GenerateCourse(ctx context.Context, req models.CourseRequest) (models.Course, error) {
	req.ApplyDefaults()
	if fields := req.Validate(); fields != nil {
		return models.Course{}, &ValidationError{Fields: fields}
	}

	text, err := s.complete(ctx, "course", courseMessages(req))
	if err != nil {
		return models.Course{}, err
	}

	obj, outcome := parseModelJSON(text)
	metrics.RecordParseOutcome("course", string(outcome))
	if outcome == ParseFallback {
		s.log.Warn("course reply was not JSON, returning text fallback", "topic", req.Topic, "chars", len(text))
		return models.Course{
			Overview:  courseFallbackOverview,
			Modules:   []models.Module{},
			Resources: []models.Resource{},
			RawText:   text,
		}, nil
	}

	course := courseFromJSON(obj)
	s.log.Info("course generated",
		"topic", req.Topic,
		"modules", len(course.Modules),
		"resources", len(course.Resources),
		"parse", outcome,
	)
	return course, nil
}

// Chat answers a single stateless tutor question.
func (s *CourseService) Chat(ctx context.Context, question string) (models.ChatResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.ChatResponse{}, &ValidationError{Fields: map[string]string{"question": "Question is required"}}
	}

	text, err := s.complete(ctx, "chat", tutorMessages(question))
	if err != nil {
		return models.ChatResponse{}, err
	}

	obj, outcome := parseModelJSON(text)
	metrics.RecordParseOutcome("chat", string(outcome))
	if outcome == ParseFallback {
		answer := text
		if answer == "" {
			answer = chatFallbackAnswer
		}
		return models.ChatResponse{Answer: answer, SuggestedTopics: []string{}}, nil
	}

	return chatFromJSON(obj), nil
}

func (s *CourseService) complete(ctx context.Context, op string, msgs []Message) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.gateway.Complete(ctx, GatewayRequest{
		Messages:    msgs,
		JSON:        true,
		Temperature: s.temperature,
	})
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordGatewayCall(op, "error", elapsed.Seconds())
		s.log.Error("model gateway call failed", "op", op, "model", s.gateway.Model(), "elapsed", elapsed, "error", err)

		var gwErr *GatewayError
		if !errors.As(err, &gwErr) {
			err = &GatewayError{Op: op, Err: err}
		}
		return "", err
	}

	metrics.RecordGatewayCall(op, "ok", elapsed.Seconds())
	s.log.Debug("model gateway call finished", "op", op, "elapsed", elapsed, "chars", len(text))
	return text, nil
}

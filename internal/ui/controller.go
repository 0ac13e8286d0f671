package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"coursegen-backend/internal/logger"
	"coursegen-backend/internal/models"
)

type Step int

const (
	StepForm Step = iota + 1
	StepLoading
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepForm:
		return "form"
	case StepLoading:
		return "loading"
	case StepResult:
		return "result"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

const (
	msgTopicRequired  = "Please enter a course topic"
	msgGenerateFailed = "Failed to generate course. Please try again."
)

var (
	ErrTopicRequired = errors.New(msgTopicRequired)
	ErrBusy          = errors.New("a course is already being generated")
	ErrReset         = errors.New("form was reset while the course was generating")
)

// CourseAPI generates a course and returns the raw course JSON.
type CourseAPI interface {
	GenerateCourse(ctx context.Context, req models.CourseRequest) (json.RawMessage, error)
}

// Controller drives the form -> loading -> result flow. Every failure lands
// back on the form with a message; it never stays in loading.
type Controller struct {
	api CourseAPI
	log *logger.Logger

	mu        sync.Mutex
	step      Step
	form      FormData
	course    json.RawMessage
	errMsg    string
	listeners []func(Step)

	// gen is bumped by Reset so an in-flight Submit drops its result.
	gen uint64
}

func NewController(api CourseAPI, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.NewNop()
	}
	return &Controller{
		api:  api,
		log:  log,
		step: StepForm,
		form: DefaultForm(),
	}
}

// OnStepChange registers fn to be called after every transition.
func (c *Controller) OnStepChange(fn func(Step)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Controller) Form() FormData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller) Meta() Meta {
	return c.Form().Meta()
}

// Course returns the last generated course, or nil outside the result step.
func (c *Controller) Course() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.course
}

// Error returns the message shown above the form, if any.
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

func (c *Controller) SetField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Set(field, value)
}

// Submit validates the form and generates a course. An empty topic fails
// without calling the API.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.step == StepLoading {
		c.mu.Unlock()
		return ErrBusy
	}
	if strings.TrimSpace(c.form.Topic) == "" {
		c.errMsg = msgTopicRequired
		c.mu.Unlock()
		return ErrTopicRequired
	}
	c.errMsg = ""
	req := c.form.Request()
	gen := c.gen
	c.step = StepLoading
	listeners := c.snapshotListeners()
	c.mu.Unlock()
	notify(listeners, StepLoading)

	course, err := c.api.GenerateCourse(ctx, req)
	if err != nil {
		c.log.Warn("course generation failed", "topic", req.Topic, "error", err)
		if !c.transitionIf(gen, StepForm, func() { c.errMsg = msgGenerateFailed }) {
			return ErrReset
		}
		return fmt.Errorf("generate course: %w", err)
	}

	if !c.transitionIf(gen, StepResult, func() { c.course = course }) {
		c.log.Debug("dropping course generated before reset", "topic", req.Topic)
		return ErrReset
	}
	return nil
}

// Reset returns to an empty form with default values. A submission still in
// flight is abandoned.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	c.transitionIf(gen, StepForm, func() {
		c.form = DefaultForm()
		c.course = nil
		c.errMsg = ""
	})
}

// transitionIf applies mutate and the new step under the lock, then notifies
// listeners outside it. It does nothing when a Reset has happened since gen
// was read.
func (c *Controller) transitionIf(gen uint64, to Step, mutate func()) bool {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return false
	}
	mutate()
	c.step = to
	listeners := c.snapshotListeners()
	c.mu.Unlock()
	notify(listeners, to)
	return true
}

func (c *Controller) snapshotListeners() []func(Step) {
	return append([]func(Step){}, c.listeners...)
}

func notify(listeners []func(Step), step Step) {
	for _, fn := range listeners {
		fn(step)
	}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"coursegen-backend/internal/client"
	"coursegen-backend/internal/logger"
	"coursegen-backend/internal/models"
	"coursegen-backend/internal/ui"
)

var errQuit = errors.New("quit")

type api interface {
	ui.CourseAPI
	ui.ChatAPI
	Health(ctx context.Context) (models.HealthResponse, error)
}

// app wires the controller and both chat widgets to a line-based terminal.
type app struct {
	api    api
	log    *logger.Logger
	in     *bufio.Scanner
	out    io.Writer
	ctl    *ui.Controller
	helper *ui.ChatWidget
	tutor  *ui.ChatWidget
}

func newApp(c api, in io.Reader, out io.Writer, log *logger.Logger) *app {
	a := &app{
		api: c,
		log: log,
		in:  bufio.NewScanner(in),
		out: out,
		ctl: ui.NewController(c, log),
	}
	a.helper = ui.NewChatWidget(c, ui.ChatOptions{
		Title:       "Helper AI",
		Collapsible: true,
		DefaultOpen: false,
		Meta:        a.ctl.Meta(),
	}, log)

	a.ctl.OnStepChange(func(s ui.Step) {
		switch s {
		case ui.StepLoading:
			ui.RenderSteps(a.out, s)
			ui.RenderLoading(a.out)
		case ui.StepResult:
			ui.RenderSteps(a.out, s)
			// Each generated course gets a fresh embedded tutor.
			a.tutor = ui.NewChatWidget(a.api, ui.ChatOptions{Title: "AI Tutor", Meta: a.ctl.Meta()}, a.log)
		}
		a.helper.SetMeta(a.ctl.Meta())
	})
	return a
}

func (a *app) run(ctx context.Context) error {
	ui.RenderHeader(a.out)
	a.checkHealth(ctx)
	fmt.Fprintln(a.out, "Commands: :helper <question>, :toggle, :quit")
	fmt.Fprintln(a.out)

	for {
		if ctx.Err() != nil {
			return nil
		}

		var err error
		switch a.ctl.Step() {
		case ui.StepResult:
			err = a.resultStep(ctx)
		default:
			err = a.formStep(ctx)
		}

		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *app) checkHealth(ctx context.Context) {
	health, err := a.api.Health(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "⚠️ Proxy not reachable yet: %v\n\n", err)
		return
	}
	fmt.Fprintf(a.out, "Connected: model %s via %s\n\n", health.Model, health.Host)
}

type formField struct {
	name  string
	label string
	value func(ui.FormData) string
}

var formFields = []formField{
	{ui.FieldTopic, "Course Topic * (e.g., Machine Learning Basics)", func(f ui.FormData) string { return f.Topic }},
	{ui.FieldLevel, "Difficulty Level (beginner/intermediate/advanced)", func(f ui.FormData) string { return f.Level }},
	{ui.FieldDuration, "Duration (weeks, 1-52)", func(f ui.FormData) string { return f.Duration }},
	{ui.FieldLearningObjectives, "Learning Objectives", func(f ui.FormData) string { return f.LearningObjectives }},
	{ui.FieldPreferredStyle, "Preferred Learning Style (interactive/self-paced/project-based/theory-focused)", func(f ui.FormData) string { return f.PreferredStyle }},
	{ui.FieldTargetAudience, "Target Audience (e.g., College students, professionals)", func(f ui.FormData) string { return f.TargetAudience }},
}

func (a *app) formStep(ctx context.Context) error {
	ui.RenderSteps(a.out, ui.StepForm)
	ui.RenderError(a.out, a.ctl.Error())
	ui.RenderFeatures(a.out)

	for _, field := range formFields {
		for {
			current := field.value(a.ctl.Form())
			line, err := a.prompt(ctx, fmt.Sprintf("%s [%s]: ", field.label, current))
			if err != nil {
				return err
			}
			if strings.TrimSpace(line) == "" {
				break
			}
			if err := a.ctl.SetField(field.name, line); err != nil {
				fmt.Fprintf(a.out, "  %v\n", err)
				continue
			}
			break
		}
	}
	a.helper.SetMeta(a.ctl.Meta())

	if err := a.ctl.Submit(ctx); err != nil {
		a.log.Debug("submit failed", "error", err)
	}
	return nil
}

func (a *app) resultStep(ctx context.Context) error {
	view := ui.BuildCourseView(a.ctl.Course(), a.ctl.Meta(), a.ctl.Form().Topic)
	if err := ui.RenderCourse(a.out, view); err != nil {
		return fmt.Errorf("render course: %w", err)
	}
	ui.RenderActions(a.out)

	fmt.Fprintln(a.out, "\nAsk Doubts to AI Tutor (type a question, #N to pick a suggested topic)")
	ui.RenderChat(a.out, a.tutor)

	for {
		line, err := a.prompt(ctx, "> ")
		if err != nil {
			return err
		}
		switch strings.TrimSpace(line) {
		case ":new":
			a.ctl.Reset()
			return nil
		case ":pdf":
			fmt.Fprintln(a.out, ui.DownloadComingSoon)
		default:
			a.chat(ctx, a.tutor, line)
		}
	}
}

// prompt reads the next non-command line. Helper widget commands are handled
// inline from any step.
func (a *app) prompt(ctx context.Context, label string) (string, error) {
	for {
		fmt.Fprint(a.out, label)
		if !a.in.Scan() {
			if err := a.in.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		if ctx.Err() != nil {
			return "", errQuit
		}

		line := a.in.Text()
		cmd := strings.TrimSpace(line)
		switch {
		case cmd == ":quit":
			return "", errQuit
		case cmd == ":toggle":
			a.helper.Toggle()
			ui.RenderChat(a.out, a.helper)
		case strings.HasPrefix(cmd, ":helper"):
			if !a.helper.Open() {
				a.helper.Toggle()
			}
			a.chat(ctx, a.helper, strings.TrimSpace(strings.TrimPrefix(cmd, ":helper")))
		default:
			return line, nil
		}
	}
}

// chat sends input to w and prints what it appended. "#N" clicks the Nth
// chip of the latest topic suggestion.
func (a *app) chat(ctx context.Context, w *ui.ChatWidget, input string) {
	input = strings.TrimSpace(input)
	before := len(w.Messages())

	var sent bool
	if strings.HasPrefix(input, "#") {
		n, err := strconv.Atoi(input[1:])
		topics := w.LatestTopics()
		if err != nil || n < 1 || n > len(topics) {
			fmt.Fprintf(a.out, "  no suggested topic %s\n", input)
			return
		}
		sent = w.ClickTopic(ctx, topics[n-1])
	} else {
		sent = w.SendMessage(ctx, input)
	}

	if sent {
		ui.RenderMessages(a.out, w.Messages()[before:])
	}
}

var _ api = (*client.Client)(nil)

package ui

import (
	"fmt"
	"strconv"
	"strings"

	"coursegen-backend/internal/models"
)

const (
	FieldTopic              = "topic"
	FieldLevel              = "level"
	FieldDuration           = "duration"
	FieldLearningObjectives = "learningObjectives"
	FieldPreferredStyle     = "preferredStyle"
	FieldTargetAudience     = "targetAudience"
)

// FormData holds the course form exactly as the user typed it. Duration stays
// a string, like the form control it backs.
type FormData struct {
	Topic              string
	Level              string
	Duration           string
	LearningObjectives string
	PreferredStyle     string
	TargetAudience     string
}

func DefaultForm() FormData {
	return FormData{
		Level:          models.DefaultLevel,
		Duration:       strconv.Itoa(int(models.DefaultDuration)),
		PreferredStyle: models.DefaultStyle,
	}
}

// Set updates one field. Enum and range fields reject values outside their
// allowed set and leave the form unchanged.
func (f *FormData) Set(field, value string) error {
	switch field {
	case FieldTopic:
		f.Topic = value
	case FieldLearningObjectives:
		f.LearningObjectives = value
	case FieldTargetAudience:
		f.TargetAudience = value
	case FieldLevel:
		v := strings.ToLower(strings.TrimSpace(value))
		if !models.IsValidLevel(v) {
			return fmt.Errorf("level must be one of: %s", strings.Join(models.Levels, ", "))
		}
		f.Level = v
	case FieldPreferredStyle:
		v := strings.ToLower(strings.TrimSpace(value))
		if !models.IsValidStyle(v) {
			return fmt.Errorf("style must be one of: %s", strings.Join(models.Styles, ", "))
		}
		f.PreferredStyle = v
	case FieldDuration:
		v := strings.TrimSpace(value)
		n, err := strconv.Atoi(v)
		if err != nil || n < models.MinWeeks || n > models.MaxWeeks {
			return fmt.Errorf("duration must be a whole number between %d and %d", models.MinWeeks, models.MaxWeeks)
		}
		f.Duration = strconv.Itoa(n)
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	return nil
}

// Request converts the form to the proxy payload.
func (f FormData) Request() models.CourseRequest {
	weeks, _ := strconv.Atoi(strings.TrimSpace(f.Duration))
	return models.CourseRequest{
		Topic:              strings.TrimSpace(f.Topic),
		Level:              f.Level,
		Duration:           models.Weeks(weeks),
		LearningObjectives: strings.TrimSpace(f.LearningObjectives),
		PreferredStyle:     f.PreferredStyle,
		TargetAudience:     strings.TrimSpace(f.TargetAudience),
	}
}

// Meta is the read-only projection of the form shown as badges.
type Meta struct {
	Level    string
	Duration string
	Style    string
}

func (f FormData) Meta() Meta {
	return Meta{Level: f.Level, Duration: f.Duration, Style: f.PreferredStyle}
}

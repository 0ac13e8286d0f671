package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"

	StyleInteractive   = "interactive"
	StyleSelfPaced     = "self-paced"
	StyleProjectBased  = "project-based"
	StyleTheoryFocused = "theory-focused"

	ResourceVideo   = "video"
	ResourceArticle = "article"
	ResourceCourse  = "course"
	ResourceDocs    = "docs"
)

const (
	DefaultLevel    = LevelBeginner
	DefaultDuration = Weeks(4)
	DefaultStyle    = StyleInteractive

	MinWeeks = 1
	MaxWeeks = 52
)

var (
	Levels        = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}
	Styles        = []string{StyleInteractive, StyleSelfPaced, StyleProjectBased, StyleTheoryFocused}
	ResourceTypes = []string{ResourceVideo, ResourceArticle, ResourceCourse, ResourceDocs}
)

func IsValidLevel(v string) bool        { return contains(Levels, v) }
func IsValidStyle(v string) bool        { return contains(Styles, v) }
func IsValidResourceType(v string) bool { return contains(ResourceTypes, v) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Weeks is a course duration. Browsers post it as the raw form value, so both
// "4" and 4 decode. Null and "" mean the field was left out.
type Weeks int

// DurationError is returned when a posted duration cannot be a week count,
// including an explicit zero.
type DurationError struct {
	Value string
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("%s, got %s", DurationMessage(), e.Value)
}

// DurationMessage is the field-level message for an unusable duration.
func DurationMessage() string {
	return fmt.Sprintf("Duration must be between %d and %d weeks", MinWeeks, MaxWeeks)
}

func (w *Weeks) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*w = 0
		return nil
	}

	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
		if s == "" {
			*w = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return &DurationError{Value: string(b)}
	}
	// Zero means absent, so an explicit zero is rejected rather than defaulted.
	if f == 0 {
		return &DurationError{Value: string(b)}
	}
	*w = Weeks(f)
	return nil
}

// CourseRequest is the payload accepted by POST /api/generate-course.
type CourseRequest struct {
	Topic              string `json:"topic"`
	Level              string `json:"level"`
	Duration           Weeks  `json:"duration,omitempty"`
	LearningObjectives string `json:"learningObjectives,omitempty"`
	PreferredStyle     string `json:"preferredStyle"`
	TargetAudience     string `json:"targetAudience,omitempty"`
}

// ApplyDefaults fills the fields a client may leave out.
func (r *CourseRequest) ApplyDefaults() {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Level = strings.ToLower(strings.TrimSpace(r.Level))
	r.PreferredStyle = strings.ToLower(strings.TrimSpace(r.PreferredStyle))
	r.LearningObjectives = strings.TrimSpace(r.LearningObjectives)
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)

	if r.Level == "" {
		r.Level = DefaultLevel
	}
	if r.Duration == 0 {
		r.Duration = DefaultDuration
	}
	if r.PreferredStyle == "" {
		r.PreferredStyle = DefaultStyle
	}
}

// Validate returns field-level messages, or nil when the request is usable.
func (r *CourseRequest) Validate() map[string]string {
	fields := map[string]string{}
	if r.Topic == "" {
		fields["topic"] = "Please enter a course topic"
	}
	if !IsValidLevel(r.Level) {
		fields["level"] = "Level must be one of: " + strings.Join(Levels, ", ")
	}
	if r.Duration < MinWeeks || r.Duration > MaxWeeks {
		fields["duration"] = DurationMessage()
	}
	if !IsValidStyle(r.PreferredStyle) {
		fields["preferredStyle"] = "Style must be one of: " + strings.Join(Styles, ", ")
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type Course struct {
	Overview  string     `json:"overview"`
	Modules   []Module   `json:"modules"`
	Resources []Resource `json:"resources"`
	// RawText carries the unparsed model output when no JSON could be recovered.
	RawText string `json:"rawText,omitempty"`
}

type Module struct {
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
}

type Resource struct {
	Title string `json:"title"`
	Type  string `json:"type,omitempty"` // "video" | "article" | "course" | "docs"
	URL   string `json:"url,omitempty"`
}

type CourseResponse struct {
	Course Course `json:"course"`
}

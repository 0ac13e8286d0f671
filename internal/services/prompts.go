package services

import (
	"fmt"
	"strings"

	"coursegen-backend/internal/models"
)

const courseSystemPrompt = `You are an expert course designer.
Return ONLY a valid JSON object (no markdown, no extra text) using this schema:

{
  "overview": "short summary",
  "modules": [
    { "title": "Module 1 Title", "topics": ["subtopic1", "subtopic2"] },
    { "title": "Module 2 Title", "topics": ["subtopic1", "subtopic2"] }
  ],
  "resources": [
    { "title": "Book or Video", "type": "video|article|course|docs", "url": "https://..." }
  ]
}`

const tutorSystemPrompt = `You are a helpful AI tutor.
Return ONLY a valid JSON object (no markdown, no extra text) with this exact shape:

{
  "answer": "concise explanation tailored to the question",
  "suggestedTopics": ["short topic", "short topic"]
}`

func buildCoursePrompt(req models.CourseRequest) string {
	objectives := req.LearningObjectives
	if objectives == "" {
		objectives = "default to key skills"
	}
	audience := req.TargetAudience
	if audience == "" {
		audience = "general learners"
	}

	var sb strings.Builder
	sb.WriteString("Create a detailed syllabus for the course with the following inputs:\n")
	fmt.Fprintf(&sb, "- Topic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "- Level: %s\n", req.Level)
	fmt.Fprintf(&sb, "- Duration: %d weeks\n", req.Duration)
	fmt.Fprintf(&sb, "- Learning Objectives: %s\n", objectives)
	fmt.Fprintf(&sb, "- Teaching Style: %s\n", req.PreferredStyle)
	fmt.Fprintf(&sb, "- Target Audience: %s\n", audience)
	sb.WriteString("\nEnsure the content is realistic and actionable. Return JSON only.")

	return sb.String()
}

func courseMessages(req models.CourseRequest) []Message {
	return []Message{
		{Role: RoleSystem, Content: courseSystemPrompt},
		{Role: RoleUser, Content: buildCoursePrompt(req)},
	}
}

func tutorMessages(question string) []Message {
	return []Message{
		{Role: RoleSystem, Content: tutorSystemPrompt},
		{Role: RoleUser, Content: question},
	}
}

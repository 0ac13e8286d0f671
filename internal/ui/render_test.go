package ui

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMeta = Meta{Level: "beginner", Duration: "4", Style: "interactive"}

func TestBuildCourseView_Complete(t *testing.T) {
	raw := json.RawMessage(`{
		"overview": "A gentle intro to Go.",
		"modules": [
			{"title": "Basics", "topics": ["Syntax", "", null]},
			{"topics": "none"},
			{"title": "Concurrency", "topics": []}
		],
		"resources": [{"title": "Tour", "url": "https://go.dev/tour", "type": "course"}]
	}`)

	v := BuildCourseView(raw, testMeta, "Go")

	assert.Equal(t, "A gentle intro to Go.", v.Overview)
	assert.Equal(t, []string{"Level: Beginner", "Duration: 4 weeks", "Style: Interactive"}, v.Badges)
	require.Len(t, v.Modules, 3)
	assert.Equal(t, ModuleView{Title: "Basics", Topics: []string{"Syntax", "Untitled Topic", "Untitled Topic"}}, v.Modules[0])
	assert.Equal(t, ModuleView{Title: "Module 2"}, v.Modules[1])
	assert.Equal(t, ModuleView{Title: "Concurrency"}, v.Modules[2])
	require.Len(t, v.Resources, 1)
	assert.Empty(t, v.RawText)
}

func TestBuildCourseView_ToleratesBadShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"modules is an object", `{"modules": {"title": "x"}, "resources": "none"}`},
		{"null", `null`},
		{"not json", `oops`},
		{"empty", ``},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := BuildCourseView(json.RawMessage(tc.raw), Meta{}, "")
			assert.Empty(t, v.Modules)
			assert.Empty(t, v.Resources)
			assert.Empty(t, v.Badges)

			var buf bytes.Buffer
			require.NoError(t, RenderCourse(&buf, v))
			assert.Contains(t, buf.String(), "No modules available.")
			assert.Contains(t, buf.String(), "No resources available.")
		})
	}
}

func TestRenderCourse(t *testing.T) {
	raw := json.RawMessage(`{
		"overview": "Learn Go.",
		"modules": [{"title": "Basics", "topics": ["Types"]}, {"title": "Empty"}],
		"resources": ["Go blog"]
	}`)

	var buf bytes.Buffer
	require.NoError(t, RenderCourse(&buf, BuildCourseView(raw, testMeta, "Go")))
	out := buf.String()

	assert.Contains(t, out, "Course Overview")
	assert.Contains(t, out, "[Level: Beginner] [Duration: 4 weeks] [Style: Interactive]")
	assert.Contains(t, out, "Learn Go.")
	assert.Contains(t, out, "Course Modules")
	assert.Contains(t, out, "1. Basics\n   - Types\n")
	assert.Contains(t, out, "2. Empty\n   No topics available.\n")
	assert.Contains(t, out, "Course Resources")
	assert.Contains(t, out, "[VIDEO] YouTube: Go blog")
	assert.Contains(t, out, "https://www.youtube.com/results?search_query=Go%20blog")
}

func TestRenderCourse_FallbackShowsRawText(t *testing.T) {
	raw := json.RawMessage(`{
		"overview": "Could not strictly parse JSON. Returning text fallback as overview.",
		"modules": [], "resources": [],
		"rawText": "Week 1: basics\nWeek 2: more"
	}`)

	var buf bytes.Buffer
	require.NoError(t, RenderCourse(&buf, BuildCourseView(raw, testMeta, "Go")))
	out := buf.String()

	assert.Contains(t, out, "Could not strictly parse JSON.")
	assert.Contains(t, out, "  Week 1: basics\n  Week 2: more")
	assert.Contains(t, out, "No modules available.")
}

func TestOverviewBadges_Partial(t *testing.T) {
	assert.Equal(t, []string{"Duration: 8 weeks"}, overviewBadges(Meta{Duration: "8"}))
	assert.Equal(t, []string{"Style: Self-paced"}, overviewBadges(Meta{Style: "self-paced"}))
}

package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/tidwall/gjson"

	"coursegen-backend/internal/models"
)

const (
	noModules   = "No modules available."
	noResources = "No resources available."
	noTopics    = "No topics available."
	emptyTopic  = "Untitled Topic"
)

// CourseView is a course ready for display. Building one never fails: any
// shape the proxy returns renders as something.
type CourseView struct {
	Overview  string
	Badges    []string
	Modules   []ModuleView
	Resources []models.Resource
	RawText   string
}

type ModuleView struct {
	Title  string
	Topics []string // nil renders as "No topics available."
}

// BuildCourseView reads raw course JSON leniently. topic seeds fallback
// resource links for untitled entries.
func BuildCourseView(raw json.RawMessage, meta Meta, topic string) CourseView {
	course := gjson.ParseBytes(raw)

	view := CourseView{
		Badges:    overviewBadges(meta),
		Resources: NormalizeResources(course.Get("resources"), topic),
	}
	if ov := course.Get("overview"); ov.Exists() && ov.Type != gjson.Null {
		view.Overview = ov.String()
	}
	view.RawText = course.Get("rawText").String()

	if mods := course.Get("modules"); mods.IsArray() {
		for i, m := range mods.Array() {
			view.Modules = append(view.Modules, moduleView(i, m))
		}
	}
	return view
}

func moduleView(idx int, m gjson.Result) ModuleView {
	mv := ModuleView{Title: strings.TrimSpace(m.Get("title").String())}
	if m.Type == gjson.String {
		mv.Title = strings.TrimSpace(m.Str)
	}
	if mv.Title == "" {
		mv.Title = fmt.Sprintf("Module %d", idx+1)
	}

	if topics := m.Get("topics"); topics.IsArray() && len(topics.Array()) > 0 {
		mv.Topics = []string{}
		for _, t := range topics.Array() {
			s := strings.TrimSpace(t.String())
			if t.Type == gjson.Null || s == "" {
				s = emptyTopic
			}
			mv.Topics = append(mv.Topics, s)
		}
	}
	return mv
}

func overviewBadges(meta Meta) []string {
	var badges []string
	if meta.Level != "" {
		badges = append(badges, "Level: "+capitalize(meta.Level))
	}
	if meta.Duration != "" {
		badges = append(badges, "Duration: "+meta.Duration+" weeks")
	}
	if meta.Style != "" {
		badges = append(badges, "Style: "+capitalize(meta.Style))
	}
	return badges
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var courseTmpl = template.Must(template.New("course").Funcs(template.FuncMap{
	"upper":  strings.ToUpper,
	"inc":    func(i int) int { return i + 1 },
	"indent": func(s string) string { return "  " + strings.ReplaceAll(s, "\n", "\n  ") },
}).Parse(`== Course Overview ==
{{range .Badges}}[{{.}}] {{end}}
{{if .Overview}}{{.Overview}}
{{end}}{{if .RawText}}
{{indent .RawText}}
{{end}}
{{if .Modules}}== Course Modules ==
{{range $i, $m := .Modules}}{{inc $i}}. {{$m.Title}}
{{if $m.Topics}}{{range $m.Topics}}   - {{.}}
{{end}}{{else}}   {{"` + noTopics + `"}}
{{end}}{{end}}{{else}}{{"` + noModules + `"}}
{{end}}
{{if .Resources}}== Course Resources ==
{{range .Resources}}  [{{upper .Type}}] {{.Title}}
    {{.URL}}
{{end}}{{else}}{{"` + noResources + `"}}
{{end}}`))

// RenderCourse writes a plain-text rendering of v.
func RenderCourse(w io.Writer, v CourseView) error {
	return courseTmpl.Execute(w, v)
}

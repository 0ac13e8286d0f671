package ui

import (
	"fmt"
	"io"
	"strings"
)

const (
	AppTitle   = "AI Course Generator"
	AppTagline = "Create personalized learning paths in seconds. Our AI generates comprehensive courses tailored to your needs, skill level, and learning preferences."

	LoadingText        = "Generating your personalized course..."
	DownloadComingSoon = "Download feature coming soon!"
)

type Feature struct {
	Title string
	Desc  string
}

var Features = []Feature{
	{"AI-Powered", "Our advanced AI creates personalized learning paths based on your goals and preferences."},
	{"Comprehensive", "Complete courses with modules, lessons, resources, and assessments ready to use."},
	{"Customizable", "Adjust difficulty, duration, and learning style to match your exact requirements."},
}

// Actions offered under a generated course.
var Actions = []string{"Generate New Course", "Download PDF"}

func RenderHeader(w io.Writer) {
	fmt.Fprintf(w, "%s\n%s\n%s\n\n", AppTitle, strings.Repeat("=", len(AppTitle)), AppTagline)
}

// RenderSteps draws the three-step progress bar; steps up to current are filled.
func RenderSteps(w io.Writer, current Step) {
	var sb strings.Builder
	for num := StepForm; num <= StepResult; num++ {
		if current >= num {
			fmt.Fprintf(&sb, "(%d)", int(num))
		} else {
			fmt.Fprintf(&sb, " %d ", int(num))
		}
		if num < StepResult {
			if current > num {
				sb.WriteString("━━━")
			} else {
				sb.WriteString("───")
			}
		}
	}
	fmt.Fprintln(w, sb.String())
}

func RenderError(w io.Writer, msg string) {
	if msg != "" {
		fmt.Fprintf(w, "! %s\n", msg)
	}
}

func RenderLoading(w io.Writer) {
	fmt.Fprintf(w, "\n  ⏳ %s\n\n", LoadingText)
}

func RenderFeatures(w io.Writer) {
	for _, f := range Features {
		fmt.Fprintf(w, "  • %s: %s\n", f.Title, f.Desc)
	}
	fmt.Fprintln(w)
}

func RenderActions(w io.Writer) {
	fmt.Fprintf(w, "[:new] %s   [:pdf] %s\n", Actions[0], Actions[1])
}

// RenderChat draws a widget's header (when collapsible) and, if open, its
// transcript with numbered topic chips.
func RenderChat(w io.Writer, cw *ChatWidget) {
	if cw.Collapsible() {
		toggle := "+"
		if cw.Open() {
			toggle = "–"
		}
		badges := ""
		if b := cw.Badges(); len(b) > 0 {
			badges = " [" + strings.Join(b, "] [") + "]"
		}
		fmt.Fprintf(w, "┌ %s%s  (%s)\n", cw.Title(), badges, toggle)
		if !cw.Open() {
			return
		}
	}

	RenderMessages(w, cw.Messages())
	if cw.Busy() {
		fmt.Fprintln(w, "🤖 …")
	}
}

// RenderMessages writes transcript entries with numbered topic chips and
// resource cards.
func RenderMessages(w io.Writer, msgs []ChatMessage) {
	for _, msg := range msgs {
		prefix := "🤖"
		if msg.Sender == SenderUser {
			prefix = "🧑"
		}
		fmt.Fprintf(w, "%s %s\n", prefix, msg.Text)
		for i, topic := range msg.Topics {
			fmt.Fprintf(w, "     #%d %s\n", i+1, topic)
		}
		for _, r := range msg.Resources {
			resType := r.Type
			if resType == "" {
				resType = "resource"
			}
			fmt.Fprintf(w, "     [%s] %s\n       %s\n", strings.ToUpper(resType), r.Title, r.URL)
		}
	}
}

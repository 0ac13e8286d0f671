package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"coursegen-backend/internal/logger"
	"coursegen-backend/internal/models"
)

const (
	chatGreeting       = "Hi! Ask me anything about your course."
	chatNoReply        = "⚠️ No reply from server."
	chatParseFailed    = "⚠️ No reply from server (parse failed)."
	chatUnreachable    = "⚠️ Could not reach server."
	chatTopicsHeader   = "💡 Suggested topics:"
	chatResourceHeader = "📚 Recommended resources:"
)

// Fields a reply's answer may arrive under, in priority order.
var answerKeys = []string{"answer", "reply", "response", "message", "content"}

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type ChatMessage struct {
	Sender    Sender
	Text      string
	Topics    []string
	Resources []models.Resource
}

// ChatAPI sends one chat message. Non-2xx replies must return an error that
// implements HTTPStatus() int.
type ChatAPI interface {
	Chat(ctx context.Context, message string) ([]byte, error)
}

type ChatOptions struct {
	Title       string
	Collapsible bool
	DefaultOpen bool
	Meta        Meta
}

// ChatWidget is one independent chat transcript. The transcript is
// append-only and only one message is in flight at a time.
type ChatWidget struct {
	api ChatAPI
	log *logger.Logger

	mu       sync.Mutex
	title    string
	collapse bool
	open     bool
	meta     Meta
	busy     bool
	messages []ChatMessage
}

func NewChatWidget(api ChatAPI, opts ChatOptions, log *logger.Logger) *ChatWidget {
	if log == nil {
		log = logger.NewNop()
	}
	title := opts.Title
	if title == "" {
		title = "AI Tutor"
	}
	return &ChatWidget{
		api:      api,
		log:      log.With("widget", title),
		title:    title,
		collapse: opts.Collapsible,
		open:     !opts.Collapsible || opts.DefaultOpen,
		meta:     opts.Meta,
		messages: []ChatMessage{{Sender: SenderBot, Text: chatGreeting}},
	}
}

// SendMessage posts text and appends the outcome to the transcript. It
// reports false, without touching the transcript, for blank text or while a
// previous message is still in flight.
func (w *ChatWidget) SendMessage(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return false
	}
	w.busy = true
	w.messages = append(w.messages, ChatMessage{Sender: SenderUser, Text: text})
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	body, err := w.api.Chat(ctx, text)
	replies := w.interpret(body, err, text)

	w.mu.Lock()
	w.messages = append(w.messages, replies...)
	w.mu.Unlock()
	return true
}

// ClickTopic re-sends a suggested topic chip as a new question.
func (w *ChatWidget) ClickTopic(ctx context.Context, topic string) bool {
	return w.SendMessage(ctx, topic)
}

func (w *ChatWidget) interpret(body []byte, err error, question string) []ChatMessage {
	if err != nil {
		var status interface{ HTTPStatus() int }
		if errors.As(err, &status) {
			w.log.Warn("chat request rejected", "status", status.HTTPStatus())
			return []ChatMessage{botText(fmt.Sprintf("⚠️ Server error: %d", status.HTTPStatus()))}
		}
		w.log.Warn("chat request failed", "error", err)
		return []ChatMessage{botText(chatUnreachable)}
	}

	if !gjson.ValidBytes(body) {
		return []ChatMessage{botText(chatParseFailed)}
	}
	data := gjson.ParseBytes(body)
	if data.Type == gjson.Null {
		return []ChatMessage{botText(chatParseFailed)}
	}

	replies := []ChatMessage{botText(extractAnswer(data))}

	var topics []string
	if t := data.Get("suggestedTopics"); t.IsArray() {
		for _, item := range t.Array() {
			if s := strings.TrimSpace(item.String()); s != "" {
				topics = append(topics, s)
			}
		}
	}
	if len(topics) > 0 {
		replies = append(replies, ChatMessage{Sender: SenderBot, Text: chatTopicsHeader, Topics: topics})
	}

	if resources := NormalizeResources(data.Get("resources"), question); len(resources) > 0 {
		replies = append(replies, ChatMessage{Sender: SenderBot, Text: chatResourceHeader, Resources: resources})
	}
	return replies
}

// extractAnswer takes the first answer field that is present, even if empty.
func extractAnswer(data gjson.Result) string {
	for _, key := range answerKeys {
		if v := data.Get(key); v.Exists() && v.Type != gjson.Null {
			if s := v.String(); s != "" {
				return s
			}
			break
		}
	}
	return chatNoReply
}

func botText(text string) ChatMessage {
	return ChatMessage{Sender: SenderBot, Text: text}
}

// Messages returns a copy of the transcript.
func (w *ChatWidget) Messages() []ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]ChatMessage(nil), w.messages...)
}

// LatestTopics returns the chips of the most recent topic suggestion.
func (w *ChatWidget) LatestTopics() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := len(w.messages) - 1; i >= 0; i-- {
		if len(w.messages[i].Topics) > 0 {
			return append([]string(nil), w.messages[i].Topics...)
		}
	}
	return nil
}

func (w *ChatWidget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

func (w *ChatWidget) Title() string { return w.title }

func (w *ChatWidget) Collapsible() bool { return w.collapse }

// Toggle flips a collapsible widget between open and minimized. Minimizing
// hides the transcript but keeps it.
func (w *ChatWidget) Toggle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.collapse {
		w.open = !w.open
	}
}

// Open reports whether the transcript and input are visible.
func (w *ChatWidget) Open() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

func (w *ChatWidget) SetMeta(meta Meta) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.meta = meta
}

// Badges are the compact header badges: upper-cased level, "N wk" and style.
func (w *ChatWidget) Badges() []string {
	w.mu.Lock()
	meta := w.meta
	w.mu.Unlock()

	var badges []string
	if meta.Level != "" {
		badges = append(badges, strings.ToUpper(meta.Level))
	}
	if meta.Duration != "" {
		badges = append(badges, meta.Duration+" wk")
	}
	if meta.Style != "" {
		badges = append(badges, meta.Style)
	}
	return badges
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiHost = "generativelanguage.googleapis.com"

// GeminiGateway serves completions from Google Gemini.
type GeminiGateway struct {
	client *genai.Client
	model  string
}

func NewGeminiGateway(ctx context.Context, apiKey, model string) (*GeminiGateway, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGateway{client: client, model: model}, nil
}

func (g *GeminiGateway) Close() {
	g.client.Close()
}

func (g *GeminiGateway) Model() string { return g.model }
func (g *GeminiGateway) Host() string  { return geminiHost }

func (g *GeminiGateway) Complete(ctx context.Context, req GatewayRequest) (string, error) {
	system, history, last, err := splitForGemini(req.Messages)
	if err != nil {
		return "", &GatewayError{Op: "chat", Err: err}
	}

	// GenerativeModel carries per-request settings, so build one per call.
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(float32(req.Temperature))
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", &GatewayError{Op: "chat", Err: err}
	}

	return strings.TrimSpace(extractText(resp)), nil
}

// splitForGemini maps role/content messages onto Gemini's shape: system text
// becomes the system instruction, the final user turn is the prompt and the
// rest is chat history.
func splitForGemini(msgs []Message) (system string, history []*genai.Content, last string, err error) {
	var systemParts []string
	var turns []Message
	for _, m := range msgs {
		if m.Role == RoleSystem {
			systemParts = append(systemParts, m.Content)
			continue
		}
		turns = append(turns, m)
	}

	if len(turns) == 0 || turns[len(turns)-1].Role != RoleUser {
		return "", nil, "", errors.New("conversation must end with a user message")
	}

	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	return strings.Join(systemParts, "\n\n"), history, turns[len(turns)-1].Content, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

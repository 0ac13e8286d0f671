package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaGateway talks to a local Ollama server over its /api/chat endpoint.
type OllamaGateway struct {
	client *api.Client
	model  string
	host   string
}

func NewOllamaGateway(host, model string, timeout time.Duration) (*OllamaGateway, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama host %q: scheme and host are required", host)
	}

	return &OllamaGateway{
		client: api.NewClient(base, &http.Client{Timeout: timeout}),
		model:  model,
		host:   host,
	}, nil
}

func (g *OllamaGateway) Model() string { return g.model }
func (g *OllamaGateway) Host() string  { return g.host }

func (g *OllamaGateway) Complete(ctx context.Context, req GatewayRequest) (string, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model:    g.model,
		Messages: make([]api.Message, 0, len(req.Messages)),
		Stream:   &stream,
		Options:  map[string]any{"temperature": req.Temperature},
	}
	if req.JSON {
		chatReq.Format = json.RawMessage(`"json"`)
	}
	for _, m := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, api.Message{Role: m.Role, Content: m.Content})
	}

	var text strings.Builder
	err := g.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", &GatewayError{Op: "chat", Err: err}
	}

	return strings.TrimSpace(text.String()), nil
}

// Ping checks that the Ollama server is reachable.
func (g *OllamaGateway) Ping(ctx context.Context) error {
	if err := g.client.Heartbeat(ctx); err != nil {
		return &GatewayError{Op: "heartbeat", Err: err}
	}
	return nil
}

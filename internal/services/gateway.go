package services

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// GatewayRequest is a single non-streaming completion request.
type GatewayRequest struct {
	Messages    []Message
	JSON        bool // ask the model for a JSON document
	Temperature float64
}

// ModelGateway is the inference backend. Implementations return the full
// completion text of one assistant message.
type ModelGateway interface {
	Complete(ctx context.Context, req GatewayRequest) (string, error)
	Model() string
	Host() string
}

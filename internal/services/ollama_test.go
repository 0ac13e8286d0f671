package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGateway_Complete(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model":   "llama3",
			"message": map[string]string{"role": "assistant", "content": "  {\"answer\":\"hi\"}\n"},
			"done":    true,
		})
	}))
	defer server.Close()

	gw, err := NewOllamaGateway(server.URL, "llama3", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "llama3", gw.Model())
	assert.Equal(t, server.URL, gw.Host())

	text, err := gw.Complete(context.Background(), GatewayRequest{
		Messages:    tutorMessages("hello"),
		JSON:        true,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"hi"}`, text)

	assert.Equal(t, "llama3", got["model"])
	assert.Equal(t, false, got["stream"])
	assert.Equal(t, "json", got["format"])
	assert.Equal(t, 0.2, got["options"].(map[string]any)["temperature"])

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "hello", msgs[1].(map[string]any)["content"])
}

func TestOllamaGateway_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model \"llama3\" not found"}`))
	}))
	defer server.Close()

	gw, err := NewOllamaGateway(server.URL, "llama3", 5*time.Second)
	require.NoError(t, err)

	_, err = gw.Complete(context.Background(), GatewayRequest{Messages: tutorMessages("hello")})
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Contains(t, err.Error(), "not found")
}

func TestOllamaGateway_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	gw, err := NewOllamaGateway(url, "llama3", time.Second)
	require.NoError(t, err)

	_, err = gw.Complete(context.Background(), GatewayRequest{Messages: tutorMessages("hello")})
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)

	assert.Error(t, gw.Ping(context.Background()))
}

func TestNewOllamaGateway_RejectsBadHost(t *testing.T) {
	_, err := NewOllamaGateway("127.0.0.1:11434", "llama3", time.Second)
	assert.Error(t, err)
}

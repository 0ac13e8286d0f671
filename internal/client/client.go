// Package client is the frontend's HTTP transport to the course proxy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"coursegen-backend/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	// Slightly above the proxy's default gateway timeout.
	DefaultTimeout = 150 * time.Second
)

// StatusError is returned for any non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("proxy returned status %d", e.StatusCode)
}

func (e *StatusError) HTTPStatus() int { return e.StatusCode }

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Health(ctx context.Context) (models.HealthResponse, error) {
	var health models.HealthResponse
	body, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return health, err
	}
	if err := json.Unmarshal(body, &health); err != nil {
		return health, fmt.Errorf("failed to decode health response: %w", err)
	}
	return health, nil
}

// GenerateCourse returns the raw "course" value. The renderer reads it
// leniently, so it is not decoded here.
func (c *Client) GenerateCourse(ctx context.Context, req models.CourseRequest) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/generate-course", req)
	if err != nil {
		return nil, err
	}

	course := gjson.GetBytes(body, "course")
	if !course.Exists() || course.Type == gjson.Null {
		return nil, errors.New("response has no course")
	}
	return json.RawMessage(course.Raw), nil
}

// Chat posts one question and returns the raw reply body.
func (c *Client) Chat(ctx context.Context, message string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/api/chat", models.ChatRequest{Message: message})
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach proxy: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

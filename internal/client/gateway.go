package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"portfolio-chatbot/backend/internal/models"
)

// ErrUnexpectedStatus is returned when the gateway answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected gateway status")

// Gateway opens a response body for a conversation
type Gateway interface {
	Stream(ctx context.Context, messages []models.Message) (io.ReadCloser, error)
}

// GatewayClient talks to the chatbot endpoint over HTTP
type GatewayClient struct {
	http *resty.Client
}

// NewGatewayClient creates a client for the gateway at baseURL. A zero
// timeout leaves requests bounded only by their context.
func NewGatewayClient(baseURL string, timeout time.Duration) *GatewayClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &GatewayClient{http: c}
}

// Stream posts the conversation and returns the unread response body. Only
// role and content are sent for each message.
func (g *GatewayClient) Stream(ctx context.Context, messages []models.Message) (io.ReadCloser, error) {
	wire := make([]models.Message, len(messages))
	for i, m := range messages {
		wire[i] = m.Wire()
	}

	resp, err := g.http.R().
		SetContext(ctx).
		SetBody(models.ChatRequest{Messages: &wire}).
		SetDoNotParseResponse(true).
		Post("/api/chatbot")
	if err != nil {
		return nil, fmt.Errorf("post chatbot request: %w", err)
	}

	body := resp.RawBody()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		if body != nil {
			body.Close()
		}
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode())
	}
	return body, nil
}

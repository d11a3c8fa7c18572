package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"portfolio-chatbot/backend/internal/models"

	"github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the provider answers with no choices
var ErrEmptyCompletion = errors.New("provider returned no choices")

// Config configures an OpenAI-compatible provider
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// OpenAIProvider talks to any OpenAI-compatible chat-completion endpoint
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a provider from cfg
func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenAIProvider{client: openai.NewClientWithConfig(clientConfig)}
}

// Complete issues the request. When streaming is enabled the result is
// Streamed, otherwise Complete.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (Completion, error) {
	chatReq := toChatRequest(req)

	if req.Config.Stream {
		stream, err := p.client.CreateChatCompletionStream(ctx, chatReq)
		if err != nil {
			return nil, fmt.Errorf("create chat completion stream: %w", err)
		}
		return Streamed{Chunks: &openAIStream{stream: stream}}, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	return Complete{Message: models.Message{
		Role:    models.RoleAssistant,
		Content: resp.Choices[0].Message.Content,
	}}, nil
}

func toChatRequest(req Request) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	return openai.ChatCompletionRequest{
		Model:               req.Config.Model,
		Messages:            messages,
		Stream:              req.Config.Stream,
		MaxCompletionTokens: req.Config.MaxCompletionTokens,
		Temperature:         nonZero(req.Config.Temperature),
		TopP:                nonZero(req.Config.TopP),
	}
}

// nonZero keeps an explicit 0 on the wire; the SDK omits zero values, which
// would let the provider substitute its own default.
func nonZero(v float32) float32 {
	if v == 0 {
		return math.SmallestNonzeroFloat32
	}
	return v
}

// openAIStream adapts the SDK stream to ChunkStream
type openAIStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openAIStream) Recv() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *openAIStream) Close() error {
	s.stream.Close()
	return nil
}

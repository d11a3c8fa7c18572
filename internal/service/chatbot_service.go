package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"portfolio-chatbot/backend/internal/knowledge"
	"portfolio-chatbot/backend/internal/llm"
	"portfolio-chatbot/backend/internal/models"
	"portfolio-chatbot/backend/internal/prompt"
	"portfolio-chatbot/backend/pkg/logger"
	"portfolio-chatbot/backend/pkg/observability"
	"portfolio-chatbot/backend/pkg/resilience"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Request validation errors
var (
	ErrInvalidRequest = errors.New("invalid chatbot request")
	ErrNoMessages     = fmt.Errorf("%w: no user or assistant messages", ErrInvalidRequest)
)

// ChunkWriter receives relayed content deltas in generation order
type ChunkWriter interface {
	WriteChunk(p []byte) error
}

// ChatbotService brokers conversations between callers and the provider.
// It holds no per-request state and is safe for concurrent use.
type ChatbotService struct {
	provider llm.Provider
	kb       knowledge.KnowledgeBase
	config   models.ModelConfiguration
	breaker  *resilience.CircuitBreaker
	metrics  *observability.ChatbotMetrics
	tracer   trace.Tracer
	log      *logger.Logger
}

// Option customizes a ChatbotService
type Option func(*ChatbotService)

// WithBreaker guards provider calls with cb
func WithBreaker(cb *resilience.CircuitBreaker) Option {
	return func(s *ChatbotService) { s.breaker = cb }
}

// WithMetrics records relayed chunks on m
func WithMetrics(m *observability.ChatbotMetrics) Option {
	return func(s *ChatbotService) { s.metrics = m }
}

// WithTracer sets the tracer used for generation spans
func WithTracer(t trace.Tracer) Option {
	return func(s *ChatbotService) { s.tracer = t }
}

// WithLogger sets the service logger
func WithLogger(l *logger.Logger) Option {
	return func(s *ChatbotService) { s.log = l }
}

// NewChatbotService creates a service answering from kb with the given generation parameters
func NewChatbotService(provider llm.Provider, kb knowledge.KnowledgeBase, config models.ModelConfiguration, opts ...Option) *ChatbotService {
	s := &ChatbotService{
		provider: provider,
		kb:       kb,
		config:   config,
		metrics:  observability.NoopMetrics(),
		tracer:   otel.Tracer(observability.InstrumentationName),
		log:      logger.GetGlobal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("chatbot")
	return s
}

// Config returns the generation parameters used for every request
func (s *ChatbotService) Config() models.ModelConfiguration {
	return s.config
}

// Prepare builds the provider request: a freshly built system message
// followed by the caller's user and assistant messages. Caller-supplied
// system messages are dropped.
func (s *ChatbotService) Prepare(messages []models.Message) (llm.Request, error) {
	forwarded := make([]models.Message, 0, len(messages)+1)
	forwarded = append(forwarded, models.Message{
		Role:    models.RoleSystem,
		Content: prompt.Build(s.kb),
	})

	for i, m := range messages {
		if err := m.Validate(); err != nil {
			return llm.Request{}, fmt.Errorf("%w: message %d: %v", ErrInvalidRequest, i, err)
		}
		if m.Role == models.RoleSystem {
			continue
		}
		forwarded = append(forwarded, m.Wire())
	}

	if len(forwarded) == 1 {
		return llm.Request{}, ErrNoMessages
	}

	return llm.Request{Messages: forwarded, Config: s.config}, nil
}

// Generate calls the provider for messages. Streamed completions report
// their outcome to the circuit breaker when the stream ends, and the
// "chatbot.generate" span stays open until the stream is closed.
func (s *ChatbotService) Generate(ctx context.Context, messages []models.Message) (llm.Completion, error) {
	req, err := s.Prepare(messages)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "chatbot.generate", trace.WithAttributes(
		attribute.String("llm.model", req.Config.Model),
		attribute.Bool("llm.stream", req.Config.Stream),
		attribute.Int("chatbot.messages", len(req.Messages)),
	))

	completion, report, err := s.call(ctx, req)
	if err != nil {
		if !errors.Is(err, resilience.ErrCircuitOpen) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return nil, err
	}

	switch c := completion.(type) {
	case llm.Streamed:
		span.SetAttributes(attribute.String("llm.completion", "streamed"))
		return llm.Streamed{Chunks: &reportingStream{
			ChunkStream: c.Chunks,
			report:      report,
			span:        span,
			log:         s.log.WithContext(ctx),
		}}, nil
	case llm.Complete:
		span.SetAttributes(attribute.String("llm.completion", "complete"))
		span.End()
		return c, nil
	default:
		err := fmt.Errorf("unsupported completion type %T", completion)
		report(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return nil, err
	}
}

// call invokes the provider behind the breaker. Non-streamed calls are
// settled by the time call returns; a streamed call stays admitted until
// the returned report func is given the stream's outcome.
func (s *ChatbotService) call(ctx context.Context, req llm.Request) (llm.Completion, func(error), error) {
	settled := func(error) {}

	if s.breaker == nil {
		completion, err := s.provider.Complete(ctx, req)
		return completion, settled, err
	}

	if !req.Config.Stream {
		var completion llm.Completion
		err := s.breaker.Execute(func() error {
			var err error
			completion, err = s.provider.Complete(ctx, req)
			return err
		})
		return completion, settled, err
	}

	if err := s.breaker.Allow(); err != nil {
		return nil, settled, err
	}
	completion, err := s.provider.Complete(ctx, req)
	if err != nil {
		s.breaker.Record(err)
		return nil, settled, err
	}
	if _, ok := completion.(llm.Streamed); !ok {
		s.breaker.Record(nil)
		return completion, settled, nil
	}
	return completion, s.breaker.Record, nil
}

// Relay forwards every non-empty delta of completion to w and returns the
// number of chunks written. A complete message is written as one chunk.
// The completion's stream is closed on every path.
func (s *ChatbotService) Relay(ctx context.Context, completion llm.Completion, w ChunkWriter) (int, error) {
	var stream llm.ChunkStream
	switch c := completion.(type) {
	case llm.Streamed:
		stream = c.Chunks
	case llm.Complete:
		stream = llm.NewSliceStream(c.Message.Content)
	default:
		return 0, fmt.Errorf("unsupported completion type %T", completion)
	}
	defer stream.Close()

	written := 0
	defer func() { s.metrics.AddChunks(ctx, written) }()

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, fmt.Errorf("receive chunk: %w", err)
		}
		if delta == "" {
			continue
		}

		if err := w.WriteChunk([]byte(delta)); err != nil {
			return written, fmt.Errorf("write chunk: %w", err)
		}
		written++
	}
}

// reportingStream reports the stream's outcome once it reaches EOF or an
// error, and ends the generation span on Close. A stream closed before
// either is abandoned: nothing is reported, so a half-open breaker waits
// for a call that actually finishes.
type reportingStream struct {
	llm.ChunkStream
	report func(error)
	span   trace.Span
	log    *logger.Logger

	mu       sync.Mutex
	finished bool
	closed   bool
}

func (r *reportingStream) Recv() (string, error) {
	delta, err := r.ChunkStream.Recv()
	if err != nil {
		r.finish(err)
	}
	return delta, err
}

func (r *reportingStream) finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.finished = true

	if errors.Is(err, io.EOF) {
		r.report(nil)
		return
	}
	r.report(err)
	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, "stream failed")
}

func (r *reportingStream) Close() error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		if !r.finished {
			r.span.AddEvent("stream abandoned")
			r.log.Debug("Stream closed before completion")
		}
		r.span.End()
	}
	r.mu.Unlock()
	return r.ChunkStream.Close()
}

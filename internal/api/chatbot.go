package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-chatbot/backend/internal/models"
	"portfolio-chatbot/backend/internal/service"
	apperrors "portfolio-chatbot/backend/pkg/errors"
	"portfolio-chatbot/backend/pkg/logger"
	"portfolio-chatbot/backend/pkg/observability"
)

// ModeHTTP labels metrics for the chunked text transport
const ModeHTTP = "http"

// ChatbotHandler relays chatbot completions as a chunked text body
type ChatbotHandler struct {
	chatbot *service.ChatbotService
	metrics *observability.ChatbotMetrics
}

// NewChatbotHandler creates a new chatbot handler
func NewChatbotHandler(chatbot *service.ChatbotService, metrics *observability.ChatbotMetrics) *ChatbotHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics()
	}
	return &ChatbotHandler{chatbot: chatbot, metrics: metrics}
}

// RegisterRoutes registers the chatbot routes
func (h *ChatbotHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/api/chatbot", h.Handle)
}

// Handle answers one conversation turn. Headers are sent with the first
// non-empty chunk. Failures before that produce the generic JSON error;
// failures after it abort the connection so the caller sees a truncated body.
func (h *ChatbotHandler) Handle(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	log := logger.FromContext(c)

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, start, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
		return
	}
	if req.Messages == nil {
		h.fail(c, start, fmt.Errorf("%w: messages field is required", service.ErrInvalidRequest))
		return
	}

	completion, err := h.chatbot.Generate(ctx, *req.Messages)
	if err != nil {
		h.fail(c, start, err)
		return
	}

	w := &chunkedWriter{c: c}
	chunks, err := h.chatbot.Relay(ctx, completion, w)
	if err != nil {
		if !w.committed {
			h.fail(c, start, err)
			return
		}

		outcome := observability.OutcomeFailed
		if errors.Is(err, context.Canceled) {
			outcome = observability.OutcomeAborted
		}
		log.LogError(err, "Chatbot stream aborted", "chunks", chunks)
		h.metrics.RecordRequest(ctx, ModeHTTP, outcome, time.Since(start))
		panic(http.ErrAbortHandler)
	}

	// An empty completion still answers 200 with an empty body
	w.commit()
	h.metrics.RecordRequest(ctx, ModeHTTP, observability.OutcomeSuccess, time.Since(start))
	log.Debug("Chatbot response relayed", "chunks", chunks)
}

func (h *ChatbotHandler) fail(c *gin.Context, start time.Time, err error) {
	h.metrics.RecordRequest(c.Request.Context(), ModeHTTP, observability.OutcomeFailed, time.Since(start))
	_ = c.Error(apperrors.NewGenerationError(err))
}

// chunkedWriter writes deltas straight to the response and flushes each one
type chunkedWriter struct {
	c         *gin.Context
	committed bool
}

func (w *chunkedWriter) commit() {
	if w.committed {
		return
	}
	header := w.c.Writer.Header()
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	w.c.Status(http.StatusOK)
	w.c.Writer.WriteHeaderNow()
	w.committed = true
}

func (w *chunkedWriter) WriteChunk(p []byte) error {
	w.commit()
	if _, err := w.c.Writer.Write(p); err != nil {
		return err
	}
	w.c.Writer.Flush()
	return nil
}

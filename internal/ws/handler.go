package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"portfolio-chatbot/backend/internal/models"
	"portfolio-chatbot/backend/internal/service"
	apperrors "portfolio-chatbot/backend/pkg/errors"
	"portfolio-chatbot/backend/pkg/logger"
	"portfolio-chatbot/backend/pkg/observability"
	"portfolio-chatbot/backend/pkg/ws"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512 * 1024 // 512KB

	// ModeWebSocket labels metrics for the websocket transport
	ModeWebSocket = "websocket"
)

// Handler serves the chatbot exchange over a websocket. Each inbound text
// frame is a chat request; the reply is a run of chunk frames followed by
// a done or error frame.
type Handler struct {
	chatbot  *service.ChatbotService
	metrics  *observability.ChatbotMetrics
	upgrader websocket.Upgrader
	log      *logger.Logger
}

// NewHandler creates a websocket handler. An empty origin list or "*"
// accepts every origin.
func NewHandler(chatbot *service.ChatbotService, metrics *observability.ChatbotMetrics, allowedOrigins []string, log *logger.Logger) *Handler {
	if metrics == nil {
		metrics = observability.NoopMetrics()
	}
	if log == nil {
		log = logger.GetGlobal()
	}

	return &Handler{
		chatbot: chatbot,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin:      checkOrigin(allowedOrigins),
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
		log: log.WithComponent("ws"),
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// RegisterRoutes registers the websocket route
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/api/chatbot/ws", h.Serve)
}

// Serve upgrades the connection and runs it until the peer goes away
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already answered the request
		h.log.LogError(err, "Error upgrading connection")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	client := &client{
		id:      uuid.New().String(),
		conn:    conn,
		send:    make(chan []byte, 256),
		done:    make(chan struct{}),
		handler: h,
	}
	client.log = &logger.Logger{Logger: h.log.WithContext(c.Request.Context()).With("client_id", client.id)}
	client.log.Info("WebSocket connection established")

	go client.writePump()
	client.readPump(ctx)

	cancel()
	close(client.done)
	client.log.Info("WebSocket connection closed")
}

type client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	busy    atomic.Bool
	handler *Handler
	log     *logger.Logger
}

func (c *client) readPump(ctx context.Context) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.LogError(err, "Unexpected websocket close")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		// One exchange at a time per connection
		if !c.busy.CompareAndSwap(false, true) {
			c.log.Warn("Request received while an exchange is in progress")
			c.enqueue(ctx, ws.Error(apperrors.GenerationFailedMessage))
			continue
		}

		go func() {
			terminal, ok := c.exchange(ctx, data)
			// Free the connection before the peer can see the exchange end
			c.busy.Store(false)
			if ok {
				c.enqueue(ctx, terminal)
			}
		}()
	}
}

// exchange relays one request and returns the frame that ends it. No frame
// is returned when the connection went away mid-exchange.
func (c *client) exchange(ctx context.Context, data []byte) (ws.Frame, bool) {
	start := time.Now()
	h := c.handler

	fail := func(err error) (ws.Frame, bool) {
		h.metrics.RecordRequest(ctx, ModeWebSocket, observability.OutcomeFailed, time.Since(start))
		c.log.LogError(err, "Chatbot exchange failed")
		return ws.Error(apperrors.GenerationFailedMessage), true
	}

	var req models.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fail(fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
	}
	if req.Messages == nil {
		return fail(fmt.Errorf("%w: messages field is required", service.ErrInvalidRequest))
	}

	completion, err := h.chatbot.Generate(ctx, *req.Messages)
	if err != nil {
		return fail(err)
	}

	chunks, err := h.chatbot.Relay(ctx, completion, frameWriter{ctx: ctx, c: c})
	switch {
	case errors.Is(err, context.Canceled):
		h.metrics.RecordRequest(ctx, ModeWebSocket, observability.OutcomeAborted, time.Since(start))
		return ws.Frame{}, false
	case err != nil:
		return fail(err)
	}

	h.metrics.RecordRequest(ctx, ModeWebSocket, observability.OutcomeSuccess, time.Since(start))
	c.log.Debug("Chatbot response relayed", "chunks", chunks)
	return ws.Done(), true
}

// enqueue hands a frame to the write pump unless the connection is gone
func (c *client) enqueue(ctx context.Context, frame ws.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

type frameWriter struct {
	ctx context.Context
	c   *client
}

func (w frameWriter) WriteChunk(p []byte) error {
	return w.c.enqueue(w.ctx, ws.Chunk(string(p)))
}

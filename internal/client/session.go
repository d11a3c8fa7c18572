package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"portfolio-chatbot/backend/internal/models"
	"portfolio-chatbot/backend/pkg/logger"
)

// Session errors
var (
	ErrBusy         = errors.New("an exchange is already in progress")
	ErrEmptyInput   = errors.New("message is empty")
	ErrNoSuggestion = errors.New("no such suggested question")
)

const readBufferSize = 4096

// Session holds one visitor's transcript and drives exchanges with the
// gateway. The transcript only ever holds user and assistant messages.
type Session struct {
	mu       sync.Mutex
	gateway  Gateway
	store    Store
	machine  *Machine
	messages []models.Message
	hydrated bool

	now      func() time.Time
	onChange func()
	log      *logger.Logger
}

// SessionOption customizes a Session
type SessionOption func(*Session)

// WithClock sets the clock used for message IDs
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithOnChange registers a callback run after every transcript or state change
func WithOnChange(fn func()) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// WithSessionLogger sets the session logger
func WithSessionLogger(l *logger.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

// NewSession creates a session with an empty transcript. Changes are not
// persisted until Hydrate has run.
func NewSession(gateway Gateway, store Store, opts ...SessionOption) *Session {
	s := &Session{
		gateway:  gateway,
		store:    store,
		machine:  NewMachine(),
		messages: []models.Message{},
		now:      time.Now,
		onChange: func() {},
		log:      logger.GetGlobal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate replaces the transcript with the persisted one. A stored value
// that cannot be parsed leaves the transcript empty and is returned as an
// error; the stored value stays untouched until the next change.
func (s *Session) Hydrate(ctx context.Context) error {
	stored, found, err := s.store.Load(ctx)

	s.mu.Lock()
	s.hydrated = true
	if err != nil {
		s.messages = []models.Message{}
		s.mu.Unlock()
		s.onChange()
		return fmt.Errorf("hydrate transcript: %w", err)
	}
	if found {
		s.messages = conversational(stored)
	}
	s.mu.Unlock()

	s.onChange()
	return nil
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// State returns the exchange phase
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// SuggestedQuestions returns the canned questions
func (s *Session) SuggestedQuestions() []string {
	return SuggestedQuestions()
}

// SelectSuggestion sends the i-th suggested question as if typed
func (s *Session) SelectSuggestion(ctx context.Context, i int) error {
	if i < 0 || i >= len(suggestedQuestions) {
		return fmt.Errorf("%w: %d", ErrNoSuggestion, i)
	}
	return s.Send(ctx, suggestedQuestions[i])
}

// Send appends text as a user message and streams the reply into a new
// assistant message. On a network, status or read failure the reply is
// replaced with ApologyMessage and the cause is returned.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}

	s.mu.Lock()
	if s.machine.State() != StateIdle {
		s.mu.Unlock()
		return ErrBusy
	}

	ts := s.now().UnixMilli()
	user := models.Message{ID: strconv.FormatInt(ts, 10), Role: models.RoleUser, Content: text}
	replyID := strconv.FormatInt(ts+1, 10)

	outbound := make([]models.Message, 0, len(s.messages)+1)
	outbound = append(outbound, s.messages...)
	outbound = append(outbound, user)

	s.messages = append(s.messages, user, models.Message{ID: replyID, Role: models.RoleAssistant})
	if err := s.machine.fire(triggerSend); err != nil {
		s.mu.Unlock()
		return err
	}
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.onChange()

	body, err := s.gateway.Stream(ctx, outbound)
	if err != nil {
		s.fail(ctx, replyID, err)
		return err
	}
	defer body.Close()

	s.transition(triggerOpened)

	var dec utf8Decoder
	buf := make([]byte, readBufferSize)
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			s.appendReply(ctx, replyID, dec.Decode(buf[:n]))
		}
		if errors.Is(rerr, io.EOF) {
			s.appendReply(ctx, replyID, dec.Flush())
			s.transition(triggerFinish)
			return nil
		}
		if rerr != nil {
			err := fmt.Errorf("read response: %w", rerr)
			s.fail(ctx, replyID, err)
			return err
		}
	}
}

// Clear empties the transcript and deletes the persisted value
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.machine.State() != StateIdle {
		s.mu.Unlock()
		return ErrBusy
	}
	s.messages = []models.Message{}
	s.mu.Unlock()

	err := s.store.Delete(ctx)
	s.onChange()
	if err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

func (s *Session) appendReply(ctx context.Context, id, text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	if !s.updateLocked(id, func(m *models.Message) { m.Content += text }) {
		s.mu.Unlock()
		return
	}
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.onChange()
}

func (s *Session) fail(ctx context.Context, id string, cause error) {
	s.log.LogError(cause, "Chatbot exchange failed")

	s.mu.Lock()
	s.updateLocked(id, func(m *models.Message) { m.Content = ApologyMessage })
	s.fireLocked(triggerFail)
	s.persistLocked(ctx)
	s.fireLocked(triggerRecover)
	s.mu.Unlock()
	s.onChange()
}

func (s *Session) transition(t trigger) {
	s.mu.Lock()
	s.fireLocked(t)
	s.mu.Unlock()
	s.onChange()
}

func (s *Session) fireLocked(t trigger) {
	if err := s.machine.fire(t); err != nil {
		s.log.LogError(err, "Invalid session transition", "trigger", string(t))
	}
}

func (s *Session) updateLocked(id string, fn func(*models.Message)) bool {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			fn(&s.messages[i])
			return true
		}
	}
	return false
}

func (s *Session) persistLocked(ctx context.Context) {
	if !s.hydrated {
		return
	}
	// A cancelled exchange still records its apology
	if err := s.store.Save(context.WithoutCancel(ctx), s.messages); err != nil {
		s.log.LogError(err, "Failed to persist transcript")
	}
}

func conversational(messages []models.Message) []models.Message {
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

package ui

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-chatbot/backend/internal/client"
	"portfolio-chatbot/backend/internal/models"
	"portfolio-chatbot/backend/pkg/logger"
)

type cannedGateway struct {
	reply string
	asked []models.Message
}

func (g *cannedGateway) Stream(_ context.Context, messages []models.Message) (io.ReadCloser, error) {
	g.asked = messages
	return io.NopCloser(strings.NewReader(g.reply)), nil
}

func newModel(t *testing.T, gw client.Gateway) (Model, *client.MemoryStore) {
	t.Helper()
	store := client.NewMemoryStore()
	session := client.NewSession(gw, store, client.WithSessionLogger(logger.Discard()))
	require.NoError(t, session.Hydrate(context.Background()))
	return New(session, Options{AssistantName: "Rangga", PlainText: true}), store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestEmptyTranscriptShowsWelcomeAndSuggestions(t *testing.T) {
	m, _ := newModel(t, &cannedGateway{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Rangga's AI assistant")
	for _, q := range client.SuggestedQuestions() {
		assert.Contains(t, view, q)
	}
}

func TestSuggestionKeySendsQuestion(t *testing.T) {
	gw := &cannedGateway{reply: "Go, Python and Kubernetes."}
	m, store := newModel(t, gw)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 30})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "thinking")

	m, _ = update(t, m, cmd())

	view := m.View()
	assert.Contains(t, view, "What are your main skills?")
	assert.Contains(t, view, "Go, Python and Kubernetes.")
	assert.NotContains(t, view, "thinking")

	require.Len(t, gw.asked, 1)
	assert.Equal(t, "What are your main skills?", gw.asked[0].Content)

	_, ok := store.Raw()
	assert.True(t, ok)
}

func TestEnterSendsTypedText(t *testing.T) {
	gw := &cannedGateway{reply: "Hello!"}
	m, _ := newModel(t, gw)

	m.input.SetValue("Hi there")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())

	m, _ = update(t, m, cmd())
	assert.Contains(t, m.View(), "Hello!")
	assert.Equal(t, "Hi there", gw.asked[0].Content)
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	m, _ := newModel(t, &cannedGateway{})

	m.input.SetValue("   ")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestClearKeyEmptiesTranscript(t *testing.T) {
	m, store := newModel(t, &cannedGateway{reply: "Hello!"})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 30})

	m.input.SetValue("Hi")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())
	require.Contains(t, m.View(), "Hello!")

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.NotContains(t, m.View(), "Hello!")
	assert.Contains(t, m.View(), "Rangga's AI assistant")
	_, ok := store.Raw()
	assert.False(t, ok)
}

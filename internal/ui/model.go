// Package ui renders a conversation Session as a terminal chat window.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"portfolio-chatbot/backend/internal/client"
	"portfolio-chatbot/backend/internal/models"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 4 // title, status line, input, spacing
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Options configures the chat window
type Options struct {
	// AssistantName is used in the welcome text and message labels
	AssistantName string
	// Updates signals session changes; usually fed by client.WithOnChange
	Updates <-chan struct{}
	// Notice is shown in the status line until the first exchange, e.g. a hydrate failure
	Notice string
	// PlainText disables markdown rendering of replies
	PlainText bool
}

type changedMsg struct{}

type sendDoneMsg struct{ err error }

type clearDoneMsg struct{ err error }

// Model is the bubbletea model of the chat window
type Model struct {
	session  *client.Session
	opts     Options
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	messages []models.Message
	state    client.State
	notice   string
	width    int
}

// New creates the chat window for session
func New(session *client.Session, opts Options) Model {
	if opts.AssistantName == "" {
		opts.AssistantName = "the site owner"
	}

	ti := textinput.New()
	ti.Placeholder = "Ask me anything..."
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = assistantStyle

	m := Model{
		session:  session,
		opts:     opts,
		input:    ti,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		spinner:  sp,
		messages: session.Messages(),
		state:    session.State(),
		notice:   opts.Notice,
		width:    defaultWidth,
	}
	m.renderer = m.newRenderer()
	m.refresh()
	return m
}

func (m Model) newRenderer() *glamour.TermRenderer {
	if m.opts.PlainText {
		return nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(m.width-4),
	)
	if err != nil {
		// Plain text is still readable
		return nil
	}
	return r
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForChange())
}

func (m Model) waitForChange() tea.Cmd {
	if m.opts.Updates == nil {
		return nil
	}
	updates := m.opts.Updates
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.renderer = m.newRenderer()
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+l":
			cmd := m.clear()
			return m, cmd
		case "enter":
			cmd := m.submit()
			return m, cmd
		case "1", "2", "3", "4":
			if len(m.messages) == 0 && m.input.Value() == "" && m.idle() {
				i := int(msg.Runes[0] - '1')
				session := m.session
				cmd := m.send(func(ctx context.Context) error {
					return session.SelectSuggestion(ctx, i)
				})
				return m, cmd
			}
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case changedMsg:
		m.sync()
		cmds = append(cmds, m.waitForChange())

	case sendDoneMsg:
		// Failures are already visible as the apology reply
		m.sync()

	case clearDoneMsg:
		if msg.err != nil {
			m.notice = "Could not clear the conversation history"
		}
		m.sync()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) idle() bool {
	return m.state == client.StateIdle
}

func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || !m.idle() {
		return nil
	}
	m.input.Reset()
	session := m.session
	return m.send(func(ctx context.Context) error {
		return session.Send(ctx, text)
	})
}

func (m *Model) send(fn func(context.Context) error) tea.Cmd {
	m.notice = ""
	// Reflect the pending exchange right away; the session confirms it
	m.state = client.StateSending
	return func() tea.Msg {
		return sendDoneMsg{err: fn(context.Background())}
	}
}

func (m *Model) clear() tea.Cmd {
	if !m.idle() {
		return nil
	}
	session := m.session
	return func() tea.Msg {
		return clearDoneMsg{err: session.Clear(context.Background())}
	}
}

func (m *Model) sync() {
	m.messages = m.session.Messages()
	m.state = m.session.State()
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m Model) transcript() string {
	var b strings.Builder

	if len(m.messages) == 0 {
		b.WriteString(assistantStyle.Render(m.opts.AssistantName) + "\n")
		b.WriteString(client.WelcomeMessage(m.opts.AssistantName) + "\n\n")
		for i, q := range client.SuggestedQuestions() {
			fmt.Fprintf(&b, "  %s %s\n", hintStyle.Render(fmt.Sprintf("[%d]", i+1)), q)
		}
		return b.String()
	}

	for _, msg := range m.messages {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString(userStyle.Render("You") + "\n")
			b.WriteString(msg.Content + "\n\n")
		case models.RoleAssistant:
			b.WriteString(assistantStyle.Render(m.opts.AssistantName) + "\n")
			b.WriteString(m.renderReply(msg.Content) + "\n\n")
		}
	}
	return b.String()
}

func (m Model) renderReply(content string) string {
	if content == "" {
		return hintStyle.Render("...")
	}
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(out)
}

// View implements tea.Model
func (m Model) View() string {
	var status string
	switch {
	case !m.idle():
		status = m.spinner.View() + " thinking"
	case m.notice != "":
		status = noticeStyle.Render(m.notice)
	case len(m.messages) == 0:
		status = hintStyle.Render("1-4 pick a question · enter send · ctrl+l clear · esc quit")
	default:
		status = hintStyle.Render("enter send · ctrl+l clear · pgup/pgdown scroll · esc quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Chat with "+m.opts.AssistantName),
		m.viewport.View(),
		status,
		m.input.View(),
	)
}

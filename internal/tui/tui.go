// Package tui provides the interviewee chat interface using Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/intervu/internal/engine"
	"github.com/spigell/intervu/internal/interview"
	"github.com/spigell/intervu/internal/question"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	timerStyle = lipgloss.NewStyle().
			Bold(true)

	timerLowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// Message types
type tickMsg time.Time
type uploadedMsg struct{ err error }

// Model is the interviewee chat TUI model.
type Model struct {
	engine *engine.Engine

	session   *interview.Session
	final     *interview.Session
	remaining int
	paused    bool

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool
	notice   string
}

// New creates the chat model over a loaded engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Placeholder = "Type your answer..."
	ti.CharLimit = 2000
	ti.Width = 60
	ti.Focus()

	return Model{
		engine:  eng,
		session: eng.ActiveSession(),
		input:   ti,
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+p":
			if paused, err := m.engine.TogglePause(context.Background()); err == nil {
				m.paused = paused
			}
			return m, nil
		case "enter":
			return m.submit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 5
		footerHeight := 5
		m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight)
		m.ready = true
		m.refresh()

	case tickMsg:
		m.refresh()
		if m.session == nil {
			// Completed sessions keep the last transcript on screen.
			return m, nil
		}
		cmds = append(cmds, tickCmd())

	case uploadedMsg:
		if msg.err != nil {
			m.notice = "Error processing file. Please try again."
		} else {
			m.notice = ""
		}
		m.refresh()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit routes the typed line: /upload commands go to the resume path,
// everything else is a field or question answer.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")

	if path, ok := strings.CutPrefix(text, "/upload "); ok {
		return m, uploadCmd(m.engine, strings.TrimSpace(path))
	}

	if m.session == nil {
		return m, nil
	}

	if err := m.engine.SubmitMessage(context.Background(), text); err != nil {
		m.notice = err.Error()
	} else {
		m.notice = ""
	}

	m.refresh()
	return m, nil
}

func (m *Model) refresh() {
	m.remaining = m.engine.Remaining()

	if session := m.engine.ActiveSession(); session != nil {
		m.session = session
		m.paused = session.Paused
	} else {
		if m.session != nil && m.final == nil {
			// The session finalized and moved to the roster; keep its final
			// transcript for the completion screen.
			for _, s := range m.engine.Roster() {
				if s.ID == m.session.ID {
					m.final = s
					break
				}
			}
		}
		m.session = nil
	}

	if m.ready {
		if m.session != nil {
			m.viewport.SetContent(m.renderTranscript(m.session))
			m.viewport.GotoBottom()
		} else if m.final != nil {
			m.viewport.SetContent(m.renderTranscript(m.final))
			m.viewport.GotoBottom()
		}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if !m.ready {
		return "\n  Loading..."
	}

	if m.session == nil {
		return m.viewCompleted()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("intervu - "+m.session.Role+" interview") + "\n")
	b.WriteString(infoStyle.Render("  "+m.headerLine()) + "\n\n")

	b.WriteString(boxStyle.Width(m.width - 4).Render(m.viewport.View()) + "\n")

	if line := m.timerLine(); line != "" {
		b.WriteString("  " + line + "\n")
	}

	if m.notice != "" {
		b.WriteString("  " + errorStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n  " + m.input.View() + "\n")
	b.WriteString(helpStyle.Render("  " + m.helpLine()))

	return b.String()
}

func (m Model) viewCompleted() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("intervu - interview completed") + "\n\n")
	if m.final != nil {
		b.WriteString(boxStyle.Width(m.width - 4).Render(m.viewport.View()) + "\n")
	}
	b.WriteString(infoStyle.Render("  The session has been saved to the roster.") + "\n")
	b.WriteString(infoStyle.Render("  Run 'intervu review' to inspect the results.") + "\n")
	b.WriteString(helpStyle.Render("  esc: quit"))
	return b.String()
}

func (m Model) headerLine() string {
	name := m.session.Name
	if name == "" {
		name = "Candidate"
	}

	if m.session.Phase != interview.PhaseQuestioning {
		return name
	}

	return fmt.Sprintf("%s │ Question %d of %d │ Score: %d/%d",
		name,
		m.session.CurrentQuestionIndex+1, len(m.session.Questions),
		m.session.TotalScore, question.MaxTotalScore(),
	)
}

func (m Model) timerLine() string {
	if m.session.CurrentQuestion() == nil {
		return ""
	}

	if m.paused {
		return timerStyle.Render(fmt.Sprintf("Paused │ Time Left: %ds", m.remaining))
	}

	style := timerStyle
	if m.remaining <= 10 {
		style = timerLowStyle
	}
	return style.Render(fmt.Sprintf("Time Left: %ds", m.remaining))
}

func (m Model) helpLine() string {
	if m.session.Phase == interview.PhaseFieldCollection && !m.session.ResumeUploaded {
		return "upload your resume: /upload path/to/resume.pdf │ esc: quit"
	}
	return "enter: send │ ctrl+p: pause/resume │ esc: quit"
}

func (m Model) renderTranscript(session *interview.Session) string {
	var b strings.Builder
	for _, msg := range session.ChatHistory {
		switch msg.Origin {
		case interview.OriginUser:
			b.WriteString(userStyle.Render("You: ") + msg.Text + "\n")
		case interview.OriginBot:
			b.WriteString(botStyle.Render("Interviewer: ") + msg.Text + "\n")
		default:
			b.WriteString(systemStyle.Render(msg.Text) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Commands

func uploadCmd(eng *engine.Engine, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return uploadedMsg{err: err}
		}
		return uploadedMsg{err: eng.UploadResume(context.Background(), data, path)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the chat TUI over the engine.
func Run(eng *engine.Engine) error {
	p := tea.NewProgram(New(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

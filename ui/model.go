// Package ui renders a live terminal view of the orchestrator: turn state,
// transcripts, exchanges, and screening decisions.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/mkovacic/halo-core/core"
)

const maxLogLines = 200

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	stateStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	recordingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// StateChangedMsg reports a turn state transition.
type StateChangedMsg struct {
	From orchestration.TurnState
	To   orchestration.TurnState
}

// TranscriptMsg reports user speech. Interim transcripts overwrite each
// other; a final clears the interim line. The user's text is logged once per
// turn from the exchange, not from here.
type TranscriptMsg struct {
	Text    string
	Interim bool
}

// ExchangeMsg reports a completed conversation exchange.
type ExchangeMsg struct {
	Exchange orchestration.ConversationExchange
}

// RecordingMsg reports recording session open/close.
type RecordingMsg struct {
	Active bool
}

// CallScreenedMsg reports a call screening decision.
type CallScreenedMsg struct {
	Call     orchestration.CallEvent
	Decision orchestration.CallDecision
}

// SMSTriagedMsg reports an SMS triage outcome.
type SMSTriagedMsg struct {
	SMS    orchestration.SMSEvent
	Action orchestration.SMSAction
}

// ErrorMsg reports a non-fatal orchestrator error.
type ErrorMsg struct {
	Err error
}

type Model struct {
	spinner spinner.Model

	width     int
	state     orchestration.TurnState
	recording bool
	interim   string
	lastError string
	log       []string
	quitting  bool
}

func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		spinner: s,
		width:   80,
		state:   orchestration.TurnStateIdle,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StateChangedMsg:
		m.state = msg.To
		if msg.To != orchestration.TurnStateError {
			m.lastError = ""
		}
		return m, nil

	case TranscriptMsg:
		if msg.Interim {
			m.interim = msg.Text
			return m, nil
		}
		m.interim = ""
		return m, nil

	case ExchangeMsg:
		m.interim = ""
		m.appendLog(userStyle.Render("you: ") + msg.Exchange.InputText)
		line := assistantStyle.Render("halo: ") + msg.Exchange.ReplyText
		if msg.Exchange.Fallback {
			line += dimStyle.Render(" (fallback)")
		}
		m.appendLog(line)
		return m, nil

	case RecordingMsg:
		m.recording = msg.Active
		return m, nil

	case CallScreenedMsg:
		m.appendLog(dimStyle.Render(fmt.Sprintf("call from %s: %s", msg.Call.CallerID, describeCallDecision(msg.Decision))))
		return m, nil

	case SMSTriagedMsg:
		if msg.Action.Reply {
			m.appendLog(dimStyle.Render(fmt.Sprintf("sms from %s: auto-replied %q", msg.SMS.Sender, msg.Action.ReplyText)))
		} else {
			m.appendLog(dimStyle.Render(fmt.Sprintf("sms from %s: no action", msg.SMS.Sender)))
		}
		return m, nil

	case ErrorMsg:
		if msg.Err != nil {
			m.lastError = msg.Err.Error()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("halo"))
	b.WriteString("  ")
	b.WriteString(m.renderState())
	if m.recording {
		b.WriteString("  ")
		b.WriteString(recordingStyle.Render("● rec"))
	}
	b.WriteString("\n\n")

	for _, line := range m.tailLog(12) {
		b.WriteString(wordwrap.String(line, max(m.width-2, 20)))
		b.WriteString("\n")
	}

	if m.interim != "" {
		b.WriteString(dimStyle.Render(wordwrap.String("… "+m.interim, max(m.width-2, 20))))
		b.WriteString("\n")
	}

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(wordwrap.String(m.lastError, max(m.width-2, 20))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderState() string {
	switch m.state {
	case orchestration.TurnStateInitializing, orchestration.TurnStateProcessing:
		return m.spinner.View() + stateStyle.Render(string(m.state))
	case orchestration.TurnStateError:
		return errorStyle.Render(string(m.state))
	default:
		return stateStyle.Render(string(m.state))
	}
}

func (m *Model) appendLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m Model) tailLog(n int) []string {
	if len(m.log) <= n {
		return m.log
	}
	return m.log[len(m.log)-n:]
}

func describeCallDecision(decision orchestration.CallDecision) string {
	switch {
	case decision.Reject:
		return "rejected (" + decision.Reason + ")"
	case decision.Silence:
		return "silenced (" + decision.Reason + ")"
	default:
		return "allowed (" + decision.Reason + ")"
	}
}

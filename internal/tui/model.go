package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kubev2v/loopbridge/internal/config"
	"github.com/kubev2v/loopbridge/internal/demo"
	"github.com/kubev2v/loopbridge/pkg/bridge"
)

const maxLines = 12

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	labelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 2).
			Width(30)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// lines keeps the last console lines for the view. Workers write to it
// concurrently with View.
type lines struct {
	mu  sync.Mutex
	buf []string
}

func (l *lines) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		l.buf = append(l.buf, s)
	}
	if over := len(l.buf) - maxLines; over > 0 {
		l.buf = l.buf[over:]
	}
	return len(p), nil
}

func (l *lines) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.buf, "\n")
}

// Model is the interactive demo: every key starts one of the bridge
// patterns, and their callbacks come back through the Scheduler.
type Model struct {
	sched   *Scheduler
	bridge  *bridge.Bridge
	cfg     config.Demo
	console *demo.Console
	label   *demo.Label
	log     *lines
	clicker *demo.Clicker
	spinner spinner.Model

	producing bool
	slow      bool
	status    string
}

func NewModel(sched *Scheduler, b *bridge.Bridge, cfg config.Demo) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	log := &lines{}
	console := demo.NewConsole(log)
	return &Model{
		sched:   sched,
		bridge:  b,
		cfg:     cfg,
		console: console,
		label:   demo.NewLabel(console),
		log:     log,
		clicker: demo.LoopToThread(b, console, cfg.WorkDuration),
		spinner: sp,
		status:  "idle",
	}
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.sched.Dispatch(msg) {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "p":
		if m.producing {
			return nil
		}
		m.producing = true
		m.status = "producer running"
		demo.ThreadToLoop(m.bridge, m.console, m.label, m.cfg.Messages, m.cfg.MessageInterval, func(err error) {
			m.producing = false
			m.status = "producer finished"
			if err != nil {
				m.status = fmt.Sprintf("producer failed: %v", err)
			}
		})
	case "c":
		if err := m.clicker.Click(); err != nil {
			m.status = fmt.Sprintf("click refused: %v", err)
			return nil
		}
		m.status = fmt.Sprintf("%d clicks", m.clicker.Clicks())
	case "s":
		if m.slow {
			return nil
		}
		m.slow = true
		m.status = "slow worker running"
		demo.IsAlive(m.bridge, m.console, m.cfg.SlowSteps, m.cfg.WorkDuration, func(err error) {
			m.slow = false
			m.status = "I'm ready!"
			if err != nil {
				m.status = fmt.Sprintf("slow worker failed: %v", err)
			}
		})
	case "b":
		demo.StartBlocking(m.bridge, m.console, m.cfg.WorkDuration)
		m.status = "blocking call started"
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder

	header := "loopbridge"
	if m.bridge.Group().Running() > 1 {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	text := m.label.Text()
	if text == "" {
		text = "-"
	}
	b.WriteString(labelStyle.Render(text))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n\n")
	b.WriteString(logStyle.Render(m.log.String()))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("p: produce  c: click  s: slow work  b: blocking call  q: quit"))
	b.WriteString("\n")
	return b.String()
}

// Label returns the loop-owned label shown by the view.
func (m *Model) Label() *demo.Label { return m.label }

func (m *Model) Clicker() *demo.Clicker { return m.clicker }

func (m *Model) Status() string { return m.status }

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pyrefs/internal/driver"
)

// recentLimit is how many finished files stay listed under the bar.
const recentLimit = 8

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// outcome is how one file of the scan ended.
type outcome uint8

const (
	outcomeOK outcome = iota
	outcomeUnrecoverable
	outcomeFailed
)

type fileItem struct {
	path    string
	outcome outcome
	refs    int
}

func (it fileItem) mark() string {
	switch it.outcome {
	case outcomeFailed:
		return errStyle.Render("✗")
	case outcomeUnrecoverable:
		return warnStyle.Render("!")
	}
	return okStyle.Render("✓")
}

func (it fileItem) label() string {
	switch it.outcome {
	case outcomeFailed:
		return "error"
	case outcomeUnrecoverable:
		return "unrecoverable"
	}
	return fmt.Sprintf("%d refs", it.refs)
}

type progressModel struct {
	title   string
	events  <-chan driver.ProgressEvent
	spinner spinner.Model
	bar     progress.Model

	total, done int
	refs        int
	unrecovered int
	failed      int
	recent      []fileItem
	width       int
	finished    bool
	interrupted bool
}

type eventMsg driver.ProgressEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that shows a directory scan
// from its progress events until the channel is closed.
func NewProgressModel(title string, total int, events <-chan driver.ProgressEvent) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = okStyle
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(60)),
		total:   total,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.record(driver.ProgressEvent(msg)), m.next())
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		// в raw-режиме ctrl+c приходит клавишей, а не сигналом
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 20)
		m.bar.Width = min(m.width-4, 80)
	case spinner.TickMsg:
		if !m.finished {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	var b strings.Builder

	lead := m.spinner.View()
	if m.finished {
		lead = okStyle.Render("✓")
	}
	fmt.Fprintf(&b, "%s %s %s\n", lead, titleStyle.Render(m.title),
		dimStyle.Render(fmt.Sprintf("%d/%d files", m.done, m.total)))

	if m.finished {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.counters())
	b.WriteString("\n\n")

	const labelWidth = 14
	pathWidth := max(m.width-labelWidth-6, 10)
	for _, it := range m.recent {
		fmt.Fprintf(&b, "  %s %-*s %s\n", it.mark(),
			pathWidth, truncate(it.path, pathWidth), dimStyle.Render(it.label()))
	}
	return b.String()
}

// counters renders "12 refs", followed by the problem counts that are not
// zero.
func (m *progressModel) counters() string {
	parts := []string{fmt.Sprintf("%d refs", m.refs)}
	if m.unrecovered > 0 {
		parts = append(parts, warnStyle.Render(fmt.Sprintf("%d unrecoverable", m.unrecovered)))
	}
	if m.failed > 0 {
		parts = append(parts, errStyle.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	return strings.Join(parts, dimStyle.Render(" · "))
}

// Interrupted reports whether the user stopped the view with ctrl+c.
func Interrupted(model tea.Model) bool {
	m, ok := model.(*progressModel)
	return ok && m.interrupted
}

// next waits for the following progress event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) record(ev driver.ProgressEvent) tea.Cmd {
	m.done = ev.Done
	if ev.Total > 0 {
		m.total = ev.Total
	}
	it := fileItem{path: ev.Path, refs: ev.Refs}
	switch {
	case ev.Err != nil:
		it.outcome = outcomeFailed
		m.failed++
	case ev.Unrecoverable:
		it.outcome = outcomeUnrecoverable
		m.unrecovered++
	default:
		m.refs += ev.Refs
	}
	m.recent = append(m.recent, it)
	if n := len(m.recent) - recentLimit; n > 0 {
		m.recent = m.recent[n:]
	}
	if m.total == 0 {
		return nil
	}
	return m.bar.SetPercent(float64(m.done) / float64(m.total))
}

// truncate cuts value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0, runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

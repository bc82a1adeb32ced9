package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/alexanderramin/tempo/internal/tracker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type watchKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Stop    key.Binding
	StopAll key.Binding
	Quit    key.Binding
}

func defaultWatchKeys() watchKeyMap {
	return watchKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Stop:    key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "stop")),
		StopAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "stop all")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Stop, k.StopAll, k.Quit}
}

type (
	tickMsg time.Time
	// trackerChangedMsg arrives when another writer changed tracker state.
	trackerChangedMsg struct{}
	stoppedMsg        struct {
		entries []domain.TimeEntry
		err     error
	}
)

// watchModel shows running timers and refreshes once per second.
type watchModel struct {
	ctx     context.Context
	app     *App
	keys    watchKeyMap
	changes <-chan struct{}

	running []domain.TimeEntry
	idx     formatter.ActivityIndex
	today   float64
	now     time.Time
	cursor  int
	status  string

	width    int
	quitting bool
}

func newWatchModel(ctx context.Context, app *App, changes <-chan struct{}) watchModel {
	m := watchModel{
		ctx:     ctx,
		app:     app,
		keys:    defaultWatchKeys(),
		changes: changes,
	}
	m.reload()
	return m
}

// subscribeChanges forwards tracker events to a coalescing channel. The
// returned func unsubscribes and closes the channel.
func subscribeChanges(tr service.TrackerService) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	var (
		mu     sync.Mutex
		closed bool
	)
	unsubscribe := tr.Subscribe(tracker.ObserverFunc(func(tracker.Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	}))
	return ch, func() {
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
}

func (m *watchModel) reload() {
	m.now = m.app.Tracker.Now()
	m.running = m.app.Tracker.Running(m.ctx)
	m.idx = formatter.NewActivityIndex(m.app.Tracker.ListActivities(m.ctx))
	m.today = m.app.Tracker.DailySummary(m.ctx, m.now).TotalMinutes
	if m.cursor >= len(m.running) {
		m.cursor = max(len(m.running)-1, 0)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return trackerChangedMsg{}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(tick(), waitForChange(m.changes))
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.reload()
		return m, tick()

	case trackerChangedMsg:
		m.reload()
		return m, waitForChange(m.changes)

	case stoppedMsg:
		if msg.err != nil {
			m.status = formatter.StyleRed.Render("Error: " + msg.err.Error())
		} else {
			m.status = m.stoppedStatus(msg.entries)
		}
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m watchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.running)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Stop):
		if len(m.running) == 0 {
			return m, nil
		}
		activityID := m.running[m.cursor].ActivityID
		return m, m.stopCmd(func(ctx context.Context) ([]domain.TimeEntry, error) {
			e, err := m.app.Tracker.Stop(ctx, activityID)
			if err != nil {
				return nil, err
			}
			return []domain.TimeEntry{e}, nil
		})

	case key.Matches(msg, m.keys.StopAll):
		if len(m.running) == 0 {
			return m, nil
		}
		return m, m.stopCmd(m.app.Tracker.StopAll)
	}
	return m, nil
}

func (m watchModel) stopCmd(stop func(context.Context) ([]domain.TimeEntry, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		entries, err := stop(ctx)
		return stoppedMsg{entries: entries, err: err}
	}
}

func (m watchModel) stoppedStatus(entries []domain.TimeEntry) string {
	names := make([]string, 0, len(entries))
	var total float64
	for _, e := range entries {
		names = append(names, m.idx.Label(e.ActivityID))
		total += e.Minutes(m.now)
	}
	return fmt.Sprintf("%s Stopped %s (%s)", formatter.StyleRed.Render("■"),
		strings.Join(names, ", "), formatter.FormatMinutes(total))
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}
	width := max(m.width, 40)
	loc := m.app.Tracker.Location()

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("tempo"))
	b.WriteString(" " + formatter.Dim("›") + " " + formatter.Dim("watch"))
	b.WriteString("  " + formatter.Dim(m.now.In(loc).Format("Mon 02 Jan 15:04:05")))
	b.WriteString("\n" + formatter.Dim(strings.Repeat("─", width)) + "\n")

	if len(m.running) == 0 {
		b.WriteString(formatter.Dim("No timers running.") + "\n")
	}
	for i, e := range m.running {
		pointer := "  "
		if i == m.cursor {
			pointer = formatter.StyleHeader.Render("› ")
		}
		line := fmt.Sprintf("%s%s  %s  %s",
			pointer,
			m.idx.Label(e.ActivityID),
			formatter.Bold(formatter.Clock(m.now.Sub(e.StartTime))),
			formatter.Countdown(e, m.now),
		)
		if gauge := formatter.PlanProgress(e, m.now, 12); gauge != "" {
			line += "  " + gauge
		}
		if e.Description != "" {
			line += "  " + formatter.Dim(e.Description)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + formatter.Bold("Today:") + " " + formatter.StyleGreen.Render(formatter.FormatMinutes(m.today)) + "\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, kb := range m.keys.ShortHelp() {
		hints = append(hints, formatter.Dim(kb.Help().Key+": "+kb.Help().Desc))
	}
	sep := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render(strings.Repeat("─", width))
	b.WriteString(sep + "\n" + strings.Join(hints, "  "))
	return b.String()
}

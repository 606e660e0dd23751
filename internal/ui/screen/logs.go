package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/solbounty/solbounty/internal/logger"
	"github.com/solbounty/solbounty/internal/ui"
	"github.com/solbounty/solbounty/internal/ui/component"
	"github.com/solbounty/solbounty/internal/ui/router"
	"github.com/solbounty/solbounty/internal/ui/style"
)

const logsShown = 200

// LogsScreen shows the application's recent log entries from the
// in-memory ring buffer, live-updated via the UI bus.
type LogsScreen struct {
	services *ui.Services
	width    int
	height   int
	keyMap   ui.KeyMap

	// UI components
	helpBar *component.HelpBar
	table   *component.Table

	// State
	entries  []logger.LogEntry
	minLevel string
	cleared  time.Time

	// Styling
	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
}

// NewLogsScreen creates the logs screen
func NewLogsScreen(services *ui.Services) *LogsScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	s := &LogsScreen{
		services: services,
		keyMap:   keyMap,

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0).
			Align(lipgloss.Center),

		statusStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 2),
	}

	s.helpBar = component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteLogs))

	s.table = component.NewTable().
		AddColumn("Time", 10, lipgloss.Left).
		AddColumn("Level", 6, lipgloss.Center).
		AddColumn("Message", 60, lipgloss.Left).
		SetSelectable(true)

	return s
}

// Init loads the buffered entries and starts the refresh cycle
func (s *LogsScreen) Init() tea.Cmd {
	s.refresh()
	return s.scheduleRefresh()
}

type logsRefreshMsg time.Time

func (s *LogsScreen) scheduleRefresh() tea.Cmd {
	return tea.Tick(s.services.RefreshInterval(), func(t time.Time) tea.Msg {
		return logsRefreshMsg(t)
	})
}

// Update handles screen updates
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Quit):
			return s, tea.Quit

		case key.Matches(msg, s.keyMap.Up):
			s.table.MoveUp()

		case key.Matches(msg, s.keyMap.Down):
			s.table.MoveDown()

		case key.Matches(msg, s.keyMap.FilterInfo):
			s.minLevel = "info"
			s.refresh()

		case key.Matches(msg, s.keyMap.FilterWarn):
			s.minLevel = "warn"
			s.refresh()

		case key.Matches(msg, s.keyMap.FilterError):
			s.minLevel = "error"
			s.refresh()

		case key.Matches(msg, s.keyMap.ClearLogs):
			s.minLevel = ""
			s.cleared = time.Now()
			s.refresh()

		case key.Matches(msg, s.keyMap.Refresh):
			s.refresh()
		}

	case logsRefreshMsg:
		s.refresh()
		cmds = append(cmds, s.scheduleRefresh())

	case ui.LogMsg:
		s.refresh()
	}

	return s, tea.Batch(cmds...)
}

// refresh pulls the ring buffer through the current filter
func (s *LogsScreen) refresh() {
	all := s.services.LogBuffer.GetRecentLogs(logsShown)

	filtered := all[:0]
	for _, entry := range all {
		if entry.Timestamp.Before(s.cleared) {
			continue
		}
		if !levelAtLeast(entry.Level, s.minLevel) {
			continue
		}
		filtered = append(filtered, entry)
	}
	s.entries = filtered

	rows := make([][]string, 0, len(filtered))
	for _, entry := range filtered {
		rows = append(rows, []string{
			entry.Timestamp.Format("15:04:05"),
			strings.ToUpper(entry.Level),
			entry.Message,
		})
	}
	s.table.SetRows(rows)
}

// levelAtLeast reports whether a level passes the minimum filter
func levelAtLeast(level, minimum string) bool {
	rank := func(l string) int {
		switch strings.ToLower(l) {
		case "debug":
			return 0
		case "info":
			return 1
		case "warn":
			return 2
		case "error", "fatal", "panic":
			return 3
		default:
			return 1
		}
	}
	if minimum == "" {
		return true
	}
	return rank(level) >= rank(minimum)
}

// View renders the logs screen
func (s *LogsScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	title := "Logs"
	if s.minLevel != "" {
		title = fmt.Sprintf("Logs (%s and above)", s.minLevel)
	}
	content.WriteString(s.titleStyle.Width(s.width).Render(title))
	content.WriteString("\n")

	total, spilled := s.services.LogBuffer.GetStats()
	content.WriteString(s.statusStyle.Render(fmt.Sprintf(
		"Showing %d of %d entries (%d spilled to disk)", len(s.entries), total, spilled)))
	content.WriteString("\n\n")

	if len(s.entries) == 0 {
		content.WriteString(s.statusStyle.Render("No log entries."))
	} else {
		content.WriteString(s.table.View())
	}
	content.WriteString("\n")

	content.WriteString(s.helpBar.SetWidth(s.width).View())
	return content.String()
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.table.SetSize(width - 4)
}

package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/solbounty/solbounty/internal/token"
	"github.com/solbounty/solbounty/internal/ui"
	"github.com/solbounty/solbounty/internal/ui/component"
	"github.com/solbounty/solbounty/internal/ui/router"
	"github.com/solbounty/solbounty/internal/ui/style"
)

// BoardScreen is the landing screen: the wallet's bounty tokens in a
// table plus a search overlay for jumping straight to a mint.
type BoardScreen struct {
	services *ui.Services
	width    int
	height   int
	keyMap   ui.KeyMap

	// UI components
	helpBar  *component.HelpBar
	selector *component.MintSelect
	table    *component.Table

	// State
	tokens  []token.OwnedToken
	errText string

	// Styling
	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

// NewBoardScreen creates the bounty board screen
func NewBoardScreen(services *ui.Services) *BoardScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	s := &BoardScreen{
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

		errorStyle: lipgloss.NewStyle().
			Foreground(palette.Error).
			Padding(0, 2),
	}

	s.helpBar = component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteBoard))

	s.selector = component.NewMintSelect().
		SetSearchFunc(services.SearchTokens).
		SetOnSelect(func(result token.OwnedToken) tea.Cmd {
			mint := result.Mint
			return func() tea.Msg {
				return ui.RouterMsg{To: ui.RouteDetail, Mint: mint}
			}
		})

	s.table = component.NewTable().
		AddColumn("Token", 24, lipgloss.Left).
		AddColumn("Symbol", 8, lipgloss.Left).
		AddColumn("Balance", 16, lipgloss.Right).
		AddColumn("Mint", 16, lipgloss.Left).
		SetSelectable(true)

	return s
}

// Init initializes the board screen
func (s *BoardScreen) Init() tea.Cmd {
	return tea.Batch(
		s.services.SearchTokens(""),
		s.scheduleRefresh(),
	)
}

type boardRefreshMsg time.Time

func (s *BoardScreen) scheduleRefresh() tea.Cmd {
	return tea.Tick(s.services.RefreshInterval(), func(t time.Time) tea.Msg {
		return boardRefreshMsg(t)
	})
}

// ConsumesEscape keeps the router from popping while the search
// overlay is open; Escape then only closes the overlay.
func (s *BoardScreen) ConsumesEscape() bool {
	return s.selector.IsOpen()
}

// Update handles screen updates
func (s *BoardScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.selector.IsOpen() {
			cmds = append(cmds, s.selector.Update(msg))
			return s, tea.Batch(cmds...)
		}

		switch {
		case key.Matches(msg, s.keyMap.Quit):
			return s, tea.Quit

		case key.Matches(msg, s.keyMap.Search):
			cmds = append(cmds, s.selector.Open())

		case key.Matches(msg, s.keyMap.Up):
			s.table.MoveUp()

		case key.Matches(msg, s.keyMap.Down):
			s.table.MoveDown()

		case key.Matches(msg, s.keyMap.Enter):
			if cmd := s.openSelected(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case key.Matches(msg, s.keyMap.Refresh):
			cmds = append(cmds, s.services.SearchTokens(""))

		case key.Matches(msg, s.keyMap.Logs):
			cmds = append(cmds, func() tea.Msg {
				return ui.RouterMsg{To: ui.RouteLogs}
			})
		}

	case ui.SearchResultsMsg:
		if msg.Err != nil {
			s.errText = msg.Err.Error()
			break
		}
		s.errText = ""

		if s.selector.IsOpen() && msg.Query == s.selector.Query() {
			s.selector.SetResults(msg.Tokens)
		}
		if msg.Query == "" {
			s.tokens = msg.Tokens
			s.refreshTable()
		}

	case boardRefreshMsg:
		// Keep the holdings table current without disturbing an open
		// search overlay.
		if !s.selector.IsOpen() {
			cmds = append(cmds, s.services.SearchTokens(""))
		}
		cmds = append(cmds, s.scheduleRefresh())

	case ui.ErrorMsg:
		s.errText = msg.Error.Error()
	}

	return s, tea.Batch(cmds...)
}

// openSelected navigates to the detail screen for the highlighted row
func (s *BoardScreen) openSelected() tea.Cmd {
	idx := s.table.SelectedRow()
	if idx < 0 || idx >= len(s.tokens) {
		return nil
	}
	mint := s.tokens[idx].Mint
	return func() tea.Msg {
		return ui.RouterMsg{To: ui.RouteDetail, Mint: mint}
	}
}

func (s *BoardScreen) refreshTable() {
	rows := make([][]string, 0, len(s.tokens))
	for _, item := range s.tokens {
		name := item.Name
		if name == "" {
			name = "(unnamed)"
		}
		rows = append(rows, []string{
			name,
			item.Symbol,
			item.Balance.String(),
			item.Mint.String(),
		})
	}
	s.table.SetRows(rows)
}

// View renders the board screen
func (s *BoardScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	content.WriteString(s.titleStyle.Width(s.width).Render("◈ Bounty Board"))
	content.WriteString("\n")

	wallet := "No wallet connected"
	if s.services.Wallet.Connected() {
		wallet = fmt.Sprintf("Wallet: %s", s.services.Wallet)
	}
	content.WriteString(s.statusStyle.Render(wallet))
	content.WriteString("\n\n")

	content.WriteString(s.selector.View())
	content.WriteString("\n\n")

	if s.errText != "" {
		content.WriteString(s.errorStyle.Render("✗ " + s.errText))
		content.WriteString("\n\n")
	}

	if len(s.tokens) == 0 {
		content.WriteString(s.statusStyle.Render("No bounty tokens in this wallet. Press / to search."))
	} else {
		content.WriteString(s.table.View())
	}
	content.WriteString("\n")

	content.WriteString(s.helpBar.SetWidth(s.width).View())
	return content.String()
}

// SetSize sets the screen dimensions
func (s *BoardScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.selector.SetWidth(min(width-4, 64))
	s.table.SetSize(width - 4)
}

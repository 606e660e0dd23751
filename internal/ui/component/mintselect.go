package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"

	"github.com/solbounty/solbounty/internal/token"
	"github.com/solbounty/solbounty/internal/ui/style"
)

// MintSelect is a search box with a results overlay for picking one of
// the wallet's token mints. Typing reissues the search; Enter on a
// result hands the pick to the OnSelect callback and closes the
// overlay. A result without a mint is inert: selecting it does nothing
// and the overlay stays open.
type MintSelect struct {
	input    textinput.Model
	open     bool
	results  []token.OwnedToken
	selected int
	width    int

	onSelect func(token.OwnedToken) tea.Cmd
	search   func(query string) tea.Cmd

	// Styling
	inputStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	overlayStyle lipgloss.Style
	itemStyle    lipgloss.Style
	pickedStyle  lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewMintSelect creates a new mint selector component
func NewMintSelect() *MintSelect {
	palette := style.DefaultPalette()

	ti := textinput.New()
	ti.Placeholder = "Search bounty tokens..."
	ti.Width = 40

	return &MintSelect{
		input: ti,

		inputStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		focusedStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary),

		overlayStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 1),

		itemStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1),

		pickedStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 1),

		mutedStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 1),
	}
}

// SetSearchFunc sets the command issued whenever the query changes
func (m *MintSelect) SetSearchFunc(search func(query string) tea.Cmd) *MintSelect {
	m.search = search
	return m
}

// SetOnSelect sets the callback invoked with the chosen token
func (m *MintSelect) SetOnSelect(onSelect func(token.OwnedToken) tea.Cmd) *MintSelect {
	m.onSelect = onSelect
	return m
}

// SetWidth sets the component width
func (m *MintSelect) SetWidth(width int) *MintSelect {
	m.width = width
	if width > 8 {
		m.input.Width = width - 6
	}
	return m
}

// Open opens the overlay and focuses the search input
func (m *MintSelect) Open() tea.Cmd {
	m.open = true
	m.input.Focus()
	if m.search != nil {
		return m.search(m.input.Value())
	}
	return textinput.Blink
}

// Close closes the overlay and blurs the input. The query is kept so
// reopening continues where the user left off.
func (m *MintSelect) Close() {
	m.open = false
	m.input.Blur()
}

// IsOpen reports whether the results overlay is showing
func (m *MintSelect) IsOpen() bool {
	return m.open
}

// Query returns the current search text
func (m *MintSelect) Query() string {
	return m.input.Value()
}

// SetResults replaces the overlay contents. Results for a stale query
// are the caller's problem; pass only the latest.
func (m *MintSelect) SetResults(results []token.OwnedToken) *MintSelect {
	m.results = results
	if m.selected >= len(results) {
		m.selected = 0
	}
	return m
}

// Update handles input while the overlay is open
func (m *MintSelect) Update(msg tea.Msg) tea.Cmd {
	if !m.open {
		return nil
	}

	var cmds []tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			// Closes the overlay only; the screen stays put.
			m.Close()
			return nil

		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return nil

		case "down":
			if m.selected < len(m.results)-1 {
				m.selected++
			}
			return nil

		case "enter":
			return m.pick()
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.input.Value() != before && m.search != nil {
		m.selected = 0
		cmds = append(cmds, m.search(m.input.Value()))
	}

	return tea.Batch(cmds...)
}

// pick applies the highlighted result. Results without a mint cannot be
// selected; the overlay stays open and nothing is emitted. Without any
// results the typed query itself is tried as a mint address.
func (m *MintSelect) pick() tea.Cmd {
	if m.selected >= len(m.results) {
		return m.pickTyped()
	}

	result := m.results[m.selected]
	if result.Mint.IsZero() {
		return nil
	}

	m.Close()
	if m.onSelect != nil {
		return m.onSelect(result)
	}
	return nil
}

// pickTyped opens the typed query directly when it parses as a mint
// address, so a bounty the wallet does not hold is still reachable.
// Anything that does not parse is left in place untouched.
func (m *MintSelect) pickTyped() tea.Cmd {
	mint, err := solana.PublicKeyFromBase58(strings.TrimSpace(m.input.Value()))
	if err != nil || mint.IsZero() {
		return nil
	}

	m.Close()
	if m.onSelect != nil {
		return m.onSelect(token.OwnedToken{Mint: mint})
	}
	return nil
}

// View renders the search box, plus the overlay when open
func (m *MintSelect) View() string {
	boxStyle := m.inputStyle
	if m.open {
		boxStyle = m.focusedStyle
	}

	var content strings.Builder
	content.WriteString(boxStyle.Render(m.input.View()))

	if !m.open {
		return content.String()
	}

	content.WriteString("\n")
	content.WriteString(m.overlayStyle.Render(m.renderResults()))
	return content.String()
}

func (m *MintSelect) renderResults() string {
	if len(m.results) == 0 {
		return m.mutedStyle.Render("No matching tokens")
	}

	var rows []string
	for i, result := range m.results {
		label := result.Name
		if label == "" {
			label = shortKey(result.Mint.String())
		}
		line := fmt.Sprintf("%-24s %8s %s", label, result.Symbol, result.Balance.String())

		itemStyle := m.itemStyle
		if i == m.selected {
			itemStyle = m.pickedStyle
		}
		if result.Mint.IsZero() {
			itemStyle = m.mutedStyle
		}
		rows = append(rows, itemStyle.Render(line))
	}
	return strings.Join(rows, "\n")
}

// shortKey abbreviates a base58 key for display
func shortKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:4] + "..." + key[len(key)-4:]
}

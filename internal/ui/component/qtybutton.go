package component

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/solbounty/solbounty/internal/bounty"
	"github.com/solbounty/solbounty/internal/ui/style"
)

// QtyButton is an action button with an attached free-text quantity
// field. The action stays disabled while the quantity does not parse,
// the check function reports a problem, or a previous submission is
// still in flight. A submission dispatches exactly once per press.
type QtyButton struct {
	input   textinput.Model
	label   string
	check   bounty.CheckFunc
	busy    bool
	spin    spinner.Model
	onPress func(amount decimal.Decimal) tea.Cmd
	width   int

	// Styling
	buttonStyle   lipgloss.Style
	disabledStyle lipgloss.Style
	busyStyle     lipgloss.Style
	inputStyle    lipgloss.Style
	problemStyle  lipgloss.Style
}

// NewQtyButton creates a new quantity button with the given label
func NewQtyButton(label string) *QtyButton {
	palette := style.DefaultPalette()

	ti := textinput.New()
	ti.Placeholder = "0"
	ti.Width = 16
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(palette.Primary)

	return &QtyButton{
		input: ti,
		label: label,
		spin:  sp,

		buttonStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Secondary).
			Padding(0, 2).
			Bold(true),

		disabledStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Background(palette.BackgroundAlt).
			Padding(0, 2),

		busyStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Background(palette.BackgroundAlt).
			Padding(0, 2),

		inputStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		problemStyle: lipgloss.NewStyle().
			Foreground(palette.Warning),
	}
}

// SetLabel changes the button label
func (q *QtyButton) SetLabel(label string) *QtyButton {
	q.label = label
	return q
}

// SetAccent sets the button's background color
func (q *QtyButton) SetAccent(color lipgloss.Color) *QtyButton {
	q.buttonStyle = q.buttonStyle.Background(color)
	return q
}

// SetCheck sets the validation applied to the parsed quantity
func (q *QtyButton) SetCheck(check bounty.CheckFunc) *QtyButton {
	q.check = check
	return q
}

// SetOnPress sets the command dispatched when the button fires
func (q *QtyButton) SetOnPress(onPress func(amount decimal.Decimal) tea.Cmd) *QtyButton {
	q.onPress = onPress
	return q
}

// SetWidth sets the component width
func (q *QtyButton) SetWidth(width int) *QtyButton {
	q.width = width
	return q
}

// Reset clears the quantity field and any in-flight state
func (q *QtyButton) Reset() *QtyButton {
	q.input.SetValue("")
	q.busy = false
	return q
}

// Value returns the raw quantity text
func (q *QtyButton) Value() string {
	return q.input.Value()
}

// Busy reports whether a submission is in flight
func (q *QtyButton) Busy() bool {
	return q.busy
}

// Problem returns the message blocking submission, or "" when the
// button may fire.
func (q *QtyButton) Problem() string {
	amount, err := bounty.ParseAmount(q.input.Value())
	switch {
	case errors.Is(err, bounty.ErrEmptyAmount):
		return "Enter an amount"
	case errors.Is(err, bounty.ErrNotANumber):
		return "Amount must be a number"
	case errors.Is(err, bounty.ErrNonPositive):
		return "Amount must be positive"
	case err != nil:
		return err.Error()
	}

	if q.check != nil {
		return q.check(amount)
	}
	return ""
}

// Submit fires the action if nothing blocks it. While busy or blocked
// it returns nil and dispatches nothing.
func (q *QtyButton) Submit() tea.Cmd {
	if q.busy || q.onPress == nil {
		return nil
	}
	if q.Problem() != "" {
		return nil
	}

	amount, err := bounty.ParseAmount(q.input.Value())
	if err != nil {
		return nil
	}

	q.busy = true
	return tea.Batch(q.spin.Tick, q.onPress(amount))
}

// Done clears the in-flight state once the submission resolved
func (q *QtyButton) Done() {
	q.busy = false
}

// Update handles text input and spinner ticks
func (q *QtyButton) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if _, ok := msg.(spinner.TickMsg); ok && q.busy {
		var cmd tea.Cmd
		q.spin, cmd = q.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !q.busy {
		var cmd tea.Cmd
		q.input, cmd = q.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return tea.Batch(cmds...)
}

// View renders the quantity field, button and blocking message
func (q *QtyButton) View() string {
	field := q.inputStyle.Render(q.input.View())

	var button string
	problem := q.Problem()
	switch {
	case q.busy:
		button = q.busyStyle.Render(q.spin.View() + " " + q.label)
	case problem != "":
		button = q.disabledStyle.Render(q.label)
	default:
		button = q.buttonStyle.Render(q.label)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center, field, " ", button)
	if problem != "" && q.input.Value() != "" {
		return lipgloss.JoinVertical(lipgloss.Left, row, q.problemStyle.Render(problem))
	}
	return row
}

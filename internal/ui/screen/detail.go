package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/solbounty/solbounty/internal/bonding"
	"github.com/solbounty/solbounty/internal/bounty"
	"github.com/solbounty/solbounty/internal/token"
	"github.com/solbounty/solbounty/internal/ui"
	"github.com/solbounty/solbounty/internal/ui/component"
	"github.com/solbounty/solbounty/internal/ui/router"
	"github.com/solbounty/solbounty/internal/ui/style"
)

// DetailScreen shows a single bounty: its metadata, curve figures and
// holders, with contribute/withdraw actions. While the bonding record
// is loading a spinner shows; a mint without a record renders the
// closed view, where holders may burn their remaining tokens.
type DetailScreen struct {
	services *ui.Services
	width    int
	height   int
	keyMap   ui.KeyMap

	// UI components
	helpBar *component.HelpBar
	holders *component.Table
	action  *component.QtyButton
	spin    spinner.Model

	// State
	mint     solana.PublicKey
	snapshot bounty.Snapshot
	scale    bounty.TokenScale
	metadata *token.Metadata
	balances bounty.Balances
	mode     bounty.Mode
	loaded   bool
	errText  string
	status   string

	// Styling
	titleStyle   lipgloss.Style
	labelStyle   lipgloss.Style
	valueStyle   lipgloss.Style
	warnStyle    lipgloss.Style
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	closedStyle  lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewDetailScreen creates the bounty detail screen for a mint
func NewDetailScreen(services *ui.Services, mint solana.PublicKey) *DetailScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(palette.Primary)

	s := &DetailScreen{
		services: services,
		keyMap:   keyMap,
		mint:     mint,
		spin:     sp,
		snapshot: bounty.Snapshot{Loading: true},

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0),

		labelStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Width(14),

		valueStyle: lipgloss.NewStyle().
			Foreground(palette.Text),

		warnStyle: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Warning).
			Padding(0, 1),

		errorStyle: lipgloss.NewStyle().
			Foreground(palette.Error),

		successStyle: lipgloss.NewStyle().
			Foreground(palette.Success),

		closedStyle: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true),

		mutedStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}

	s.helpBar = component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteDetail))

	s.holders = component.NewTable().
		AddColumn("Holder", 16, lipgloss.Left).
		AddColumn("Amount", 16, lipgloss.Right).
		AddColumn("Share", 8, lipgloss.Right).
		SetSelectable(false)

	s.action = component.NewQtyButton("Contribute").
		SetAccent(palette.Contribute)
	s.action.SetOnPress(s.dispatch)

	return s
}

// Init starts the data loads for the bounty
func (s *DetailScreen) Init() tea.Cmd {
	return tea.Batch(
		s.spin.Tick,
		s.services.LoadBounty(s.mint),
		s.services.LoadMetadata(s.mint),
		s.services.LoadHolders(s.mint),
		s.scheduleRefresh(),
	)
}

type detailRefreshMsg time.Time

func (s *DetailScreen) scheduleRefresh() tea.Cmd {
	return tea.Tick(s.services.RefreshInterval(), func(t time.Time) tea.Msg {
		return detailRefreshMsg(t)
	})
}

// Update handles screen updates
func (s *DetailScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Quit):
			return s, tea.Quit

		case key.Matches(msg, s.keyMap.ToggleMode):
			s.toggleMode()

		case key.Matches(msg, s.keyMap.Refresh):
			cmds = append(cmds, s.reload()...)

		case key.Matches(msg, s.keyMap.Enter):
			if s.loaded && !s.snapshot.Closed() {
				if cmd := s.action.Submit(); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}

		case key.Matches(msg, s.keyMap.Burn):
			if s.snapshot.Closed() && !s.action.Busy() {
				cmds = append(cmds, s.services.Burn(s.mint, s.scale, s.balances.Target))
			}

		case key.Matches(msg, s.keyMap.Disburse):
			if cmd := s.disburse(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		default:
			cmds = append(cmds, s.action.Update(msg))
		}

	case spinner.TickMsg:
		if !s.loaded {
			var cmd tea.Cmd
			s.spin, cmd = s.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, s.action.Update(msg))

	case ui.BountyLoadedMsg:
		if !msg.Mint.Equals(s.mint) {
			break
		}
		if msg.Err != nil {
			s.errText = msg.Err.Error()
			break
		}
		s.loaded = true
		s.errText = ""
		s.snapshot = msg.Snapshot
		s.scale = msg.Scale
		s.refreshCheck()
		if s.snapshot.Record != nil {
			cmds = append(cmds, s.services.LoadBalances(s.snapshot.Record))
		} else {
			// Closed bounty: the target balance decides whether burn
			// is offered.
			cmds = append(cmds, s.services.LoadClosedBalance(s.mint))
		}

	case ui.MetadataLoadedMsg:
		if msg.Mint.Equals(s.mint) {
			s.metadata = msg.Metadata
		}

	case ui.BalancesMsg:
		if msg.Mint.Equals(s.mint) {
			s.balances = msg.Balances
			if s.snapshot.Record == nil {
				// With the record gone, the wallet's token account is
				// the only place left that knows the mint's scale. Burn
				// amounts shift by this before going on chain.
				s.scale.TargetDecimals = msg.TargetDecimals
			}
			s.refreshCheck()
		}

	case ui.HoldersMsg:
		if msg.Mint.Equals(s.mint) && msg.Err == nil {
			s.refreshHolders(msg.Holders)
		}

	case ui.ActionDoneMsg:
		if !msg.Mint.Equals(s.mint) {
			break
		}
		s.action.Done()
		if msg.Err != nil {
			s.errText = msg.Err.Error()
			break
		}
		s.errText = ""
		s.status = fmt.Sprintf("%s of %s confirmed: %s",
			msg.Kind, msg.Amount, shortSig(msg.Signature))
		s.action.Reset()
		cmds = append(cmds, s.reload()...)

	case detailRefreshMsg:
		if s.loaded && !s.action.Busy() {
			cmds = append(cmds, s.reload()...)
		}
		cmds = append(cmds, s.scheduleRefresh())

	case ui.ErrorMsg:
		s.errText = msg.Error.Error()
	}

	return s, tea.Batch(cmds...)
}

// toggleMode flips contribute/withdraw and clears the quantity; an
// amount typed for one direction never carries into the other.
func (s *DetailScreen) toggleMode() {
	palette := style.DefaultPalette()
	s.mode = s.mode.Toggle()
	s.action.Reset()
	if s.mode == bounty.ModeWithdraw {
		s.action.SetLabel("Withdraw").SetAccent(palette.Withdraw)
	} else {
		s.action.SetLabel("Contribute").SetAccent(palette.Contribute)
	}
	s.refreshCheck()
}

// refreshCheck rebinds the action validation to the current mode,
// balances and curve figures.
func (s *DetailScreen) refreshCheck() {
	curve := bonding.NewConstantProductCurve(
		s.snapshot.ReserveAmount,
		s.snapshot.TargetSupply,
		bonding.DefaultFeePercent,
	)
	s.action.SetCheck(bounty.CheckFor(s.mode, s.balances, curve))
}

// dispatch submits the current action for the parsed amount
func (s *DetailScreen) dispatch(amount decimal.Decimal) tea.Cmd {
	if s.snapshot.Record == nil {
		return nil
	}
	if s.mode == bounty.ModeWithdraw {
		return s.services.Withdraw(s.snapshot.Record, s.scale, amount)
	}
	return s.services.Contribute(s.snapshot.Record, s.scale, amount)
}

// disburse moves the typed amount of reserve to the admin's wallet.
// Only the reserve authority sees this succeed; everyone else is
// blocked before dispatch.
func (s *DetailScreen) disburse() tea.Cmd {
	if !s.snapshot.IsAdmin(s.services.Wallet.PublicKey, s.services.Wallet.Connected()) {
		return nil
	}
	if s.action.Busy() {
		return nil
	}
	amount, err := bounty.ParseAmount(s.action.Value())
	if err != nil {
		s.errText = "Enter the amount to disburse first"
		return nil
	}
	return s.services.Disburse(s.snapshot.Record, s.scale, s.services.Wallet.PublicKey, amount)
}

func (s *DetailScreen) reload() []tea.Cmd {
	cmds := []tea.Cmd{
		s.services.LoadBounty(s.mint),
		s.services.LoadHolders(s.mint),
	}
	if s.snapshot.Record != nil {
		cmds = append(cmds, s.services.LoadBalances(s.snapshot.Record))
	}
	return cmds
}

func (s *DetailScreen) refreshHolders(holders []token.Holder) {
	rows := make([][]string, 0, len(holders))
	for _, h := range holders {
		rows = append(rows, []string{
			shortKey(h.Address.String()),
			h.Amount.String(),
			h.Share.StringFixed(1) + "%",
		})
	}
	s.holders.SetRows(rows)
}

// View renders the detail screen
func (s *DetailScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	content.WriteString(s.titleStyle.Render(s.title()))
	content.WriteString("\n")

	switch {
	case !s.loaded:
		content.WriteString(s.spin.View() + " Loading bounty...")

	case s.snapshot.Closed() && s.metadata != nil && s.metadata.Missing() &&
		!s.balances.Target.IsPositive():
		// No record, no display metadata and no holding: this mint was
		// never a bounty, as opposed to one that has closed.
		content.WriteString(s.renderNotFound())

	case s.snapshot.Closed():
		content.WriteString(s.renderClosed())

	default:
		content.WriteString(s.renderOpen())
	}

	content.WriteString("\n")
	if s.errText != "" {
		content.WriteString(s.errorStyle.Render("✗ " + s.errText))
		content.WriteString("\n")
	}
	if s.status != "" {
		content.WriteString(s.successStyle.Render("✓ " + s.status))
		content.WriteString("\n")
	}

	content.WriteString(s.helpBar.SetWidth(s.width).View())
	return content.String()
}

func (s *DetailScreen) title() string {
	if s.metadata != nil && s.metadata.Name != "" {
		if s.metadata.Symbol != "" {
			return fmt.Sprintf("%s (%s)", s.metadata.Name, s.metadata.Symbol)
		}
		return s.metadata.Name
	}
	return shortKey(s.mint.String())
}

func (s *DetailScreen) renderNotFound() string {
	return s.mutedStyle.Render(fmt.Sprintf(
		"No bounty found for %s.", shortKey(s.mint.String())))
}

func (s *DetailScreen) renderClosed() string {
	var content strings.Builder
	content.WriteString(s.closedStyle.Render("This bounty is closed."))
	content.WriteString("\n\n")

	if s.balances.Connected && s.balances.Target.IsPositive() {
		content.WriteString(s.valueStyle.Render(fmt.Sprintf(
			"You still hold %s bounty tokens. Press b to burn them.",
			s.balances.Target)))
	} else {
		content.WriteString(s.mutedStyle.Render("Nothing left to do here."))
	}
	return content.String()
}

func (s *DetailScreen) renderOpen() string {
	var content strings.Builder

	if s.metadata != nil && s.metadata.Description != "" {
		content.WriteString(s.mutedStyle.Render(s.metadata.Description))
		content.WriteString("\n\n")
	}

	content.WriteString(s.renderFigures())
	content.WriteString("\n")

	// Informational only; contributing and withdrawing stay available.
	if s.snapshot.FundsDiverted() {
		used, _ := s.snapshot.FundsUsed()
		content.WriteString(s.warnStyle.Render(fmt.Sprintf(
			"⚠ %s of the reserve has been paid out by the bounty admin", used)))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(s.renderAction())
	content.WriteString("\n\n")

	if s.holders.RowCount() > 0 {
		content.WriteString(s.mutedStyle.Render("Largest holders"))
		content.WriteString("\n")
		content.WriteString(s.holders.View())
		content.WriteString("\n")
	}

	if s.snapshot.IsAdmin(s.services.Wallet.PublicKey, s.services.Wallet.Connected()) {
		content.WriteString(s.mutedStyle.Render("You administer this bounty. Press d to disburse the typed amount."))
		content.WriteString("\n")
	}

	return content.String()
}

func (s *DetailScreen) renderFigures() string {
	row := func(label, value string) string {
		return s.labelStyle.Render(label) + s.valueStyle.Render(value)
	}

	var rows []string
	if s.snapshot.ReserveKnown {
		rows = append(rows, row("Reserve", s.snapshot.ReserveAmount.String()))
	}
	if s.snapshot.SupplyKnown {
		rows = append(rows, row("Supply", s.snapshot.TargetSupply.String()))
	}
	if s.snapshot.ReserveKnown && s.snapshot.SupplyKnown {
		curve := bonding.NewConstantProductCurve(
			s.snapshot.ReserveAmount, s.snapshot.TargetSupply, bonding.DefaultFeePercent)
		if price, err := curve.Price(); err == nil {
			rows = append(rows, row("Price", price.StringFixed(6)))
		}
	}
	if s.balances.Connected {
		rows = append(rows, row("Your funds", s.balances.Base.String()))
		rows = append(rows, row("Your tokens", s.balances.Target.String()))
	}
	return strings.Join(rows, "\n")
}

func (s *DetailScreen) renderAction() string {
	mode := s.mutedStyle.Render(fmt.Sprintf("Mode: %s (press m to switch)", s.mode))
	return lipgloss.JoinVertical(lipgloss.Left, mode, s.action.View())
}

// SetSize sets the screen dimensions
func (s *DetailScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.action.SetWidth(width - 4)
}

// shortSig abbreviates a transaction signature for display
func shortSig(sig solana.Signature) string {
	str := sig.String()
	if len(str) <= 12 {
		return str
	}
	return str[:4] + "..." + str[len(str)-4:]
}

// shortKey abbreviates a base58 key for display
func shortKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:4] + "..." + key[len(key)-4:]
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"

	"github.com/solbounty/solbounty/internal/bounty"
	"github.com/solbounty/solbounty/internal/token"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens. Mint carries the
// bounty to open when navigating to the detail screen.
type RouterMsg struct {
	To   Route
	Mint solana.PublicKey
}

// BountyLoadedMsg carries a freshly fetched bounty snapshot
type BountyLoadedMsg struct {
	Mint     solana.PublicKey
	Snapshot bounty.Snapshot
	Scale    bounty.TokenScale
	Err      error
}

// MetadataLoadedMsg carries resolved token metadata
type MetadataLoadedMsg struct {
	Mint     solana.PublicKey
	Metadata *token.Metadata
}

// BalancesMsg carries the connected wallet's balances for a bounty.
// TargetDecimals is the scale reported by the wallet's target token
// account; for a closed bounty it is the only place that scale still
// exists on chain.
type BalancesMsg struct {
	Mint           solana.PublicKey
	Balances       bounty.Balances
	TargetDecimals uint8
}

// HoldersMsg carries the largest holders of a bounty mint
type HoldersMsg struct {
	Mint    solana.PublicKey
	Holders []token.Holder
	Err     error
}

// SearchResultsMsg carries the wallet tokens matching a search query
type SearchResultsMsg struct {
	Query  string
	Tokens []token.OwnedToken
	Err    error
}

// ActionKind names a submitted bounty operation
type ActionKind string

const (
	ActionContribute ActionKind = "contribute"
	ActionWithdraw   ActionKind = "withdraw"
	ActionBurn       ActionKind = "burn"
	ActionDisburse   ActionKind = "disburse"
)

// ActionDoneMsg reports the outcome of a submitted bounty operation
type ActionDoneMsg struct {
	Kind      ActionKind
	Mint      solana.PublicKey
	Amount    decimal.Decimal
	Signature solana.Signature
	Err       error
}

// LogMsg represents log messages
type LogMsg struct {
	Level   zapcore.Level
	Message string
	Fields  map[string]interface{}
}

// ErrorMsg represents error conditions
type ErrorMsg struct {
	Error error
	Title string
}

// BusMsg wraps a message delivered through the bus. The top-level
// model re-arms the listener exactly when it sees this wrapper, so
// there is never more than one goroutine blocked on the channel.
type BusMsg struct {
	Msg tea.Msg
}

// Event Bus for UI communication
var (
	// Bus is the global event bus for UI communication
	Bus = make(chan tea.Msg, 1024)
)

// Publish puts a message on the UI bus, dropping it when the bus is full
func Publish(msg tea.Msg) {
	select {
	case Bus <- msg:
	default:
		// Bus is full, drop the message
	}
}

// PublishLog publishes a log message to the UI bus
func PublishLog(level zapcore.Level, message string, fields map[string]interface{}) {
	Publish(LogMsg{Level: level, Message: message, Fields: fields})
}

// PublishError publishes an error message to the UI bus
func PublishError(err error, title string) {
	Publish(ErrorMsg{Error: err, Title: title})
}

// ListenBus returns a tea.Cmd that blocks on the event bus and hands
// the next message over wrapped in a BusMsg
func ListenBus() tea.Cmd {
	return func() tea.Msg {
		return BusMsg{Msg: <-Bus}
	}
}

// Route represents different screens in the application
type Route int

const (
	RouteBoard Route = iota
	RouteDetail
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteBoard:
		return "board"
	case RouteDetail:
		return "detail"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}

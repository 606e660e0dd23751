package component

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solbounty/solbounty/internal/token"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestMintSelectInertResultKeepsOverlayOpen(t *testing.T) {
	var picked []token.OwnedToken
	m := NewMintSelect().
		SetOnSelect(func(result token.OwnedToken) tea.Cmd {
			picked = append(picked, result)
			return nil
		})

	m.Open()
	real := solana.NewWallet().PublicKey()
	m.SetResults([]token.OwnedToken{
		{Name: "Pending listing", Balance: decimal.NewFromInt(1)}, // no mint
		{Mint: real, Name: "Harbor Works", Balance: decimal.NewFromInt(5)},
	})

	// Selecting the result without a mint does nothing.
	assert.Nil(t, m.Update(keyPress("enter")))
	assert.True(t, m.IsOpen(), "overlay must stay open after an inert pick")
	assert.Empty(t, picked)

	// The real result selects and closes.
	m.Update(keyPress("down"))
	m.Update(keyPress("enter"))
	assert.False(t, m.IsOpen())
	require.Len(t, picked, 1)
	assert.Equal(t, real, picked[0].Mint)
}

func TestMintSelectTypedAddressOpensDirectly(t *testing.T) {
	var picked []token.OwnedToken
	m := NewMintSelect().
		SetOnSelect(func(result token.OwnedToken) tea.Cmd {
			picked = append(picked, result)
			return nil
		})

	m.Open()
	mint := solana.NewWallet().PublicKey()
	m.Update(keyPress(mint.String()))

	// No search results, but the query is a valid address.
	m.Update(keyPress("enter"))
	assert.False(t, m.IsOpen())
	require.Len(t, picked, 1)
	assert.Equal(t, mint, picked[0].Mint)
}

func TestMintSelectKeepsUnparsableQuery(t *testing.T) {
	m := NewMintSelect()
	m.Open()
	m.Update(keyPress("harbor"))

	assert.Nil(t, m.Update(keyPress("enter")))
	assert.True(t, m.IsOpen(), "text that is not an address stays put")
	assert.Equal(t, "harbor", m.Query())
}

func TestMintSelectEscapeClosesOverlayOnly(t *testing.T) {
	m := NewMintSelect()
	m.Open()
	require.True(t, m.IsOpen())

	m.Update(keyPress("esc"))
	assert.False(t, m.IsOpen())
}

func TestMintSelectTypingReissuesSearch(t *testing.T) {
	var queries []string
	m := NewMintSelect().
		SetSearchFunc(func(query string) tea.Cmd {
			queries = append(queries, query)
			return nil
		})

	m.Open()
	m.Update(keyPress("h"))
	m.Update(keyPress("a"))

	// Open issues the initial empty search, each keystroke a new one.
	assert.Equal(t, []string{"", "h", "ha"}, queries)
	assert.Equal(t, "ha", m.Query())
}

func TestMintSelectKeepsQueryAcrossReopen(t *testing.T) {
	m := NewMintSelect().
		SetSearchFunc(func(string) tea.Cmd { return nil })

	m.Open()
	m.Update(keyPress("h"))
	m.Close()

	m.Open()
	assert.Equal(t, "h", m.Query())
}

func TestMintSelectIgnoresInputWhileClosed(t *testing.T) {
	m := NewMintSelect()
	assert.Nil(t, m.Update(keyPress("x")))
	assert.Empty(t, m.Query())
}

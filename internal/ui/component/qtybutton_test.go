package component

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeInto(q *QtyButton, text string) {
	q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestQtyButtonBlockedOnGarbageInput(t *testing.T) {
	var dispatched []decimal.Decimal
	q := NewQtyButton("Contribute").
		SetOnPress(func(amount decimal.Decimal) tea.Cmd {
			dispatched = append(dispatched, amount)
			return nil
		})

	for _, input := range []string{"", "abc", "1.2.3", "-5", "0"} {
		q.Reset()
		typeInto(q, input)

		assert.NotEmpty(t, q.Problem(), "input %q must block the button", input)
		assert.Nil(t, q.Submit(), "input %q must not dispatch", input)
	}
	assert.Empty(t, dispatched)
}

func TestQtyButtonBlockedByCheck(t *testing.T) {
	q := NewQtyButton("Contribute").
		SetCheck(func(amount decimal.Decimal) string {
			return "Insufficient funds: you have 10, need " + amount.String()
		}).
		SetOnPress(func(decimal.Decimal) tea.Cmd { return nil })

	typeInto(q, "50")

	assert.Contains(t, q.Problem(), "Insufficient funds")
	assert.Nil(t, q.Submit())
}

func TestQtyButtonDispatchesExactlyOnce(t *testing.T) {
	count := 0
	q := NewQtyButton("Contribute").
		SetOnPress(func(amount decimal.Decimal) tea.Cmd {
			count++
			assert.True(t, amount.Equal(decimal.NewFromInt(5)))
			return nil
		})

	typeInto(q, "5")

	require.NotNil(t, q.Submit())
	assert.True(t, q.Busy())
	assert.Equal(t, 1, count)

	// A second press while in flight does nothing.
	assert.Nil(t, q.Submit())
	assert.Equal(t, 1, count)

	// Once resolved the button can fire again.
	q.Done()
	require.NotNil(t, q.Submit())
	assert.Equal(t, 2, count)
}

func TestQtyButtonIgnoresTypingWhileBusy(t *testing.T) {
	q := NewQtyButton("Withdraw").
		SetOnPress(func(decimal.Decimal) tea.Cmd { return nil })

	typeInto(q, "5")
	require.NotNil(t, q.Submit())

	typeInto(q, "9")
	assert.Equal(t, "5", q.Value())
}

func TestQtyButtonReset(t *testing.T) {
	q := NewQtyButton("Contribute").
		SetOnPress(func(decimal.Decimal) tea.Cmd { return nil })

	typeInto(q, "5")
	require.NotNil(t, q.Submit())

	q.Reset()
	assert.Empty(t, q.Value())
	assert.False(t, q.Busy())
}

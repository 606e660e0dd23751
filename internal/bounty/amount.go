package bounty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount parsing is an explicit step with tagged failures. Free-text
// input never reaches arithmetic as a not-a-number sentinel.
var (
	ErrEmptyAmount = errors.New("amount is empty")
	ErrNotANumber  = errors.New("amount is not a number")
	ErrNonPositive = errors.New("amount must be greater than zero")
)

// ParseAmount converts free-text quantity input into a usable decimal.
func ParseAmount(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, trimmed)
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrNonPositive
	}
	return amount, nil
}

// rawAmount converts a UI-scale amount into raw base units.
func rawAmount(amount decimal.Decimal, decimals uint8) uint64 {
	return amount.Shift(int32(decimals)).Floor().BigInt().Uint64()
}

// rawFloat converts a UI-scale amount into raw base units as float64,
// for slippage expectation math.
func rawFloat(amount decimal.Decimal, decimals uint8) float64 {
	return amount.Shift(int32(decimals)).InexactFloat64()
}

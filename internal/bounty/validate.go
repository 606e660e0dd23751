package bounty

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/solbounty/solbounty/internal/bonding"
)

// Mode selects the direction of a bounty action.
type Mode int

const (
	ModeContribute Mode = iota
	ModeWithdraw
)

func (m Mode) String() string {
	if m == ModeWithdraw {
		return "withdraw"
	}
	return "contribute"
}

// Toggle flips between contribute and withdraw.
func (m Mode) Toggle() Mode {
	if m == ModeContribute {
		return ModeWithdraw
	}
	return ModeContribute
}

// Balances describes what the connected wallet holds against a bounty.
type Balances struct {
	Connected bool
	Base      decimal.Decimal
	Target    decimal.Decimal
}

// CheckFunc inspects an amount and returns a human-readable blocking
// reason, or the empty string when the action may proceed. The reason
// replaces the action button's label; it is never raised as an error.
type CheckFunc func(amount decimal.Decimal) string

// ContributionCheck validates a contribution of base currency: the
// wallet must be connected and hold at least the requested amount.
func ContributionCheck(bal Balances) CheckFunc {
	return func(amount decimal.Decimal) string {
		if !bal.Connected {
			return "Connect your wallet to contribute"
		}
		if bal.Base.LessThan(amount) {
			return fmt.Sprintf("Insufficient funds: you have %s, need %s", bal.Base, amount)
		}
		return ""
	}
}

// WithdrawalCheck validates a withdrawal of base currency: the wallet
// must be connected and hold enough target tokens to redeem the
// requested amount at the curve's current price.
func WithdrawalCheck(bal Balances, curve bonding.Curve) CheckFunc {
	return func(amount decimal.Decimal) string {
		if !bal.Connected {
			return "Connect your wallet to withdraw"
		}
		targets, err := curve.TargetsForWithdrawal(amount)
		if err != nil {
			return "Withdrawal exceeds the available reserve"
		}
		if bal.Target.LessThan(targets) {
			return fmt.Sprintf("Insufficient bounty tokens: need %s, have %s", targets, bal.Target)
		}
		return ""
	}
}

// CheckFor returns the validator matching the current mode.
func CheckFor(mode Mode, bal Balances, curve bonding.Curve) CheckFunc {
	if mode == ModeWithdraw {
		return WithdrawalCheck(bal, curve)
	}
	return ContributionCheck(bal)
}

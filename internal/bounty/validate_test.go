package bounty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/solbounty/solbounty/internal/bonding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCurve returns canned withdrawal quotes keyed by base amount.
type stubCurve struct {
	withdrawals map[string]decimal.Decimal
	err         error
}

func (c stubCurve) TargetsForContribution(base decimal.Decimal) (decimal.Decimal, error) {
	return base, nil
}

func (c stubCurve) TargetsForWithdrawal(base decimal.Decimal) (decimal.Decimal, error) {
	if c.err != nil {
		return decimal.Zero, c.err
	}
	targets, ok := c.withdrawals[base.String()]
	if !ok {
		return decimal.Zero, bonding.ErrInsufficientReserve
	}
	return targets, nil
}

func (c stubCurve) Price() (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}

func TestContributionCheckPasses(t *testing.T) {
	check := ContributionCheck(Balances{
		Connected: true,
		Base:      decimal.NewFromInt(100),
	})

	assert.Empty(t, check(decimal.NewFromInt(50)))
	assert.Empty(t, check(decimal.NewFromInt(100)), "exact balance is enough")
}

func TestContributionCheckInsufficientFunds(t *testing.T) {
	check := ContributionCheck(Balances{
		Connected: true,
		Base:      decimal.NewFromInt(100),
	})

	reason := check(decimal.NewFromInt(101))
	assert.Contains(t, reason, "Insufficient funds")
}

func TestContributionCheckDisconnectedWallet(t *testing.T) {
	check := ContributionCheck(Balances{Connected: false, Base: decimal.NewFromInt(100)})
	assert.Contains(t, check(decimal.NewFromInt(1)), "Connect your wallet")
}

func TestWithdrawalCheckUsesCurveQuote(t *testing.T) {
	curve := stubCurve{withdrawals: map[string]decimal.Decimal{
		"5": decimal.NewFromInt(7),
	}}

	check := WithdrawalCheck(Balances{
		Connected: true,
		Target:    decimal.NewFromInt(10),
	}, curve)

	// Redeeming 5 base requires 7 targets; wallet holds 10.
	assert.Empty(t, check(decimal.NewFromInt(5)))
}

func TestWithdrawalCheckInsufficientTargets(t *testing.T) {
	curve := stubCurve{withdrawals: map[string]decimal.Decimal{
		"5": decimal.NewFromInt(12),
	}}

	check := WithdrawalCheck(Balances{
		Connected: true,
		Target:    decimal.NewFromInt(10),
	}, curve)

	reason := check(decimal.NewFromInt(5))
	assert.Contains(t, reason, "Insufficient bounty tokens")
}

func TestWithdrawalCheckReserveExceeded(t *testing.T) {
	curve := stubCurve{err: bonding.ErrInsufficientReserve}

	check := WithdrawalCheck(Balances{
		Connected: true,
		Target:    decimal.NewFromInt(1000),
	}, curve)

	assert.Contains(t, check(decimal.NewFromInt(5)), "reserve")
}

func TestCheckForFollowsMode(t *testing.T) {
	bal := Balances{Connected: false}
	curve := stubCurve{}

	require.Contains(t, CheckFor(ModeContribute, bal, curve)(decimal.NewFromInt(1)), "contribute")
	require.Contains(t, CheckFor(ModeWithdraw, bal, curve)(decimal.NewFromInt(1)), "withdraw")
}

func TestModeToggle(t *testing.T) {
	assert.Equal(t, ModeWithdraw, ModeContribute.Toggle())
	assert.Equal(t, ModeContribute, ModeWithdraw.Toggle())
	assert.Equal(t, "contribute", ModeContribute.String())
	assert.Equal(t, "withdraw", ModeWithdraw.String())
}

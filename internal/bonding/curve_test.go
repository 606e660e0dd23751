package bonding

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetsForContribution(t *testing.T) {
	curve := NewConstantProductCurve(
		decimal.NewFromInt(100), // base reserve
		decimal.NewFromInt(400), // target supply
		0,
	)

	// out = supply * a / (reserve + a) = 400*100/200 = 200
	out, err := curve.TargetsForContribution(decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, out.Equal(decimal.NewFromInt(200)), "got %s", out)
}

func TestTargetsForWithdrawalInvertsContribution(t *testing.T) {
	curve := NewConstantProductCurve(
		decimal.NewFromInt(100),
		decimal.NewFromInt(400),
		0,
	)

	// Withdrawing 50 base from a 100 reserve: t = 400*50/(100-50) = 400
	targets, err := curve.TargetsForWithdrawal(decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, targets.Equal(decimal.NewFromInt(400)), "got %s", targets)
}

func TestTargetsForWithdrawalExceedingReserve(t *testing.T) {
	curve := NewConstantProductCurve(
		decimal.NewFromInt(100),
		decimal.NewFromInt(400),
		0,
	)

	_, err := curve.TargetsForWithdrawal(decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrInsufficientReserve)

	_, err = curve.TargetsForWithdrawal(decimal.NewFromInt(150))
	assert.ErrorIs(t, err, ErrInsufficientReserve)
}

func TestCurveRejectsNonPositiveAmounts(t *testing.T) {
	curve := NewConstantProductCurve(decimal.NewFromInt(100), decimal.NewFromInt(400), 0)

	_, err := curve.TargetsForContribution(decimal.Zero)
	assert.Error(t, err)

	_, err = curve.TargetsForWithdrawal(decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestEmptyCurve(t *testing.T) {
	curve := NewConstantProductCurve(decimal.Zero, decimal.Zero, 0)

	_, err := curve.TargetsForContribution(decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrEmptyCurve)

	_, err = curve.Price()
	assert.ErrorIs(t, err, ErrEmptyCurve)
}

func TestCurveFeeGrossesUpWithdrawal(t *testing.T) {
	noFee := NewConstantProductCurve(decimal.NewFromInt(100), decimal.NewFromInt(400), 0)
	withFee := NewConstantProductCurve(decimal.NewFromInt(100), decimal.NewFromInt(400), 1.0)

	base := decimal.NewFromInt(10)
	plain, err := noFee.TargetsForWithdrawal(base)
	require.NoError(t, err)
	grossed, err := withFee.TargetsForWithdrawal(base)
	require.NoError(t, err)

	assert.True(t, grossed.GreaterThan(plain), "fee should increase targets required")
}

func TestPrice(t *testing.T) {
	curve := NewConstantProductCurve(decimal.NewFromInt(50), decimal.NewFromInt(200), 0)
	price, err := curve.Price()
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("0.25")), "got %s", price)
}

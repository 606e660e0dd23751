package bonding

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientReserve is returned when a withdrawal would exceed
	// the base currency currently held against the supply.
	ErrInsufficientReserve = errors.New("withdrawal exceeds curve reserve")
	// ErrEmptyCurve is returned when the curve has no supply or reserve
	// to price against.
	ErrEmptyCurve = errors.New("curve has no reserve to price against")
)

// Curve prices conversions between the base currency and the target
// token. Contribution and withdrawal are separate named operations.
type Curve interface {
	// TargetsForContribution returns the target tokens minted when the
	// given base amount is contributed to the reserve.
	TargetsForContribution(base decimal.Decimal) (decimal.Decimal, error)
	// TargetsForWithdrawal returns the target tokens that must be
	// redeemed to withdraw the given base amount from the reserve.
	TargetsForWithdrawal(base decimal.Decimal) (decimal.Decimal, error)
	// Price returns the current base-per-target spot price.
	Price() (decimal.Decimal, error)
}

// ConstantProductCurve prices against live reserve and supply figures,
// following the usual AMM formula out = y*a*f / (x + a*f) with a flat
// fee applied to the input side.
type ConstantProductCurve struct {
	BaseReserves decimal.Decimal
	TargetSupply decimal.Decimal
	FeePercent   decimal.Decimal
}

// NewConstantProductCurve builds a curve over current reserve and supply.
func NewConstantProductCurve(baseReserves, targetSupply decimal.Decimal, feePercent float64) *ConstantProductCurve {
	return &ConstantProductCurve{
		BaseReserves: baseReserves,
		TargetSupply: targetSupply,
		FeePercent:   decimal.NewFromFloat(feePercent),
	}
}

func (c *ConstantProductCurve) feeFactor() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return hundred.Sub(c.FeePercent).Div(hundred)
}

func (c *ConstantProductCurve) TargetsForContribution(base decimal.Decimal) (decimal.Decimal, error) {
	if !base.IsPositive() {
		return decimal.Zero, errors.New("contribution amount must be positive")
	}
	if !c.BaseReserves.IsPositive() || !c.TargetSupply.IsPositive() {
		return decimal.Zero, ErrEmptyCurve
	}

	effective := base.Mul(c.feeFactor())
	numerator := c.TargetSupply.Mul(effective)
	denominator := c.BaseReserves.Add(effective)
	return numerator.Div(denominator), nil
}

func (c *ConstantProductCurve) TargetsForWithdrawal(base decimal.Decimal) (decimal.Decimal, error) {
	if !base.IsPositive() {
		return decimal.Zero, errors.New("withdrawal amount must be positive")
	}
	if !c.BaseReserves.IsPositive() || !c.TargetSupply.IsPositive() {
		return decimal.Zero, ErrEmptyCurve
	}
	if base.Cmp(c.BaseReserves) >= 0 {
		return decimal.Zero, ErrInsufficientReserve
	}

	// Inverse of the contribution formula: targets burned to release
	// `base` from the reserve, grossed up by the fee on the way out.
	numerator := c.TargetSupply.Mul(base)
	denominator := c.BaseReserves.Sub(base)
	return numerator.Div(denominator).Div(c.feeFactor()), nil
}

func (c *ConstantProductCurve) Price() (decimal.Decimal, error) {
	if !c.TargetSupply.IsPositive() {
		return decimal.Zero, ErrEmptyCurve
	}
	return c.BaseReserves.Div(c.TargetSupply), nil
}

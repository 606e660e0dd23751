package bonding

import "math"

// SlippageType selects the slippage policy for a buy or sell.
type SlippageType string

const (
	// SlippageFixed uses a fixed minAmountOut value.
	SlippageFixed SlippageType = "fixed"
	// SlippagePercent derives minAmountOut from a percentage of the
	// expected output. A value of zero means no tolerated movement.
	SlippagePercent SlippageType = "percent"
	// SlippageNone places no minAmountOut constraint.
	SlippageNone SlippageType = "none"
)

// SlippageConfig configures the slippage policy.
type SlippageConfig struct {
	Type  SlippageType `json:"type"`
	Value float64      `json:"value"`
}

// ZeroSlippage tolerates no price movement: the expected output is the
// minimum acceptable output. Bounty contributions and withdrawals use
// this policy exclusively.
func ZeroSlippage() SlippageConfig {
	return SlippageConfig{Type: SlippagePercent, Value: 0}
}

// CalculateMinAmountOut computes minAmountOut for the given policy.
func CalculateMinAmountOut(expectedAmount float64, config SlippageConfig) uint64 {
	switch config.Type {
	case SlippageFixed:
		return uint64(config.Value)
	case SlippagePercent:
		multiplier := 1.0 - (config.Value / 100.0)
		return uint64(math.Floor(expectedAmount * multiplier))
	case SlippageNone:
		// 1 is the smallest value that passes on-chain validation.
		return 1
	default:
		return 1
	}
}

package bonding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMinAmountOut(t *testing.T) {
	tests := []struct {
		name     string
		expected float64
		config   SlippageConfig
		want     uint64
	}{
		{"zero percent keeps full expectation", 1000, ZeroSlippage(), 1000},
		{"one percent shaves one percent", 1000, SlippageConfig{Type: SlippagePercent, Value: 1.0}, 990},
		{"fixed value passes through", 1000, SlippageConfig{Type: SlippageFixed, Value: 42}, 42},
		{"none yields minimum valid", 1000, SlippageConfig{Type: SlippageNone}, 1},
		{"unknown type yields minimum valid", 1000, SlippageConfig{Type: "bogus"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateMinAmountOut(tt.expected, tt.config))
		})
	}
}

package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient([]string{"https://api.mainnet-beta.solana.com"}, 0, 0, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3, c.maxRetries)
	assert.Equal(t, 500*time.Millisecond, c.retryDelay)
}

func TestNewClientUsesConfiguredDelay(t *testing.T) {
	c, err := NewClient([]string{"https://api.mainnet-beta.solana.com"}, 5, 250, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 5, c.maxRetries)
	assert.Equal(t, 250*time.Millisecond, c.retryDelay)
}

func TestNewClientRejectsEmptyList(t *testing.T) {
	_, err := NewClient(nil, 3, 100, zap.NewNop())
	assert.Error(t, err)
}

package bounty

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/solbounty/solbounty/internal/bonding"
	"github.com/stretchr/testify/assert"
)

func TestClosedRequiresFinishedLookup(t *testing.T) {
	rec := &bonding.Record{}

	tests := []struct {
		name    string
		record  *bonding.Record
		loading bool
		closed  bool
	}{
		{"no record, lookup done", nil, false, true},
		{"no record, still loading", nil, true, false},
		{"record present, lookup done", rec, false, false},
		{"record present, still loading", rec, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Record: tt.record, Loading: tt.loading}
			assert.Equal(t, tt.closed, snap.Closed())
		})
	}
}

func TestFundsUsedNeedsBothFigures(t *testing.T) {
	snap := Snapshot{
		TargetSupply: decimal.NewFromInt(100),
		SupplyKnown:  true,
	}
	_, ok := snap.FundsUsed()
	assert.False(t, ok, "reserve unknown")

	snap.ReserveAmount = decimal.NewFromInt(60)
	snap.ReserveKnown = true
	used, ok := snap.FundsUsed()
	assert.True(t, ok)
	assert.True(t, used.Equal(decimal.NewFromInt(40)), "got %s", used)
}

func TestFundsDiverted(t *testing.T) {
	snap := Snapshot{
		TargetSupply:  decimal.NewFromInt(100),
		SupplyKnown:   true,
		ReserveAmount: decimal.NewFromInt(100),
		ReserveKnown:  true,
	}
	assert.False(t, snap.FundsDiverted(), "zero used is not diversion")

	snap.ReserveAmount = decimal.NewFromInt(110)
	assert.False(t, snap.FundsDiverted(), "negative used is not diversion")

	snap.ReserveAmount = decimal.NewFromInt(90)
	assert.True(t, snap.FundsDiverted())

	assert.False(t, Snapshot{}.FundsDiverted(), "unknown figures are not diversion")
}

func TestIsAdmin(t *testing.T) {
	authority := solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	other := solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	snap := Snapshot{Record: &bonding.Record{ReserveAuthority: authority}}

	assert.True(t, snap.IsAdmin(authority, true))
	assert.False(t, snap.IsAdmin(other, true))
	assert.False(t, snap.IsAdmin(authority, false), "disconnected wallet is never admin")
	assert.False(t, Snapshot{}.IsAdmin(authority, true), "no record means no admin")
}

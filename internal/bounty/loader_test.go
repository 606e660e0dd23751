package bounty

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solbounty/solbounty/internal/bonding"
)

type fakeSource struct {
	record     *bonding.Record
	recordErr  error
	reserve    decimal.Decimal
	reserveErr error
	supply     decimal.Decimal
	supplyErr  error
}

func (f *fakeSource) GetRecord(_ context.Context, _ solana.PublicKey) (*bonding.Record, error) {
	return f.record, f.recordErr
}

func (f *fakeSource) ReserveAmount(_ context.Context, _ *bonding.Record) (decimal.Decimal, uint8, error) {
	return f.reserve, 9, f.reserveErr
}

func (f *fakeSource) TargetSupply(_ context.Context, _ *bonding.Record) (decimal.Decimal, uint8, error) {
	return f.supply, 6, f.supplyErr
}

func TestLoadSnapshotMissingRecordIsClosed(t *testing.T) {
	snap, _, err := LoadSnapshot(context.Background(), &fakeSource{}, solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.True(t, snap.Closed())
}

func TestLoadSnapshotFullLoad(t *testing.T) {
	src := &fakeSource{
		record:  &bonding.Record{TargetMint: solana.NewWallet().PublicKey()},
		reserve: decimal.NewFromInt(400),
		supply:  decimal.NewFromInt(450),
	}

	snap, scale, err := LoadSnapshot(context.Background(), src, src.record.TargetMint)
	require.NoError(t, err)

	assert.False(t, snap.Closed())
	assert.True(t, snap.ReserveKnown)
	assert.True(t, snap.SupplyKnown)
	assert.True(t, snap.FundsDiverted())
	assert.Equal(t, uint8(9), scale.BaseDecimals)
	assert.Equal(t, uint8(6), scale.TargetDecimals)
}

func TestLoadSnapshotToleratesFigureFailures(t *testing.T) {
	src := &fakeSource{
		record:     &bonding.Record{},
		reserveErr: errors.New("rpc down"),
		supply:     decimal.NewFromInt(100),
	}

	snap, _, err := LoadSnapshot(context.Background(), src, solana.NewWallet().PublicKey())
	require.NoError(t, err)

	assert.False(t, snap.ReserveKnown)
	assert.True(t, snap.SupplyKnown)
	_, ok := snap.FundsUsed()
	assert.False(t, ok)
}

func TestLoadSnapshotRecordError(t *testing.T) {
	src := &fakeSource{recordErr: errors.New("rpc down")}

	snap, _, err := LoadSnapshot(context.Background(), src, solana.NewWallet().PublicKey())
	require.Error(t, err)
	assert.False(t, snap.Closed(), "a failed lookup must not report closed")
}

package bounty

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/solbounty/solbounty/internal/bonding"
)

// RecordSource is the read side of the bonding program needed to
// assemble a Snapshot. Implemented by bonding.Service.
type RecordSource interface {
	GetRecord(ctx context.Context, targetMint solana.PublicKey) (*bonding.Record, error)
	ReserveAmount(ctx context.Context, rec *bonding.Record) (decimal.Decimal, uint8, error)
	TargetSupply(ctx context.Context, rec *bonding.Record) (decimal.Decimal, uint8, error)
}

// LoadSnapshot fetches the bounty state for a mint. A missing bonding
// record yields a closed snapshot, not an error. Supply and reserve
// lookups are best effort: a failed lookup leaves the corresponding
// Known flag unset instead of failing the whole load.
func LoadSnapshot(ctx context.Context, src RecordSource, mint solana.PublicKey) (Snapshot, TokenScale, error) {
	rec, err := src.GetRecord(ctx, mint)
	if err != nil {
		return Snapshot{Loading: true}, TokenScale{}, fmt.Errorf("failed to load bounty record: %w", err)
	}

	snap := Snapshot{Record: rec}
	if rec == nil {
		return snap, TokenScale{}, nil
	}

	var scale TokenScale
	if reserve, decimals, err := src.ReserveAmount(ctx, rec); err == nil {
		snap.ReserveAmount = reserve
		snap.ReserveKnown = true
		scale.BaseDecimals = decimals
	}
	if supply, decimals, err := src.TargetSupply(ctx, rec); err == nil {
		snap.TargetSupply = supply
		snap.SupplyKnown = true
		scale.TargetDecimals = decimals
	}
	return snap, scale, nil
}

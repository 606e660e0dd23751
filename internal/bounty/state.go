package bounty

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/solbounty/solbounty/internal/bonding"
)

// Snapshot is the observed state of a single bounty at one point in
// time: the bonding record (or its absence), live supply and reserve
// figures, and which lookups are still pending.
type Snapshot struct {
	Record  *bonding.Record
	Loading bool

	TargetSupply decimal.Decimal
	SupplyKnown  bool

	ReserveAmount decimal.Decimal
	ReserveKnown  bool
}

// Closed reports whether the bounty has been shut down: no bonding
// record exists and the lookup has actually finished. While the lookup
// is pending the bounty is neither open nor closed.
func (s Snapshot) Closed() bool {
	return s.Record == nil && !s.Loading
}

// FundsUsed returns supply minus reserve, the amount of base currency
// that has left the reserve without burning supply. The second return
// is false while either figure is unknown.
func (s Snapshot) FundsUsed() (decimal.Decimal, bool) {
	if !s.SupplyKnown || !s.ReserveKnown {
		return decimal.Zero, false
	}
	return s.TargetSupply.Sub(s.ReserveAmount), true
}

// FundsDiverted reports whether funds have been moved out of the
// reserve. Informational only; it never blocks contribute or withdraw.
func (s Snapshot) FundsDiverted() bool {
	used, ok := s.FundsUsed()
	return ok && used.IsPositive()
}

// IsAdmin reports whether the given wallet controls the reserve.
func (s Snapshot) IsAdmin(walletKey solana.PublicKey, connected bool) bool {
	return connected && s.Record != nil && walletKey.Equals(s.Record.ReserveAuthority)
}

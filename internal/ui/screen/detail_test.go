package screen

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solbounty/solbounty/internal/bonding"
	"github.com/solbounty/solbounty/internal/bounty"
	"github.com/solbounty/solbounty/internal/token"
	"github.com/solbounty/solbounty/internal/ui"
	"github.com/solbounty/solbounty/internal/wallet"
)

func newTestDetail() *DetailScreen {
	services := &ui.Services{Wallet: &wallet.Wallet{}}
	s := NewDetailScreen(services, solana.NewWallet().PublicKey())
	s.SetSize(100, 40)
	return s
}

func TestModeToggleClearsQuantity(t *testing.T) {
	s := newTestDetail()
	s.loaded = true
	s.snapshot = bounty.Snapshot{Record: &bonding.Record{}}

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	assert.Equal(t, "5", s.action.Value())

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	assert.Equal(t, bounty.ModeWithdraw, s.mode)
	assert.Empty(t, s.action.Value(), "toggling mode must clear the quantity")

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	assert.Equal(t, bounty.ModeContribute, s.mode)
	assert.Empty(t, s.action.Value())
}

func TestViewShowsSpinnerWhileLoading(t *testing.T) {
	s := newTestDetail()
	assert.Contains(t, s.View(), "Loading bounty")
}

func TestClosedBountyOffersBurnToHolders(t *testing.T) {
	s := newTestDetail()
	s.loaded = true
	s.snapshot = bounty.Snapshot{}
	s.balances = bounty.Balances{Connected: true, Target: decimal.NewFromInt(10)}

	view := s.View()
	assert.Contains(t, view, "closed")
	assert.Contains(t, view, "burn")
}

func TestUnknownMintShowsNotFound(t *testing.T) {
	s := newTestDetail()
	s.loaded = true
	s.snapshot = bounty.Snapshot{}
	s.metadata = &token.Metadata{Mint: s.mint}

	view := s.View()
	assert.Contains(t, view, "No bounty found")
	assert.NotContains(t, view, "closed")
}

func TestClosedBountyWithoutHolding(t *testing.T) {
	s := newTestDetail()
	s.loaded = true
	s.snapshot = bounty.Snapshot{}

	view := s.View()
	assert.Contains(t, view, "closed")
	assert.NotContains(t, view, "burn")
}

// sdkRecorder captures the raw amounts handed to the bonding program.
type sdkRecorder struct {
	burns []uint64
}

func (r *sdkRecorder) CurveFor(context.Context, *bonding.Record) (bonding.Curve, error) {
	return nil, nil
}

func (r *sdkRecorder) Buy(context.Context, *bonding.Record, uint64, float64, bonding.SlippageConfig) (solana.Signature, error) {
	return solana.Signature{}, nil
}

func (r *sdkRecorder) Sell(context.Context, *bonding.Record, uint64, float64, bonding.SlippageConfig) (solana.Signature, error) {
	return solana.Signature{}, nil
}

func (r *sdkRecorder) Burn(_ context.Context, _ solana.PublicKey, amount uint64) (solana.Signature, error) {
	r.burns = append(r.burns, amount)
	return solana.Signature{}, nil
}

func (r *sdkRecorder) TransferReserves(context.Context, *bonding.Record, solana.PublicKey, uint64) (solana.Signature, error) {
	return solana.Signature{}, nil
}

func TestClosedBountyBurnUsesAccountScale(t *testing.T) {
	recorder := &sdkRecorder{}
	services := &ui.Services{
		Ctx:     context.Background(),
		Wallet:  &wallet.Wallet{},
		Bonding: bounty.NewService(recorder, zap.NewNop()),
	}
	s := NewDetailScreen(services, solana.NewWallet().PublicKey())
	s.SetSize(100, 40)

	// The record is gone, so the scale arrives with the balance fetch.
	s.Update(ui.BountyLoadedMsg{Mint: s.mint})
	s.Update(ui.BalancesMsg{
		Mint:           s.mint,
		TargetDecimals: 6,
		Balances:       bounty.Balances{Connected: true, Target: decimal.RequireFromString("10.5")},
	})

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	require.NotNil(t, cmd)

	done, ok := cmd().(ui.ActionDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	require.Len(t, recorder.burns, 1)
	assert.Equal(t, uint64(10_500_000), recorder.burns[0],
		"a 10.5 balance on a 6-decimal mint burns 10,500,000 raw units")
}

func TestDiversionWarningIsInformational(t *testing.T) {
	s := newTestDetail()
	s.loaded = true
	s.snapshot = bounty.Snapshot{
		Record:        &bonding.Record{},
		ReserveAmount: decimal.NewFromInt(400),
		ReserveKnown:  true,
		TargetSupply:  decimal.NewFromInt(450),
		SupplyKnown:   true,
	}
	s.refreshCheck()

	view := s.View()
	assert.Contains(t, view, "paid out", "diverted funds must be surfaced")
	assert.Contains(t, view, "Contribute", "the action stays available")
}

func TestNoWarningWhenReserveCoversSupply(t *testing.T) {
	s := newTestDetail()
	s.loaded = true
	s.snapshot = bounty.Snapshot{
		Record:        &bonding.Record{},
		ReserveAmount: decimal.NewFromInt(450),
		ReserveKnown:  true,
		TargetSupply:  decimal.NewFromInt(450),
		SupplyKnown:   true,
	}

	assert.NotContains(t, s.View(), "paid out")
}

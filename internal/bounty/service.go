package bounty

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/solbounty/solbounty/internal/bonding"
	"go.uber.org/zap"
)

// CurveSDK is the bonding-program surface the bounty service drives.
// Implemented by bonding.Service.
type CurveSDK interface {
	CurveFor(ctx context.Context, rec *bonding.Record) (bonding.Curve, error)
	Buy(ctx context.Context, rec *bonding.Record, baseAmount uint64, expectedTargets float64, slip bonding.SlippageConfig) (solana.Signature, error)
	Sell(ctx context.Context, rec *bonding.Record, targetAmount uint64, expectedBase float64, slip bonding.SlippageConfig) (solana.Signature, error)
	Burn(ctx context.Context, mint solana.PublicKey, amount uint64) (solana.Signature, error)
	TransferReserves(ctx context.Context, rec *bonding.Record, destination solana.PublicKey, amount uint64) (solana.Signature, error)
}

// TokenScale carries the raw-unit scale of both sides of a bounty.
type TokenScale struct {
	BaseDecimals   uint8
	TargetDecimals uint8
}

// Service dispatches bounty actions onto the bonding program. All
// buys and sells run with zero slippage tolerance: a bounty position
// moves at the quoted price or not at all.
type Service struct {
	sdk    CurveSDK
	logger *zap.Logger
}

func NewService(sdk CurveSDK, logger *zap.Logger) *Service {
	return &Service{
		sdk:    sdk,
		logger: logger.Named("bounty"),
	}
}

// Contribute buys into the curve with the given base amount.
func (s *Service) Contribute(ctx context.Context, rec *bonding.Record, scale TokenScale, amount decimal.Decimal) (solana.Signature, error) {
	curve, err := s.sdk.CurveFor(ctx, rec)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to load curve: %w", err)
	}

	expectedTargets, err := curve.TargetsForContribution(amount)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to quote contribution: %w", err)
	}

	s.logger.Info("contributing to bounty",
		zap.String("mint", rec.TargetMint.String()),
		zap.String("base_amount", amount.String()),
		zap.String("expected_targets", expectedTargets.String()))

	return s.sdk.Buy(ctx, rec,
		rawAmount(amount, scale.BaseDecimals),
		rawFloat(expectedTargets, scale.TargetDecimals),
		bonding.ZeroSlippage())
}

// Withdraw redeems target tokens for the given base amount. The
// target quantity comes from the curve's explicit withdrawal quote.
func (s *Service) Withdraw(ctx context.Context, rec *bonding.Record, scale TokenScale, amount decimal.Decimal) (solana.Signature, error) {
	curve, err := s.sdk.CurveFor(ctx, rec)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to load curve: %w", err)
	}

	targets, err := curve.TargetsForWithdrawal(amount)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to quote withdrawal: %w", err)
	}

	s.logger.Info("withdrawing from bounty",
		zap.String("mint", rec.TargetMint.String()),
		zap.String("base_amount", amount.String()),
		zap.String("targets_redeemed", targets.String()))

	return s.sdk.Sell(ctx, rec,
		rawAmount(targets, scale.TargetDecimals),
		rawFloat(amount, scale.BaseDecimals),
		bonding.ZeroSlippage())
}

// Burn destroys the caller's holding of a closed bounty's token.
func (s *Service) Burn(ctx context.Context, mint solana.PublicKey, scale TokenScale, balance decimal.Decimal) (solana.Signature, error) {
	if !balance.IsPositive() {
		return solana.Signature{}, fmt.Errorf("nothing to burn")
	}

	s.logger.Info("burning closed bounty tokens",
		zap.String("mint", mint.String()),
		zap.String("amount", balance.String()))

	return s.sdk.Burn(ctx, mint, rawAmount(balance, scale.TargetDecimals))
}

// Disburse moves base currency out of the bounty reserve. The bonding
// program enforces that only the reserve authority may do this.
func (s *Service) Disburse(ctx context.Context, rec *bonding.Record, scale TokenScale, destination solana.PublicKey, amount decimal.Decimal) (solana.Signature, error) {
	if !amount.IsPositive() {
		return solana.Signature{}, fmt.Errorf("disbursement amount must be positive")
	}

	s.logger.Info("disbursing bounty reserve",
		zap.String("mint", rec.TargetMint.String()),
		zap.String("destination", destination.String()),
		zap.String("amount", amount.String()))

	return s.sdk.TransferReserves(ctx, rec, destination, rawAmount(amount, scale.BaseDecimals))
}

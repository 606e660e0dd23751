package bonding

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/solbounty/solbounty/internal/wallet"
	"go.uber.org/zap"
)

// DefaultFeePercent is the flat curve fee applied on the input side.
const DefaultFeePercent = 0.0

// ChainClient is the subset of the RPC surface the bonding client needs.
type ChainClient interface {
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey) (*rpc.UiTokenAmount, error)
	GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*rpc.UiTokenAmount, error)
}

// Service is the client for the bounty bonding program: record lookups,
// curve construction from live reserves, and buy/sell/disburse/burn
// transaction submission.
type Service struct {
	client    ChainClient
	wallet    *wallet.Wallet
	programID solana.PublicKey
	logger    *zap.Logger
}

func NewService(client ChainClient, w *wallet.Wallet, programID solana.PublicKey, logger *zap.Logger) *Service {
	return &Service{
		client:    client,
		wallet:    w,
		programID: programID,
		logger:    logger.Named("bonding"),
	}
}

// GetRecord looks up the bonding record for a target mint. A missing
// account yields (nil, nil): the bounty is closed, not broken.
func (s *Service) GetRecord(ctx context.Context, targetMint solana.PublicKey) (*Record, error) {
	addr, err := RecordAddress(s.programID, targetMint, 0)
	if err != nil {
		return nil, err
	}

	data, err := s.client.GetAccountData(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bonding record: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	rec, err := DecodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bonding record: %w", err)
	}
	return rec, nil
}

// ReserveAmount returns the base currency held in the record's reserve.
func (s *Service) ReserveAmount(ctx context.Context, rec *Record) (decimal.Decimal, uint8, error) {
	balance, err := s.client.GetTokenAccountBalance(ctx, rec.BaseStorage)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to fetch reserve balance: %w", err)
	}
	if balance == nil {
		return decimal.Zero, 0, fmt.Errorf("reserve account %s has no balance", rec.BaseStorage)
	}
	amount, err := decimal.NewFromString(balance.UiAmountString)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to parse reserve balance: %w", err)
	}
	return amount, balance.Decimals, nil
}

// TargetSupply returns the outstanding supply of the target token.
func (s *Service) TargetSupply(ctx context.Context, rec *Record) (decimal.Decimal, uint8, error) {
	supply, err := s.client.GetTokenSupply(ctx, rec.TargetMint)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to fetch target supply: %w", err)
	}
	if supply == nil {
		return decimal.Zero, 0, fmt.Errorf("mint %s has no supply info", rec.TargetMint)
	}
	amount, err := decimal.NewFromString(supply.UiAmountString)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to parse target supply: %w", err)
	}
	return amount, supply.Decimals, nil
}

// CurveFor builds a pricing curve over the record's live reserve and supply.
func (s *Service) CurveFor(ctx context.Context, rec *Record) (Curve, error) {
	reserve, _, err := s.ReserveAmount(ctx, rec)
	if err != nil {
		return nil, err
	}
	supply, _, err := s.TargetSupply(ctx, rec)
	if err != nil {
		return nil, err
	}
	return NewConstantProductCurve(reserve, supply, DefaultFeePercent), nil
}

// Buy contributes base currency to the curve, minting target tokens to
// the caller. Amounts are raw base units.
func (s *Service) Buy(ctx context.Context, rec *Record, baseAmount uint64, expectedTargets float64, slip SlippageConfig) (solana.Signature, error) {
	if rec.BuyFrozen {
		return solana.Signature{}, fmt.Errorf("buying on this curve is frozen")
	}

	minTargetsOut := CalculateMinAmountOut(expectedTargets, slip)

	s.logger.Info("submitting curve buy",
		zap.String("target_mint", rec.TargetMint.String()),
		zap.Uint64("base_amount", baseAmount),
		zap.Uint64("min_targets_out", minTargetsOut))

	return s.submitSwap(ctx, rec, true, baseAmount, minTargetsOut)
}

// Sell redeems target tokens against the curve, releasing base currency
// to the caller. Amounts are raw base units.
func (s *Service) Sell(ctx context.Context, rec *Record, targetAmount uint64, expectedBase float64, slip SlippageConfig) (solana.Signature, error) {
	minBaseOut := CalculateMinAmountOut(expectedBase, slip)

	s.logger.Info("submitting curve sell",
		zap.String("target_mint", rec.TargetMint.String()),
		zap.Uint64("target_amount", targetAmount),
		zap.Uint64("min_base_out", minBaseOut))

	return s.submitSwap(ctx, rec, false, targetAmount, minBaseOut)
}

func (s *Service) submitSwap(ctx context.Context, rec *Record, isBuy bool, amount, limit uint64) (solana.Signature, error) {
	recordAddr, err := RecordAddress(s.programID, rec.TargetMint, rec.Index)
	if err != nil {
		return solana.Signature{}, err
	}
	targetATA, err := s.wallet.GetATA(rec.TargetMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive target ATA: %w", err)
	}
	baseATA, err := s.wallet.GetATA(rec.BaseMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive base ATA: %w", err)
	}

	instructions := []solana.Instruction{
		newCreateATAIdempotentInstruction(s.wallet.PublicKey, s.wallet.PublicKey, rec.TargetMint),
		newSwapInstruction(&swapInstructionParams{
			isBuy:            isBuy,
			programID:        s.programID,
			record:           recordAddr,
			user:             s.wallet.PublicKey,
			targetMint:       rec.TargetMint,
			baseMint:         rec.BaseMint,
			userTargetATA:    targetATA,
			userBaseATA:      baseATA,
			baseStorage:      rec.BaseStorage,
			reserveAuthority: rec.ReserveAuthority,
			amount:           amount,
			limit:            limit,
		}),
	}

	return s.signAndSend(ctx, instructions)
}

// TransferReserves moves base currency out of the reserve to a
// destination account. Only the reserve authority can sign this.
func (s *Service) TransferReserves(ctx context.Context, rec *Record, destination solana.PublicKey, amount uint64) (solana.Signature, error) {
	if !s.wallet.PublicKey.Equals(rec.ReserveAuthority) {
		return solana.Signature{}, fmt.Errorf("wallet is not the reserve authority")
	}

	recordAddr, err := RecordAddress(s.programID, rec.TargetMint, rec.Index)
	if err != nil {
		return solana.Signature{}, err
	}

	s.logger.Info("disbursing reserve funds",
		zap.String("target_mint", rec.TargetMint.String()),
		zap.String("destination", destination.String()),
		zap.Uint64("amount", amount))

	ix := newTransferReservesInstruction(s.programID, recordAddr, s.wallet.PublicKey, rec.BaseStorage, destination, amount)
	return s.signAndSend(ctx, []solana.Instruction{ix})
}

// Burn destroys the caller's target tokens. Used once a bounty has
// closed and the tokens no longer redeem against a reserve.
func (s *Service) Burn(ctx context.Context, mint solana.PublicKey, amount uint64) (solana.Signature, error) {
	source, err := s.wallet.GetATA(mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive token account: %w", err)
	}

	s.logger.Info("burning tokens",
		zap.String("mint", mint.String()),
		zap.Uint64("amount", amount))

	ix := token.NewBurnInstruction(amount, source, mint, s.wallet.PublicKey, nil).Build()
	return s.signAndSend(ctx, []solana.Instruction{ix})
}

func (s *Service) signAndSend(ctx context.Context, instructions []solana.Instruction) (solana.Signature, error) {
	blockhash, err := s.client.GetLatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(s.wallet.PublicKey),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := s.wallet.SignTransaction(tx); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := s.client.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	s.logger.Info("transaction submitted", zap.String("signature", sig.String()))
	return sig, nil
}

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/solbounty/solbounty/internal/bonding"
	"github.com/solbounty/solbounty/internal/bounty"
	"github.com/solbounty/solbounty/internal/chain"
	"github.com/solbounty/solbounty/internal/config"
	"github.com/solbounty/solbounty/internal/logger"
	"github.com/solbounty/solbounty/internal/token"
	"github.com/solbounty/solbounty/internal/wallet"
)

// Services bundles the application services the screens run against.
type Services struct {
	Ctx       context.Context
	Config    *config.Config
	Logger    *zap.Logger
	LogBuffer *logger.LogBuffer

	Wallet  *wallet.Wallet
	Chain   *chain.Client
	Bonding *bounty.Service
	SDK     *bonding.Service
	Tokens  *token.Service
}

// RefreshInterval is the cadence for screen auto-refresh, taken from
// the configured refresh delay.
func (s *Services) RefreshInterval() time.Duration {
	if s.Config == nil || s.Config.RefreshDelay <= 0 {
		return 2 * time.Second
	}
	return time.Duration(s.Config.RefreshDelay) * time.Millisecond
}

// LoadBounty fetches the bounty snapshot for a mint.
func (s *Services) LoadBounty(mint solana.PublicKey) tea.Cmd {
	return func() tea.Msg {
		snap, scale, err := bounty.LoadSnapshot(s.Ctx, s.SDK, mint)
		return BountyLoadedMsg{Mint: mint, Snapshot: snap, Scale: scale, Err: err}
	}
}

// LoadMetadata resolves display metadata for a mint.
func (s *Services) LoadMetadata(mint solana.PublicKey) tea.Cmd {
	return func() tea.Msg {
		metadata, err := s.Tokens.GetMetadata(s.Ctx, mint)
		if err != nil {
			s.Logger.Warn("metadata load failed",
				zap.String("mint", mint.String()),
				zap.Error(err))
			metadata = &token.Metadata{Mint: mint}
		}
		return MetadataLoadedMsg{Mint: mint, Metadata: metadata}
	}
}

// LoadHolders fetches the largest holders of a mint.
func (s *Services) LoadHolders(mint solana.PublicKey) tea.Cmd {
	return func() tea.Msg {
		holders, err := s.Tokens.TopHolders(s.Ctx, mint)
		return HoldersMsg{Mint: mint, Holders: holders, Err: err}
	}
}

// LoadBalances fetches the wallet's balances on both sides of a bounty.
// A disconnected wallet yields zero balances with Connected unset.
func (s *Services) LoadBalances(rec *bonding.Record) tea.Cmd {
	return func() tea.Msg {
		msg := BalancesMsg{Mint: rec.TargetMint}
		if !s.Wallet.Connected() {
			return msg
		}
		msg.Balances.Connected = true
		msg.Balances.Base, _ = s.ataBalance(rec.BaseMint)
		msg.Balances.Target, msg.TargetDecimals = s.ataBalance(rec.TargetMint)
		return msg
	}
}

func (s *Services) ataBalance(mint solana.PublicKey) (decimal.Decimal, uint8) {
	ata, err := s.Wallet.GetATA(mint)
	if err != nil {
		return decimal.Zero, 0
	}
	amount, err := s.Chain.GetTokenAccountBalance(s.Ctx, ata)
	if err != nil || amount == nil {
		// An absent token account is a zero balance.
		return decimal.Zero, 0
	}
	balance, err := decimal.NewFromString(amount.UiAmountString)
	if err != nil {
		return decimal.Zero, 0
	}
	return balance, amount.Decimals
}

// LoadClosedBalance fetches only the wallet's target-token balance for
// a bounty whose bonding record is gone. The base mint is unknowable at
// that point, so the base balance stays zero.
func (s *Services) LoadClosedBalance(mint solana.PublicKey) tea.Cmd {
	return func() tea.Msg {
		msg := BalancesMsg{Mint: mint}
		if !s.Wallet.Connected() {
			return msg
		}
		msg.Balances.Connected = true
		msg.Balances.Target, msg.TargetDecimals = s.ataBalance(mint)
		return msg
	}
}

// SearchTokens looks up the wallet's holdings matching the query.
func (s *Services) SearchTokens(query string) tea.Cmd {
	return func() tea.Msg {
		if !s.Wallet.Connected() {
			return SearchResultsMsg{Query: query}
		}
		tokens, err := s.Tokens.SearchOwned(s.Ctx, s.Wallet.PublicKey, query)
		return SearchResultsMsg{Query: query, Tokens: tokens, Err: err}
	}
}

// Contribute buys into the bounty curve.
func (s *Services) Contribute(rec *bonding.Record, scale bounty.TokenScale, amount decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		sig, err := s.Bonding.Contribute(s.Ctx, rec, scale, amount)
		return s.actionDone(ActionContribute, rec.TargetMint, amount, sig, err)
	}
}

// Withdraw redeems bounty tokens for base currency.
func (s *Services) Withdraw(rec *bonding.Record, scale bounty.TokenScale, amount decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		sig, err := s.Bonding.Withdraw(s.Ctx, rec, scale, amount)
		return s.actionDone(ActionWithdraw, rec.TargetMint, amount, sig, err)
	}
}

// Burn destroys the wallet's holding of a closed bounty's token.
func (s *Services) Burn(mint solana.PublicKey, scale bounty.TokenScale, balance decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		sig, err := s.Bonding.Burn(s.Ctx, mint, scale, balance)
		return s.actionDone(ActionBurn, mint, balance, sig, err)
	}
}

// Disburse moves base currency out of the bounty reserve.
func (s *Services) Disburse(rec *bonding.Record, scale bounty.TokenScale, destination solana.PublicKey, amount decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		sig, err := s.Bonding.Disburse(s.Ctx, rec, scale, destination, amount)
		return s.actionDone(ActionDisburse, rec.TargetMint, amount, sig, err)
	}
}

// actionDone assembles the completion message. Failures also go onto
// the bus, so the active screen surfaces them even when the user
// navigated away before the transaction settled.
func (s *Services) actionDone(kind ActionKind, mint solana.PublicKey, amount decimal.Decimal, sig solana.Signature, err error) tea.Msg {
	if err != nil {
		PublishError(err, string(kind))
	}
	return ActionDoneMsg{Kind: kind, Mint: mint, Amount: amount, Signature: sig, Err: err}
}

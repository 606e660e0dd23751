// internal/token/holders.go
package token

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Holder is one of the largest token accounts of a mint together with
// its share of the circulating supply, in percent.
type Holder struct {
	Address solana.PublicKey
	Amount  decimal.Decimal
	Share   decimal.Decimal
}

// TopHolders returns the largest token accounts of the mint ordered as
// the RPC node reports them, largest first.
func (s *Service) TopHolders(ctx context.Context, mint solana.PublicKey) ([]Holder, error) {
	supply, err := s.client.GetTokenSupply(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get token supply: %w", err)
	}
	if supply == nil {
		return nil, fmt.Errorf("no supply reported for mint %s", mint.String())
	}

	total, err := decimal.NewFromString(supply.UiAmountString)
	if err != nil {
		return nil, fmt.Errorf("invalid supply amount %q: %w", supply.UiAmountString, err)
	}

	largest, err := s.client.GetTokenLargestAccounts(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get largest accounts: %w", err)
	}

	hundred := decimal.NewFromInt(100)
	holders := make([]Holder, 0, len(largest))
	for _, account := range largest {
		if account == nil {
			continue
		}
		amount, err := decimal.NewFromString(account.UiAmountString)
		if err != nil {
			continue
		}
		holder := Holder{
			Address: account.Address,
			Amount:  amount,
		}
		if total.IsPositive() {
			holder.Share = amount.Mul(hundred).Div(total)
		}
		holders = append(holders, holder)
	}
	return holders, nil
}

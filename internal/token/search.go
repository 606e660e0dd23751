// internal/token/search.go
package token

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// metadataFetchLimit caps concurrent per-mint lookups during a search.
const metadataFetchLimit = 4

// OwnedToken is one mint held by the wallet, enriched with metadata for
// display and filtering.
type OwnedToken struct {
	Mint     solana.PublicKey
	Name     string
	Symbol   string
	Balance  decimal.Decimal
	Decimals uint8
}

// SearchOwned lists the wallet's non-empty token holdings matching the
// query. An empty query matches everything. The query matches against
// the token name, symbol or a prefix of the mint address, all case
// insensitive. Results are ordered by balance, largest first.
func (s *Service) SearchOwned(ctx context.Context, owner solana.PublicKey, query string) ([]OwnedToken, error) {
	accounts, err := s.client.ListTokenAccounts(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list token accounts: %w", err)
	}

	// One wallet can hold several accounts for the same mint; keep the
	// first seen and skip dust-free duplicates.
	seen := make(map[solana.PublicKey]bool, len(accounts))
	owned := make([]OwnedToken, 0, len(accounts))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(metadataFetchLimit)

	for _, account := range accounts {
		if account.RawAmount == 0 || seen[account.Mint] {
			continue
		}
		seen[account.Mint] = true

		g.Go(func() error {
			balance, err := s.client.GetTokenAccountBalance(gctx, account.Address)
			if err != nil || balance == nil {
				s.logger.Debug("skipping token account without balance",
					zap.String("account", account.Address.String()),
					zap.Error(err))
				return nil
			}

			amount, err := decimal.NewFromString(balance.UiAmountString)
			if err != nil {
				return nil
			}

			item := OwnedToken{
				Mint:     account.Mint,
				Balance:  amount,
				Decimals: balance.Decimals,
			}

			// Metadata is decoration; a mint without it still shows up
			// under its address.
			if metadata, err := s.GetMetadata(gctx, account.Mint); err == nil {
				item.Name = metadata.Name
				item.Symbol = metadata.Symbol
			}

			mu.Lock()
			owned = append(owned, item)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := owned[:0]
	for _, item := range owned {
		if matchesQuery(item, query) {
			filtered = append(filtered, item)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Balance.GreaterThan(filtered[j].Balance)
	})
	return filtered, nil
}

func matchesQuery(item OwnedToken, query string) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(item.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Symbol), query) {
		return true
	}
	return strings.HasPrefix(strings.ToLower(item.Mint.String()), query)
}

// internal/token/service.go
package token

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/solbounty/solbounty/internal/chain"
)

// ChainReader is the read-only slice of the RPC client the token service
// needs.
type ChainReader interface {
	GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey) (*rpc.UiTokenAmount, error)
	GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*rpc.UiTokenAmount, error)
	GetTokenLargestAccounts(ctx context.Context, mint solana.PublicKey) ([]*rpc.TokenLargestAccountsResult, error)
	ListTokenAccounts(ctx context.Context, owner solana.PublicKey) ([]chain.TokenAccountInfo, error)
}

// Service resolves token metadata, searches a wallet's holdings and lists
// the largest holders of a mint.
type Service struct {
	client     ChainReader
	logger     *zap.Logger
	httpClient *http.Client
	cache      sync.Map
}

func NewService(client ChainReader, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.Named("token"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

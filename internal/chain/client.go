package chain

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Client is a thin wrapper over the Solana JSON-RPC API backed by a
// round-robin endpoint pool. Transient failures are retried with
// exponential backoff.
type Client struct {
	rpcPool    *RPCPool
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
}

func NewClient(rpcList []string, retries, retryDelayMs int, logger *zap.Logger) (*Client, error) {
	if len(rpcList) == 0 {
		return nil, errors.New("empty RPC list")
	}

	for _, rpcURL := range rpcList {
		if _, err := url.Parse(rpcURL); err != nil {
			return nil, errors.New("invalid RPC URL: " + rpcURL)
		}
	}

	if retries <= 0 {
		retries = 3
	}
	if retryDelayMs <= 0 {
		retryDelayMs = 500
	}

	return &Client{
		rpcPool:    NewRPCPool(rpcList),
		logger:     logger.Named("chain"),
		maxRetries: retries,
		retryDelay: time.Duration(retryDelayMs) * time.Millisecond,
	}, nil
}

// StartHealthChecks prunes unreachable endpoints from the pool on a
// fixed cadence until the context ends. Blocks; run it in a goroutine.
func (c *Client) StartHealthChecks(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before := c.rpcPool.Size()
			c.rpcPool.PerformHealthChecks()
			if after := c.rpcPool.Size(); after < before {
				c.logger.Warn("dropped unhealthy RPC endpoints",
					zap.Int("before", before),
					zap.Int("remaining", after))
			}
		}
	}
}

// Ping verifies connectivity by fetching a blockhash from the pool.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.rpcPool.GetClient().GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	return err
}

func retryRPC[T any](ctx context.Context, c *Client, name string, op func(*rpc.Client) (T, error)) (T, error) {
	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = c.retryDelay
	backoffPolicy.MaxInterval = c.retryDelay * 10

	notify := func(err error, duration time.Duration) {
		c.logger.Debug("retrying RPC call",
			zap.String("method", name),
			zap.Error(err),
			zap.Duration("backoff", duration))
	}

	operation := func() (T, error) {
		result, err := op(c.rpcPool.GetClient())
		if err != nil && errors.Is(err, rpc.ErrNotFound) {
			// Absence is an answer, not a transient failure.
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(uint(c.maxRetries)),
		backoff.WithNotify(notify))
}

func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := retryRPC(ctx, c, "getLatestBlockhash", func(client *rpc.Client) (*rpc.GetLatestBlockhashResult, error) {
		return client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	})
	if err != nil {
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	rpcClient := c.rpcPool.GetClient()
	sig, err := rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		c.logger.Error("failed to send transaction", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// GetAccountData returns the raw account data, or nil when the account
// does not exist.
func (c *Client) GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	result, err := retryRPC(ctx, c, "getAccountInfo", func(client *rpc.Client) (*rpc.GetAccountInfoResult, error) {
		return client.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
			Commitment: rpc.CommitmentConfirmed,
			Encoding:   solana.EncodingBase64,
		})
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if result.Value == nil {
		return nil, nil
	}
	return result.Value.Data.GetBinary(), nil
}

func (c *Client) GetTokenAccountBalance(ctx context.Context, account solana.PublicKey) (*rpc.UiTokenAmount, error) {
	result, err := retryRPC(ctx, c, "getTokenAccountBalance", func(client *rpc.Client) (*rpc.GetTokenAccountBalanceResult, error) {
		return client.GetTokenAccountBalance(ctx, account, rpc.CommitmentConfirmed)
	})
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

func (c *Client) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*rpc.UiTokenAmount, error) {
	result, err := retryRPC(ctx, c, "getTokenSupply", func(client *rpc.Client) (*rpc.GetTokenSupplyResult, error) {
		return client.GetTokenSupply(ctx, mint, rpc.CommitmentConfirmed)
	})
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

func (c *Client) GetTokenLargestAccounts(ctx context.Context, mint solana.PublicKey) ([]*rpc.TokenLargestAccountsResult, error) {
	result, err := retryRPC(ctx, c, "getTokenLargestAccounts", func(client *rpc.Client) (*rpc.GetTokenLargestAccountsResult, error) {
		return client.GetTokenLargestAccounts(ctx, mint, rpc.CommitmentConfirmed)
	})
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// TokenAccountInfo is a decoded SPL token account owned by a wallet.
type TokenAccountInfo struct {
	Address   solana.PublicKey
	Mint      solana.PublicKey
	RawAmount uint64
}

// ListTokenAccounts returns the wallet's SPL token accounts with their
// mints and raw balances.
func (c *Client) ListTokenAccounts(ctx context.Context, owner solana.PublicKey) ([]TokenAccountInfo, error) {
	programID := solana.TokenProgramID
	result, err := retryRPC(ctx, c, "getTokenAccountsByOwner", func(client *rpc.Client) (*rpc.GetTokenAccountsResult, error) {
		return client.GetTokenAccountsByOwner(ctx, owner,
			&rpc.GetTokenAccountsConfig{ProgramId: &programID},
			&rpc.GetTokenAccountsOpts{
				Commitment: rpc.CommitmentConfirmed,
				Encoding:   solana.EncodingBase64,
			})
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]TokenAccountInfo, 0, len(result.Value))
	for _, item := range result.Value {
		var acc token.Account
		if err := bin.NewBinDecoder(item.Account.Data.GetBinary()).Decode(&acc); err != nil {
			c.logger.Debug("skipping undecodable token account",
				zap.String("account", item.Pubkey.String()),
				zap.Error(err))
			continue
		}
		accounts = append(accounts, TokenAccountInfo{
			Address:   item.Pubkey,
			Mint:      acc.Mint,
			RawAmount: acc.Amount,
		})
	}
	return accounts, nil
}

package bonding

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/solbounty/solbounty/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChain struct {
	accountData map[string][]byte
	balances    map[string]*rpc.UiTokenAmount
	supplies    map[string]*rpc.UiTokenAmount
	sentTxs     []*solana.Transaction
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		accountData: make(map[string][]byte),
		balances:    make(map[string]*rpc.UiTokenAmount),
		supplies:    make(map[string]*rpc.UiTokenAmount),
	}
}

func (f *fakeChain) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return solana.Hash{1}, nil
}

func (f *fakeChain) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	f.sentTxs = append(f.sentTxs, tx)
	return solana.Signature{2}, nil
}

func (f *fakeChain) GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	return f.accountData[account.String()], nil
}

func (f *fakeChain) GetTokenAccountBalance(ctx context.Context, account solana.PublicKey) (*rpc.UiTokenAmount, error) {
	return f.balances[account.String()], nil
}

func (f *fakeChain) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*rpc.UiTokenAmount, error) {
	return f.supplies[mint.String()], nil
}

func testWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	w, err := wallet.NewWallet(key.String())
	require.NoError(t, err)
	return w
}

func testProgramID() solana.PublicKey {
	return solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
}

func testRecord(t *testing.T) *Record {
	t.Helper()
	return &Record{
		TargetMint:       solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		BaseMint:         solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		ReserveAuthority: solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111"),
		BaseStorage:      solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111"),
	}
}

func TestGetRecordAbsentAccount(t *testing.T) {
	chain := newFakeChain()
	svc := NewService(chain, testWallet(t), testProgramID(), zap.NewNop())

	rec, err := svc.GetRecord(context.Background(), testRecord(t).TargetMint)
	require.NoError(t, err)
	assert.Nil(t, rec, "missing account means no record, not an error")
}

func TestGetRecordRoundTrip(t *testing.T) {
	chain := newFakeChain()
	svc := NewService(chain, testWallet(t), testProgramID(), zap.NewNop())

	want := testRecord(t)
	data, err := EncodeRecord(want)
	require.NoError(t, err)

	addr, err := RecordAddress(testProgramID(), want.TargetMint, 0)
	require.NoError(t, err)
	chain.accountData[addr.String()] = data

	got, err := svc.GetRecord(context.Background(), want.TargetMint)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ReserveAuthority, got.ReserveAuthority)
	assert.Equal(t, want.BaseStorage, got.BaseStorage)
}

func TestDecodeRecordRejectsWrongDiscriminator(t *testing.T) {
	data := make([]byte, 120)
	_, err := DecodeRecord(data)
	assert.Error(t, err)
}

func TestCurveForUsesLiveFigures(t *testing.T) {
	chain := newFakeChain()
	svc := NewService(chain, testWallet(t), testProgramID(), zap.NewNop())

	rec := testRecord(t)
	chain.balances[rec.BaseStorage.String()] = &rpc.UiTokenAmount{UiAmountString: "100", Decimals: 9}
	chain.supplies[rec.TargetMint.String()] = &rpc.UiTokenAmount{UiAmountString: "400", Decimals: 6}

	curve, err := svc.CurveFor(context.Background(), rec)
	require.NoError(t, err)

	out, err := curve.TargetsForContribution(decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, out.Equal(decimal.NewFromInt(200)), "got %s", out)
}

func TestBuyRefusesFrozenCurve(t *testing.T) {
	chain := newFakeChain()
	svc := NewService(chain, testWallet(t), testProgramID(), zap.NewNop())

	rec := testRecord(t)
	rec.BuyFrozen = true

	_, err := svc.Buy(context.Background(), rec, 100, 100, ZeroSlippage())
	require.Error(t, err)
	assert.Empty(t, chain.sentTxs)
}

func TestBuySignsAndSends(t *testing.T) {
	chain := newFakeChain()
	svc := NewService(chain, testWallet(t), testProgramID(), zap.NewNop())

	sig, err := svc.Buy(context.Background(), testRecord(t), 100, 200, ZeroSlippage())
	require.NoError(t, err)
	assert.NotEqual(t, solana.Signature{}, sig)
	require.Len(t, chain.sentTxs, 1)

	tx := chain.sentTxs[0]
	assert.NotEmpty(t, tx.Signatures, "transaction must be signed")
	// create-ATA guard plus the swap itself
	assert.Len(t, tx.Message.Instructions, 2)
}

func TestTransferReservesRequiresAuthority(t *testing.T) {
	chain := newFakeChain()
	w := testWallet(t)
	svc := NewService(chain, w, testProgramID(), zap.NewNop())

	rec := testRecord(t)
	_, err := svc.TransferReserves(context.Background(), rec, w.PublicKey, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserve authority")

	rec.ReserveAuthority = w.PublicKey
	_, err = svc.TransferReserves(context.Background(), rec, w.PublicKey, 10)
	require.NoError(t, err)
	assert.Len(t, chain.sentTxs, 1)
}

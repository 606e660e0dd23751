// internal/token/metadata.go
package token

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const metadataTTL = 5 * time.Minute

// metadataProgramID is the Metaplex token metadata program.
var metadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// Metadata describes a mint: the on-chain name, symbol and URI plus the
// image and description pulled from the URI document when available.
type Metadata struct {
	Mint        solana.PublicKey
	Name        string
	Symbol      string
	URI         string
	Image       string
	Description string
	UpdatedAt   time.Time
}

// Missing reports whether nothing displayable was found for the mint.
func (m *Metadata) Missing() bool {
	return m == nil || (m.Name == "" && m.Image == "" && m.Description == "")
}

// uriDocument is the off-chain JSON the metadata URI points at.
type uriDocument struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MetadataAddress derives the Metaplex metadata PDA for a mint.
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			metadataProgramID.Bytes(),
			mint.Bytes(),
		},
		metadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive metadata address: %w", err)
	}
	return addr, nil
}

// decodeMetadata parses the leading fields of a Metaplex metadata account.
// Strings in the account are padded with NULs up to their reserved width.
func decodeMetadata(data []byte) (*Metadata, error) {
	decoder := bin.NewBorshDecoder(data)

	if _, err := decoder.ReadUint8(); err != nil { // account key tag
		return nil, fmt.Errorf("failed to read metadata key: %w", err)
	}
	if _, err := decoder.ReadNBytes(32); err != nil { // update authority
		return nil, fmt.Errorf("failed to read update authority: %w", err)
	}
	mintBytes, err := decoder.ReadNBytes(32)
	if err != nil {
		return nil, fmt.Errorf("failed to read mint: %w", err)
	}
	name, err := decoder.ReadString()
	if err != nil {
		return nil, fmt.Errorf("failed to read name: %w", err)
	}
	symbol, err := decoder.ReadString()
	if err != nil {
		return nil, fmt.Errorf("failed to read symbol: %w", err)
	}
	uri, err := decoder.ReadString()
	if err != nil {
		return nil, fmt.Errorf("failed to read uri: %w", err)
	}

	return &Metadata{
		Mint:   solana.PublicKeyFromBytes(mintBytes),
		Name:   strings.TrimRight(name, "\x00"),
		Symbol: strings.TrimRight(symbol, "\x00"),
		URI:    strings.TrimRight(uri, "\x00"),
	}, nil
}

// GetMetadata resolves metadata for a mint with caching. A mint without a
// metadata account yields a Metadata whose Missing method reports true,
// not an error; errors are reserved for transport failures.
func (s *Service) GetMetadata(ctx context.Context, mint solana.PublicKey) (*Metadata, error) {
	if metadata, ok := s.getFromCache(mint.String()); ok {
		s.logger.Debug("token metadata retrieved from cache",
			zap.String("mint", mint.String()),
			zap.String("symbol", metadata.Symbol))
		return metadata, nil
	}

	metadata, err := s.getFromChain(ctx, mint)
	if err != nil {
		return nil, err
	}

	if metadata.URI != "" {
		if err := s.enrichFromURI(ctx, metadata); err != nil {
			s.logger.Debug("failed to enrich metadata from uri",
				zap.String("mint", mint.String()),
				zap.String("uri", metadata.URI),
				zap.Error(err))
		}
	}

	metadata.UpdatedAt = time.Now()
	s.cache.Store(mint.String(), metadata)

	s.logger.Debug("token metadata retrieved",
		zap.String("mint", mint.String()),
		zap.String("symbol", metadata.Symbol),
		zap.String("name", metadata.Name))

	return metadata, nil
}

func (s *Service) getFromCache(mint string) (*Metadata, bool) {
	if value, ok := s.cache.Load(mint); ok {
		metadata := value.(*Metadata)
		if time.Since(metadata.UpdatedAt) < metadataTTL {
			return metadata, true
		}
		s.cache.Delete(mint)
	}
	return nil, false
}

func (s *Service) getFromChain(ctx context.Context, mint solana.PublicKey) (*Metadata, error) {
	addr, err := MetadataAddress(mint)
	if err != nil {
		return nil, err
	}

	data, err := s.client.GetAccountData(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata account: %w", err)
	}
	if data == nil {
		return &Metadata{Mint: mint}, nil
	}

	metadata, err := decodeMetadata(data)
	if err != nil {
		s.logger.Debug("undecodable metadata account",
			zap.String("mint", mint.String()),
			zap.Error(err))
		return &Metadata{Mint: mint}, nil
	}
	return metadata, nil
}

// enrichFromURI fills the image and description from the off-chain JSON
// document. Failures leave the on-chain fields as they are.
func (s *Service) enrichFromURI(ctx context.Context, metadata *Metadata) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadata.URI, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metadata uri returned status code: %d", resp.StatusCode)
	}

	var doc uriDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode metadata document: %w", err)
	}

	if doc.Name != "" {
		metadata.Name = doc.Name
	}
	if doc.Symbol != "" {
		metadata.Symbol = doc.Symbol
	}
	metadata.Description = doc.Description
	metadata.Image = doc.Image

	return nil
}

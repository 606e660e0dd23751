package bonding

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Account discriminator of the bonding record, extracted from the IDL.
var recordDiscriminator = []byte{186, 54, 101, 37, 227, 210, 14, 77}

// Record is the on-chain bonding account backing a bounty: which token is
// being bonded, what base currency funds it, and who controls the reserve.
type Record struct {
	TargetMint       solana.PublicKey
	BaseMint         solana.PublicKey
	ReserveAuthority solana.PublicKey
	BaseStorage      solana.PublicKey
	Index            uint16
	BuyFrozen        bool
}

// RecordAddress derives the bonding record PDA for a target mint.
func RecordAddress(programID, targetMint solana.PublicKey, index uint16) (solana.PublicKey, error) {
	indexSeed := make([]byte, 2)
	binary.LittleEndian.PutUint16(indexSeed, index)

	addr, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("token-bonding"),
			targetMint.Bytes(),
			indexSeed,
		},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive bonding record address: %w", err)
	}
	return addr, nil
}

// DecodeRecord parses a bonding record from raw account data.
func DecodeRecord(data []byte) (*Record, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("account data too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[:8], recordDiscriminator) {
		return nil, fmt.Errorf("not a bonding record account")
	}

	dec := bin.NewBorshDecoder(data[8:])
	var rec Record
	if err := dec.Decode(&rec.TargetMint); err != nil {
		return nil, fmt.Errorf("failed to decode target mint: %w", err)
	}
	if err := dec.Decode(&rec.BaseMint); err != nil {
		return nil, fmt.Errorf("failed to decode base mint: %w", err)
	}
	if err := dec.Decode(&rec.ReserveAuthority); err != nil {
		return nil, fmt.Errorf("failed to decode reserve authority: %w", err)
	}
	if err := dec.Decode(&rec.BaseStorage); err != nil {
		return nil, fmt.Errorf("failed to decode base storage: %w", err)
	}
	if err := dec.Decode(&rec.Index); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}
	if err := dec.Decode(&rec.BuyFrozen); err != nil {
		return nil, fmt.Errorf("failed to decode buy_frozen flag: %w", err)
	}
	return &rec, nil
}

// EncodeRecord serializes a record back to account data layout.
// Used by tests and local fixtures.
func EncodeRecord(rec *Record) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(recordDiscriminator)

	enc := bin.NewBorshEncoder(buf)
	for _, field := range []interface{}{
		rec.TargetMint, rec.BaseMint, rec.ReserveAuthority, rec.BaseStorage, rec.Index, rec.BuyFrozen,
	} {
		if err := enc.Encode(field); err != nil {
			return nil, fmt.Errorf("failed to encode record field: %w", err)
		}
	}
	return buf.Bytes(), nil
}

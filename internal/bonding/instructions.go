package bonding

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Instruction discriminators extracted from the IDL
var (
	buyDiscriminator      = []byte{16, 235, 92, 104, 97, 13, 46, 41}
	sellDiscriminator     = []byte{171, 62, 11, 7, 205, 92, 140, 88}
	transferDiscriminator = []byte{57, 119, 204, 28, 99, 11, 230, 94}
)

// swapInstructionParams carries everything needed to build a buy or
// sell instruction against the bonding program.
type swapInstructionParams struct {
	isBuy bool

	programID        solana.PublicKey
	record           solana.PublicKey
	user             solana.PublicKey
	targetMint       solana.PublicKey
	baseMint         solana.PublicKey
	userTargetATA    solana.PublicKey
	userBaseATA      solana.PublicKey
	baseStorage      solana.PublicKey
	reserveAuthority solana.PublicKey

	// For buy: amount = base in, limit = min targets out.
	// For sell: amount = targets in, limit = min base out.
	amount uint64
	limit  uint64
}

func newSwapInstruction(params *swapInstructionParams) solana.Instruction {
	data := make([]byte, 8+8+8)
	if params.isBuy {
		copy(data[0:8], buyDiscriminator)
	} else {
		copy(data[0:8], sellDiscriminator)
	}
	binary.LittleEndian.PutUint64(data[8:16], params.amount)
	binary.LittleEndian.PutUint64(data[16:24], params.limit)

	accountMetas := []*solana.AccountMeta{
		solana.NewAccountMeta(params.record, true, false),
		solana.NewAccountMeta(params.user, true, true),
		solana.NewAccountMeta(params.targetMint, true, false),
		solana.NewAccountMeta(params.baseMint, false, false),
		solana.NewAccountMeta(params.userTargetATA, true, false),
		solana.NewAccountMeta(params.userBaseATA, true, false),
		solana.NewAccountMeta(params.baseStorage, true, false),
		solana.NewAccountMeta(params.reserveAuthority, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}

	return solana.NewInstruction(params.programID, accountMetas, data)
}

// newTransferReservesInstruction builds the admin disbursement
// instruction moving base currency out of the reserve.
func newTransferReservesInstruction(programID solana.PublicKey, record, authority, baseStorage, destination solana.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 8+8)
	copy(data[0:8], transferDiscriminator)
	binary.LittleEndian.PutUint64(data[8:16], amount)

	accountMetas := []*solana.AccountMeta{
		solana.NewAccountMeta(record, true, false),
		solana.NewAccountMeta(authority, true, true),
		solana.NewAccountMeta(baseStorage, true, false),
		solana.NewAccountMeta(destination, true, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}

	return solana.NewInstruction(programID, accountMetas, data)
}

// newCreateATAIdempotentInstruction creates the user's associated token
// account when it does not exist yet.
func newCreateATAIdempotentInstruction(payer, owner, mint solana.PublicKey) solana.Instruction {
	ata, _, _ := solana.FindAssociatedTokenAddress(owner, mint)

	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
			{PublicKey: ata, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		},
		[]byte{1}, // create idempotent
	)
}

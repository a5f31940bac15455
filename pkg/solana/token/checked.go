package token

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
)

// TransferChecked moves tokens from source to destination, verifying the
// mint and decimals match the token accounts.
func TransferChecked(source, mint, dest, owner ed25519.PublicKey, amount uint64, decimals byte) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner/delegate
	//   0. `[writable]` The source account.
	//   1. `[]` The token mint.
	//   2. `[writable]` The destination account.
	//   3. `[signer]` The source account's owner/delegate.
	//
	// TransferChecked {
	//   amount: u64,
	//   decimals: u8,
	// }
	data := make([]byte, 1+8+1)
	data[0] = byte(CommandTransferChecked)
	binary.LittleEndian.PutUint64(data[1:], amount)
	data[9] = decimals

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
		solana.NewAccountMeta(owner, true),
	)
}

type DecompiledTransferChecked struct {
	Source   ed25519.PublicKey
	Mint     ed25519.PublicKey
	Dest     ed25519.PublicKey
	Owner    ed25519.PublicKey
	Amount   uint64
	Decimals byte
}

func DecompileTransferChecked(m solana.Message, index int) (*DecompiledTransferChecked, error) {
	i, err := getInstruction(m, index, CommandTransferChecked)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 4 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 10 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledTransferChecked{
		Source:   m.Accounts[i.Accounts[0]],
		Mint:     m.Accounts[i.Accounts[1]],
		Dest:     m.Accounts[i.Accounts[2]],
		Owner:    m.Accounts[i.Accounts[3]],
		Amount:   binary.LittleEndian.Uint64(i.Data[1:]),
		Decimals: i.Data[9],
	}, nil
}

// ApproveChecked delegates authority over up to amount tokens of the source
// account, verifying the mint and decimals.
func ApproveChecked(source, mint, delegate, owner ed25519.PublicKey, amount uint64, decimals byte) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner
	//   0. `[writable]` The source account.
	//   1. `[]` The token mint.
	//   2. `[]` The delegate.
	//   3. `[signer]` The source account owner.
	//
	// ApproveChecked {
	//   amount: u64,
	//   decimals: u8,
	// }
	data := make([]byte, 1+8+1)
	data[0] = byte(CommandApproveChecked)
	binary.LittleEndian.PutUint64(data[1:], amount)
	data[9] = decimals

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(delegate, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledApproveChecked struct {
	Source   ed25519.PublicKey
	Mint     ed25519.PublicKey
	Delegate ed25519.PublicKey
	Owner    ed25519.PublicKey
	Amount   uint64
	Decimals byte
}

func DecompileApproveChecked(m solana.Message, index int) (*DecompiledApproveChecked, error) {
	i, err := getInstruction(m, index, CommandApproveChecked)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 4 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 10 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledApproveChecked{
		Source:   m.Accounts[i.Accounts[0]],
		Mint:     m.Accounts[i.Accounts[1]],
		Delegate: m.Accounts[i.Accounts[2]],
		Owner:    m.Accounts[i.Accounts[3]],
		Amount:   binary.LittleEndian.Uint64(i.Data[1:]),
		Decimals: i.Data[9],
	}, nil
}

// MintToChecked mints new tokens to the destination account, verifying the
// decimals match the mint.
func MintToChecked(mint, dest, authority ed25519.PublicKey, amount uint64, decimals byte) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single authority
	//   0. `[writable]` The mint.
	//   1. `[writable]` The account to mint tokens to.
	//   2. `[signer]` The mint's minting authority.
	//
	// MintToChecked {
	//   amount: u64,
	//   decimals: u8,
	// }
	data := make([]byte, 1+8+1)
	data[0] = byte(CommandMintToChecked)
	binary.LittleEndian.PutUint64(data[1:], amount)
	data[9] = decimals

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

type DecompiledMintToChecked struct {
	Mint      ed25519.PublicKey
	Dest      ed25519.PublicKey
	Authority ed25519.PublicKey
	Amount    uint64
	Decimals  byte
}

func DecompileMintToChecked(m solana.Message, index int) (*DecompiledMintToChecked, error) {
	i, err := getInstruction(m, index, CommandMintToChecked)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 10 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledMintToChecked{
		Mint:      m.Accounts[i.Accounts[0]],
		Dest:      m.Accounts[i.Accounts[1]],
		Authority: m.Accounts[i.Accounts[2]],
		Amount:    binary.LittleEndian.Uint64(i.Data[1:]),
		Decimals:  i.Data[9],
	}, nil
}

// BurnChecked burns tokens from the source account, verifying the decimals
// match the mint.
func BurnChecked(source, mint, owner ed25519.PublicKey, amount uint64, decimals byte) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner/delegate
	//   0. `[writable]` The account to burn from.
	//   1. `[writable]` The token mint.
	//   2. `[signer]` The account's owner/delegate.
	//
	// BurnChecked {
	//   amount: u64,
	//   decimals: u8,
	// }
	data := make([]byte, 1+8+1)
	data[0] = byte(CommandBurnChecked)
	binary.LittleEndian.PutUint64(data[1:], amount)
	data[9] = decimals

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledBurnChecked struct {
	Source   ed25519.PublicKey
	Mint     ed25519.PublicKey
	Owner    ed25519.PublicKey
	Amount   uint64
	Decimals byte
}

func DecompileBurnChecked(m solana.Message, index int) (*DecompiledBurnChecked, error) {
	i, err := getInstruction(m, index, CommandBurnChecked)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 10 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledBurnChecked{
		Source:   m.Accounts[i.Accounts[0]],
		Mint:     m.Accounts[i.Accounts[1]],
		Owner:    m.Accounts[i.Accounts[2]],
		Amount:   binary.LittleEndian.Uint64(i.Data[1:]),
		Decimals: i.Data[9],
	}, nil
}

package token

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
)

// MintTo mints new tokens to the destination account. The authority must be
// the mint's minting authority.
func MintTo(mint, dest, authority ed25519.PublicKey, amount uint64) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single authority
	//   0. `[writable]` The mint.
	//   1. `[writable]` The account to mint tokens to.
	//   2. `[signer]` The mint's minting authority.
	//
	// MintTo {
	//   amount: u64,
	// }
	data := make([]byte, 1+8)
	data[0] = byte(CommandMintTo)
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

type DecompiledMintTo struct {
	Mint      ed25519.PublicKey
	Dest      ed25519.PublicKey
	Authority ed25519.PublicKey
	Amount    uint64
}

func DecompileMintTo(m solana.Message, index int) (*DecompiledMintTo, error) {
	i, err := getInstruction(m, index, CommandMintTo)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 9 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledMintTo{
		Mint:      m.Accounts[i.Accounts[0]],
		Dest:      m.Accounts[i.Accounts[1]],
		Authority: m.Accounts[i.Accounts[2]],
		Amount:    binary.LittleEndian.Uint64(i.Data[1:]),
	}, nil
}

// Burn burns tokens from the source account, removing them from the mint's
// supply.
func Burn(source, mint, owner ed25519.PublicKey, amount uint64) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner/delegate
	//   0. `[writable]` The account to burn from.
	//   1. `[writable]` The token mint.
	//   2. `[signer]` The account's owner/delegate.
	//
	// Burn {
	//   amount: u64,
	// }
	data := make([]byte, 1+8)
	data[0] = byte(CommandBurn)
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledBurn struct {
	Source ed25519.PublicKey
	Mint   ed25519.PublicKey
	Owner  ed25519.PublicKey
	Amount uint64
}

func DecompileBurn(m solana.Message, index int) (*DecompiledBurn, error) {
	i, err := getInstruction(m, index, CommandBurn)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 9 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledBurn{
		Source: m.Accounts[i.Accounts[0]],
		Mint:   m.Accounts[i.Accounts[1]],
		Owner:  m.Accounts[i.Accounts[2]],
		Amount: binary.LittleEndian.Uint64(i.Data[1:]),
	}, nil
}

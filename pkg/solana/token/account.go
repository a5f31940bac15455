package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
)

// CloseAccount closes the account, reclaiming its lamports to dest. The
// account must have a zero token balance, unless it holds native SOL.
func CloseAccount(account, dest, owner ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner
	//   0. `[writable]` The account to close.
	//   1. `[writable]` The destination account.
	//   2. `[signer]` The account's owner.
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandCloseAccount)},
		solana.NewAccountMeta(account, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledCloseAccount struct {
	Account ed25519.PublicKey
	Dest    ed25519.PublicKey
	Owner   ed25519.PublicKey
}

func DecompileCloseAccount(m solana.Message, index int) (*DecompiledCloseAccount, error) {
	i, err := getInstruction(m, index, CommandCloseAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 1 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledCloseAccount{
		Account: m.Accounts[i.Accounts[0]],
		Dest:    m.Accounts[i.Accounts[1]],
		Owner:   m.Accounts[i.Accounts[2]],
	}, nil
}

// FreezeAccount freezes the token account, using the mint's freeze authority.
func FreezeAccount(account, mint, authority ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner
	//   0. `[writable]` The account to freeze.
	//   1. `[]` The token mint.
	//   2. `[signer]` The mint freeze authority.
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandFreezeAccount)},
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

type DecompiledFreezeAccount struct {
	Account   ed25519.PublicKey
	Mint      ed25519.PublicKey
	Authority ed25519.PublicKey
}

func DecompileFreezeAccount(m solana.Message, index int) (*DecompiledFreezeAccount, error) {
	i, err := getInstruction(m, index, CommandFreezeAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 1 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledFreezeAccount{
		Account:   m.Accounts[i.Accounts[0]],
		Mint:      m.Accounts[i.Accounts[1]],
		Authority: m.Accounts[i.Accounts[2]],
	}, nil
}

// ThawAccount thaws a frozen token account, using the mint's freeze authority.
func ThawAccount(account, mint, authority ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner
	//   0. `[writable]` The account to thaw.
	//   1. `[]` The token mint.
	//   2. `[signer]` The mint freeze authority.
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandThawAccount)},
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

type DecompiledThawAccount struct {
	Account   ed25519.PublicKey
	Mint      ed25519.PublicKey
	Authority ed25519.PublicKey
}

func DecompileThawAccount(m solana.Message, index int) (*DecompiledThawAccount, error) {
	i, err := getInstruction(m, index, CommandThawAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 1 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledThawAccount{
		Account:   m.Accounts[i.Accounts[0]],
		Mint:      m.Accounts[i.Accounts[1]],
		Authority: m.Accounts[i.Accounts[2]],
	}, nil
}

// SyncNative updates the token amount of a native (wrapped SOL) account to
// match its underlying lamports.
func SyncNative(account ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The native token account to sync.
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandSyncNative)},
		solana.NewAccountMeta(account, false),
	)
}

type DecompiledSyncNative struct {
	Account ed25519.PublicKey
}

func DecompileSyncNative(m solana.Message, index int) (*DecompiledSyncNative, error) {
	i, err := getInstruction(m, index, CommandSyncNative)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 1 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 1 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledSyncNative{
		Account: m.Accounts[i.Accounts[0]],
	}, nil
}

package token

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
)

// Transfer moves tokens from source to destination. The owner must be the
// single authority over source.
func Transfer(source, dest, owner ed25519.PublicKey, amount uint64) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner/delegate
	//   0. `[writable]` The source account.
	//   1. `[writable]` The destination account.
	//   2. `[signer]` The source account's owner/delegate.
	//
	// Transfer {
	//   amount: u64,
	// }
	data := make([]byte, 1+8)
	data[0] = byte(CommandTransfer)
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewAccountMeta(dest, false),
		solana.NewAccountMeta(owner, true),
	)
}

// TransferMultisig moves tokens from source to destination, where the owner
// is a multisignature account requiring the provided signers.
func TransferMultisig(source, dest, owner ed25519.PublicKey, amount uint64, signers ...ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Multisignature owner/delegate
	//   0. `[writable]` The source account.
	//   1. `[writable]` The destination account.
	//   2. `[]` The source account's multisignature owner/delegate.
	//   3. ..3+M. `[signer]` M signer accounts.
	data := make([]byte, 1+8)
	data[0] = byte(CommandTransfer)
	binary.LittleEndian.PutUint64(data[1:], amount)

	accounts := make([]solana.AccountMeta, 3+len(signers))
	accounts[0] = solana.NewAccountMeta(source, false)
	accounts[1] = solana.NewAccountMeta(dest, false)
	accounts[2] = solana.NewReadonlyAccountMeta(owner, false)
	for i := 0; i < len(signers); i++ {
		accounts[i+3] = solana.NewReadonlyAccountMeta(signers[i], true)
	}

	return solana.NewInstruction(ProgramKey, data, accounts...)
}

type DecompiledTransfer struct {
	Source ed25519.PublicKey
	Dest   ed25519.PublicKey
	Owner  ed25519.PublicKey
	Amount uint64
}

func DecompileTransfer(m solana.Message, index int) (*DecompiledTransfer, error) {
	i, err := getInstruction(m, index, CommandTransfer)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 9 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledTransfer{
		Source: m.Accounts[i.Accounts[0]],
		Dest:   m.Accounts[i.Accounts[1]],
		Owner:  m.Accounts[i.Accounts[2]],
		Amount: binary.LittleEndian.Uint64(i.Data[1:]),
	}, nil
}

// Approve delegates authority over up to amount tokens of the source account.
func Approve(source, delegate, owner ed25519.PublicKey, amount uint64) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner
	//   0. `[writable]` The source account.
	//   1. `[]` The delegate.
	//   2. `[signer]` The source account owner.
	//
	// Approve {
	//   amount: u64,
	// }
	data := make([]byte, 1+8)
	data[0] = byte(CommandApprove)
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(delegate, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledApprove struct {
	Source   ed25519.PublicKey
	Delegate ed25519.PublicKey
	Owner    ed25519.PublicKey
	Amount   uint64
}

func DecompileApprove(m solana.Message, index int) (*DecompiledApprove, error) {
	i, err := getInstruction(m, index, CommandApprove)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 9 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledApprove{
		Source:   m.Accounts[i.Accounts[0]],
		Delegate: m.Accounts[i.Accounts[1]],
		Owner:    m.Accounts[i.Accounts[2]],
		Amount:   binary.LittleEndian.Uint64(i.Data[1:]),
	}, nil
}

// Revoke revokes the source account's delegate authority.
func Revoke(source, owner ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner
	//   0. `[writable]` The source account.
	//   1. `[signer]` The source account owner.
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandRevoke)},
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledRevoke struct {
	Source ed25519.PublicKey
	Owner  ed25519.PublicKey
}

func DecompileRevoke(m solana.Message, index int) (*DecompiledRevoke, error) {
	i, err := getInstruction(m, index, CommandRevoke)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 1 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledRevoke{
		Source: m.Accounts[i.Accounts[0]],
		Owner:  m.Accounts[i.Accounts[1]],
	}, nil
}

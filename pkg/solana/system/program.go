// Package system builds and validates system program instructions.
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs
package system

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
)

// Command is the 4 byte little-endian discriminator that selects a system
// program instruction.
type Command uint32

const (
	CommandCreateAccount Command = iota
	CommandAssign
	CommandTransfer
	CommandCreateAccountWithSeed
	CommandAdvanceNonceAccount
	CommandWithdrawNonceAccount
	CommandInitializeNonceAccount
	CommandAuthorizeNonceAccount
	CommandAllocate
	CommandAllocateWithSeed
	CommandAssignWithSeed
	CommandTransferWithSeed
	CommandUpgradeNonceAccount

	CommandUnknown = Command(math.MaxUint32)
)

// GetCommand returns the system program command of the instruction at the
// provided index.
func GetCommand(m solana.Message, index int) (Command, error) {
	if index >= len(m.Instructions) {
		return CommandUnknown, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey[:]) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(i.Data) < 4 {
		return CommandUnknown, errors.New("system instruction missing discriminator")
	}

	return Command(binary.LittleEndian.Uint32(i.Data)), nil
}

// getInstruction validates that the instruction at index targets the system
// program with the expected command, and returns it.
func getInstruction(m solana.Message, index int, command Command) (solana.CompiledInstruction, error) {
	if index >= len(m.Instructions) {
		return solana.CompiledInstruction{}, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey[:]) {
		return solana.CompiledInstruction{}, solana.ErrIncorrectProgram
	}

	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(command))
	if !bytes.HasPrefix(i.Data, prefix[:]) {
		return solana.CompiledInstruction{}, solana.ErrIncorrectInstruction
	}

	return i, nil
}

// CreateAccount returns an instruction to create a new account owned by the
// provided program, funded with lamports from funder.
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	// Account references:
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE, SIGNER] New account
	//
	// CreateAccount {
	//   lamports: u64, // Number of lamports to transfer to the new account
	//   space: u64,    // Number of bytes of memory to allocate
	//   owner: Pubkey, // Address of program that will own the new account
	// }
	data := make([]byte, 4+2*8+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandCreateAccount))
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[4+8:], size)
	copy(data[4+2*8:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

type DecompiledCreateAccount struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey

	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

func DecompileCreateAccount(m solana.Message, index int) (*DecompiledCreateAccount, error) {
	i, err := getInstruction(m, index, CommandCreateAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 52 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledCreateAccount{
		Funder:  m.Accounts[i.Accounts[0]],
		Address: m.Accounts[i.Accounts[1]],
	}
	v.Lamports = binary.LittleEndian.Uint64(i.Data[4:])
	v.Size = binary.LittleEndian.Uint64(i.Data[4+8:])
	v.Owner = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Owner, i.Data[4+2*8:])

	return v, nil
}

// Assign reassigns the account to the provided owner program.
func Assign(account, owner ed25519.PublicKey) solana.Instruction {
	// Account references:
	//   0. [WRITE, SIGNER] Assigned account
	//
	// Assign {
	//   owner: Pubkey, // Owner program account
	// }
	data := make([]byte, 4+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandAssign))
	copy(data[4:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(account, true),
	)
}

type DecompiledAssign struct {
	Account ed25519.PublicKey
	Owner   ed25519.PublicKey
}

func DecompileAssign(m solana.Message, index int) (*DecompiledAssign, error) {
	i, err := getInstruction(m, index, CommandAssign)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 1 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 36 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledAssign{
		Account: m.Accounts[i.Accounts[0]],
	}
	v.Owner = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Owner, i.Data[4:])

	return v, nil
}

// Transfer moves lamports from the source account to the destination.
func Transfer(source, dest ed25519.PublicKey, lamports uint64) solana.Instruction {
	// Account references:
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE] Recipient account
	//
	// Transfer {
	//   lamports: u64,
	// }
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data, uint32(CommandTransfer))
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(source, true),
		solana.NewAccountMeta(dest, false),
	)
}

type DecompiledTransfer struct {
	Source   ed25519.PublicKey
	Dest     ed25519.PublicKey
	Lamports uint64
}

func DecompileTransfer(m solana.Message, index int) (*DecompiledTransfer, error) {
	i, err := getInstruction(m, index, CommandTransfer)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 12 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledTransfer{
		Source:   m.Accounts[i.Accounts[0]],
		Dest:     m.Accounts[i.Accounts[1]],
		Lamports: binary.LittleEndian.Uint64(i.Data[4:]),
	}, nil
}

// Allocate allocates space in the account without transferring lamports.
func Allocate(account ed25519.PublicKey, space uint64) solana.Instruction {
	// Account references:
	//   0. [WRITE, SIGNER] New account
	//
	// Allocate {
	//   space: u64, // Number of bytes of memory to allocate
	// }
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data, uint32(CommandAllocate))
	binary.LittleEndian.PutUint64(data[4:], space)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(account, true),
	)
}

type DecompiledAllocate struct {
	Account ed25519.PublicKey
	Space   uint64
}

func DecompileAllocate(m solana.Message, index int) (*DecompiledAllocate, error) {
	i, err := getInstruction(m, index, CommandAllocate)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 1 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 12 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledAllocate{
		Account: m.Accounts[i.Accounts[0]],
		Space:   binary.LittleEndian.Uint64(i.Data[4:]),
	}, nil
}

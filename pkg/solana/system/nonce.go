package system

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
	solbinary "github.com/solbuild/solkit/pkg/solana/binary"
)

// AdvanceNonce returns an instruction to consume the stored nonce, replacing
// it with a more recent blockhash.
func AdvanceNonce(nonce, authority ed25519.PublicKey) solana.Instruction {
	// Account references:
	//   0. [WRITE] Nonce account
	//   1. [] RecentBlockhashes sysvar
	//   2. [SIGNER] Nonce authority
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(CommandAdvanceNonceAccount))

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(nonce, false),
		solana.NewReadonlyAccountMeta(RecentBlockhashesSysVar, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

type DecompiledAdvanceNonce struct {
	Nonce     ed25519.PublicKey
	Authority ed25519.PublicKey
}

func DecompileAdvanceNonce(m solana.Message, index int) (*DecompiledAdvanceNonce, error) {
	i, err := getInstruction(m, index, CommandAdvanceNonceAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Data) != 4 {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Accounts) != 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if !bytes.Equal(RecentBlockhashesSysVar, m.Accounts[i.Accounts[1]]) {
		return nil, errors.Errorf("invalid RecentBlockhashes sysvar")
	}

	return &DecompiledAdvanceNonce{
		Nonce:     m.Accounts[i.Accounts[0]],
		Authority: m.Accounts[i.Accounts[2]],
	}, nil
}

// WithdrawNonce returns an instruction to withdraw lamports from a nonce
// account.
//
// The withdrawal must leave the account balance above the rent exempt
// reserve, or at zero.
func WithdrawNonce(nonce, authority, recipient ed25519.PublicKey, lamports uint64) solana.Instruction {
	// Account references:
	//   0. [WRITE] Nonce account
	//   1. [WRITE] Recipient account
	//   2. [] RecentBlockhashes sysvar
	//   3. [] Rent sysvar
	//   4. [SIGNER] Nonce authority
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data, uint32(CommandWithdrawNonceAccount))
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(nonce, false),
		solana.NewAccountMeta(recipient, false),
		solana.NewReadonlyAccountMeta(RecentBlockhashesSysVar, false),
		solana.NewReadonlyAccountMeta(RentSysVar, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

type DecompiledWithdrawNonce struct {
	Nonce     ed25519.PublicKey
	Authority ed25519.PublicKey
	Recipient ed25519.PublicKey
	Lamports  uint64
}

func DecompileWithdrawNonce(m solana.Message, index int) (*DecompiledWithdrawNonce, error) {
	i, err := getInstruction(m, index, CommandWithdrawNonceAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 5 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 12 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if !bytes.Equal(RecentBlockhashesSysVar, m.Accounts[i.Accounts[2]]) {
		return nil, errors.Errorf("invalid RecentBlockhashes sysvar")
	}
	if !bytes.Equal(RentSysVar, m.Accounts[i.Accounts[3]]) {
		return nil, errors.Errorf("invalid Rent sysvar")
	}

	return &DecompiledWithdrawNonce{
		Nonce:     m.Accounts[i.Accounts[0]],
		Recipient: m.Accounts[i.Accounts[1]],
		Authority: m.Accounts[i.Accounts[4]],
		Lamports:  binary.LittleEndian.Uint64(i.Data[4:]),
	}, nil
}

// InitializeNonce returns an instruction that moves an uninitialized nonce
// account to the initialized state, setting the stored nonce value.
//
// No signature is required, enabling derived nonce account addresses. The
// authority parameter specifies the entity authorized to execute nonce
// instructions on the account.
func InitializeNonce(nonce, authority ed25519.PublicKey) solana.Instruction {
	// Account references:
	//   0. [WRITE] Nonce account
	//   1. [] RecentBlockhashes sysvar
	//   2. [] Rent sysvar
	data := make([]byte, 4+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandInitializeNonceAccount))
	copy(data[4:], authority)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(nonce, false),
		solana.NewReadonlyAccountMeta(RecentBlockhashesSysVar, false),
		solana.NewReadonlyAccountMeta(RentSysVar, false),
	)
}

type DecompiledInitializeNonce struct {
	Nonce     ed25519.PublicKey
	Authority ed25519.PublicKey
}

func DecompileInitializeNonce(m solana.Message, index int) (*DecompiledInitializeNonce, error) {
	i, err := getInstruction(m, index, CommandInitializeNonceAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 36 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if !bytes.Equal(RecentBlockhashesSysVar, m.Accounts[i.Accounts[1]]) {
		return nil, errors.Errorf("invalid RecentBlockhashes sysvar")
	}
	if !bytes.Equal(RentSysVar, m.Accounts[i.Accounts[2]]) {
		return nil, errors.Errorf("invalid Rent sysvar")
	}

	v := &DecompiledInitializeNonce{
		Nonce: m.Accounts[i.Accounts[0]],
	}
	v.Authority = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Authority, i.Data[4:])

	return v, nil
}

// AuthorizeNonce returns an instruction that changes the entity authorized
// to execute nonce instructions on the account.
func AuthorizeNonce(nonce, authority, newAuthority ed25519.PublicKey) solana.Instruction {
	// Account references:
	//   0. [WRITE] Nonce account
	//   1. [SIGNER] Nonce authority
	data := make([]byte, 4+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandAuthorizeNonceAccount))
	copy(data[4:], newAuthority)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(nonce, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

type DecompiledAuthorizeNonce struct {
	Nonce        ed25519.PublicKey
	Authority    ed25519.PublicKey
	NewAuthority ed25519.PublicKey
}

func DecompileAuthorizeNonce(m solana.Message, index int) (*DecompiledAuthorizeNonce, error) {
	i, err := getInstruction(m, index, CommandAuthorizeNonceAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 36 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledAuthorizeNonce{
		Nonce:     m.Accounts[i.Accounts[0]],
		Authority: m.Accounts[i.Accounts[1]],
	}
	v.NewAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.NewAuthority, i.Data[4:])

	return v, nil
}

// UpgradeNonce returns an instruction that upgrades a legacy nonce account
// to the current version, invalidating its stored blockhash.
func UpgradeNonce(nonce ed25519.PublicKey) solana.Instruction {
	// Account references:
	//   0. [WRITE] Nonce account
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(CommandUpgradeNonceAccount))

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(nonce, false),
	)
}

type DecompiledUpgradeNonce struct {
	Nonce ed25519.PublicKey
}

func DecompileUpgradeNonce(m solana.Message, index int) (*DecompiledUpgradeNonce, error) {
	i, err := getInstruction(m, index, CommandUpgradeNonceAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Data) != 4 {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Accounts) != 1 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	return &DecompiledUpgradeNonce{
		Nonce: m.Accounts[i.Accounts[0]],
	}, nil
}

type NonceVersion uint32

const (
	NonceVersion0 NonceVersion = iota
	NonceVersion1
)

const NonceAccountSize = 80

var (
	ErrInvalidAccountSize    = errors.New("invalid nonce account size")
	ErrInvalidAccountVersion = errors.New("invalid nonce account version")
)

// NonceAccount is the stored state of an initialized nonce account.
//
// Reference: https://github.com/solana-labs/solana/blob/da00b39f4f92fb16417bd2d8bd218a04a34527b8/sdk/program/src/nonce/state/current.rs#L8
type NonceAccount struct {
	Version       uint32
	State         uint32
	Authority     ed25519.PublicKey
	Blockhash     ed25519.PublicKey
	FeeCalculator FeeCalculator
}

type FeeCalculator struct {
	LamportsPerSignature uint64
}

func (obj NonceAccount) Marshal() []byte {
	res := make([]byte, NonceAccountSize)

	var offset int
	solbinary.PutUint32(res[offset:], obj.Version, &offset)
	solbinary.PutUint32(res[offset:], obj.State, &offset)
	solbinary.PutKey32(res[offset:], obj.Authority, &offset)
	solbinary.PutKey32(res[offset:], obj.Blockhash, &offset)
	solbinary.PutUint64(res[offset:], obj.FeeCalculator.LamportsPerSignature, &offset)

	return res
}

func (obj *NonceAccount) Unmarshal(data []byte) error {
	if len(data) != NonceAccountSize {
		return ErrInvalidAccountSize
	}

	var offset int
	solbinary.GetUint32(data[offset:], &obj.Version, &offset)
	solbinary.GetUint32(data[offset:], &obj.State, &offset)
	solbinary.GetKey32(data[offset:], &obj.Authority, &offset)
	solbinary.GetKey32(data[offset:], &obj.Blockhash, &offset)
	solbinary.GetUint64(data[offset:], &obj.FeeCalculator.LamportsPerSignature, &offset)

	if NonceVersion(obj.Version) != NonceVersion1 {
		return ErrInvalidAccountVersion
	}

	return nil
}

// GetNonceValueFromAccount returns the nonce value stored in a nonce
// account.
//
// Layout:
//
//	(4)     u32: version
//	(4)     u32: state
//	(32) pubkey: authority
//	(32) pubkey: blockhash/value
//	(8)     u64: lamports per signature
func GetNonceValueFromAccount(info solana.AccountInfo) (val solana.Blockhash, err error) {
	if len(info.Data) != NonceAccountSize {
		return val, errors.Errorf("invalid nonce account size: %d", len(info.Data))
	}
	if !bytes.Equal(info.Owner, ProgramKey[:]) {
		return val, errors.Errorf("invalid nonce account (not owned by the system program)")
	}

	start := 4 + 4 + ed25519.PublicKeySize
	copy(val[:], info.Data[start:start+ed25519.PublicKeySize])
	return val, nil
}

package system

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
)

// MaxSeedLength is the maximum length of a derivation seed.
const MaxSeedLength = 32

var ErrInvalidSeed = errors.New("invalid seed")

// CreateWithSeedAddress computes the address produced by the *WithSeed
// instruction family: sha256(base || seed || owner).
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L126
func CreateWithSeedAddress(base ed25519.PublicKey, seed string, owner ed25519.PublicKey) (ed25519.PublicKey, error) {
	if len(seed) > MaxSeedLength {
		return nil, ErrInvalidSeed
	}
	if bytes.HasSuffix(owner, []byte("ProgramDerivedAddress")) {
		return nil, errors.New("owner cannot be a derived address marker")
	}

	h := sha256.New()
	_, _ = h.Write(base)
	_, _ = h.Write([]byte(seed))
	_, _ = h.Write(owner)

	return h.Sum(nil), nil
}

// appendSeed appends the bincode representation of a seed string: a u64
// little-endian length followed by the bytes.
func appendSeed(data []byte, seed string) []byte {
	var l [8]byte
	binary.LittleEndian.PutUint64(l[:], uint64(len(seed)))
	data = append(data, l[:]...)
	return append(data, seed...)
}

// readSeed reads a bincode string, returning the seed and remaining bytes.
func readSeed(data []byte) (string, []byte, error) {
	if len(data) < 8 {
		return "", nil, errors.New("data too short for seed length")
	}

	l := binary.LittleEndian.Uint64(data)
	if l > MaxSeedLength || uint64(len(data)-8) < l {
		return "", nil, ErrInvalidSeed
	}

	return string(data[8 : 8+l]), data[8+l:], nil
}

// CreateAccountWithSeed creates an account at an address derived from the
// base account and seed.
func CreateAccountWithSeed(funder, address, base, owner ed25519.PublicKey, seed string, lamports, size uint64) (solana.Instruction, error) {
	// Account references:
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE] Created account
	//   2. [SIGNER] (optional) Base account; the account matching the base
	//      Pubkey below must be provided as a signer, but may be the same
	//      as the funding account
	//
	// CreateAccountWithSeed {
	//   base: Pubkey,
	//   seed: String,
	//   lamports: u64,
	//   space: u64,
	//   owner: Pubkey,
	// }
	if len(seed) > MaxSeedLength {
		return solana.Instruction{}, ErrInvalidSeed
	}

	data := make([]byte, 4, 4+32+8+len(seed)+8+8+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandCreateAccountWithSeed))
	data = append(data, base...)
	data = appendSeed(data, seed)

	var v [8]byte
	binary.LittleEndian.PutUint64(v[:], lamports)
	data = append(data, v[:]...)
	binary.LittleEndian.PutUint64(v[:], size)
	data = append(data, v[:]...)
	data = append(data, owner...)

	accounts := []solana.AccountMeta{
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, false),
	}
	if !bytes.Equal(base, funder) {
		accounts = append(accounts, solana.NewReadonlyAccountMeta(base, true))
	}

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		accounts...,
	), nil
}

type DecompiledCreateAccountWithSeed struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey

	Base     ed25519.PublicKey
	Seed     string
	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

func DecompileCreateAccountWithSeed(m solana.Message, index int) (*DecompiledCreateAccountWithSeed, error) {
	i, err := getInstruction(m, index, CommandCreateAccountWithSeed)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) < 4+32+8+8+8+32 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledCreateAccountWithSeed{
		Funder:  m.Accounts[i.Accounts[0]],
		Address: m.Accounts[i.Accounts[1]],
	}

	v.Base = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Base, i.Data[4:])

	remainder := i.Data[4+32:]
	if v.Seed, remainder, err = readSeed(remainder); err != nil {
		return nil, err
	}
	if len(remainder) != 8+8+32 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v.Lamports = binary.LittleEndian.Uint64(remainder)
	v.Size = binary.LittleEndian.Uint64(remainder[8:])
	v.Owner = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Owner, remainder[16:])

	return v, nil
}

// AllocateWithSeed allocates space in an account derived from the base
// account and seed.
func AllocateWithSeed(account, base, owner ed25519.PublicKey, seed string, space uint64) (solana.Instruction, error) {
	// Account references:
	//   0. [WRITE] Allocated account
	//   1. [SIGNER] Base account
	//
	// AllocateWithSeed {
	//   base: Pubkey,
	//   seed: String,
	//   space: u64,
	//   owner: Pubkey,
	// }
	if len(seed) > MaxSeedLength {
		return solana.Instruction{}, ErrInvalidSeed
	}

	data := make([]byte, 4, 4+32+8+len(seed)+8+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandAllocateWithSeed))
	data = append(data, base...)
	data = appendSeed(data, seed)

	var v [8]byte
	binary.LittleEndian.PutUint64(v[:], space)
	data = append(data, v[:]...)
	data = append(data, owner...)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(base, true),
	), nil
}

type DecompiledAllocateWithSeed struct {
	Account ed25519.PublicKey

	Base  ed25519.PublicKey
	Seed  string
	Space uint64
	Owner ed25519.PublicKey
}

func DecompileAllocateWithSeed(m solana.Message, index int) (*DecompiledAllocateWithSeed, error) {
	i, err := getInstruction(m, index, CommandAllocateWithSeed)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) < 4+32+8+8+32 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledAllocateWithSeed{
		Account: m.Accounts[i.Accounts[0]],
	}

	v.Base = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Base, i.Data[4:])

	remainder := i.Data[4+32:]
	if v.Seed, remainder, err = readSeed(remainder); err != nil {
		return nil, err
	}
	if len(remainder) != 8+32 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v.Space = binary.LittleEndian.Uint64(remainder)
	v.Owner = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Owner, remainder[8:])

	return v, nil
}

// AssignWithSeed reassigns an account derived from the base account and seed
// to the provided owner program.
func AssignWithSeed(account, base, owner ed25519.PublicKey, seed string) (solana.Instruction, error) {
	// Account references:
	//   0. [WRITE] Assigned account
	//   1. [SIGNER] Base account
	//
	// AssignWithSeed {
	//   base: Pubkey,
	//   seed: String,
	//   owner: Pubkey,
	// }
	if len(seed) > MaxSeedLength {
		return solana.Instruction{}, ErrInvalidSeed
	}

	data := make([]byte, 4, 4+32+8+len(seed)+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandAssignWithSeed))
	data = append(data, base...)
	data = appendSeed(data, seed)
	data = append(data, owner...)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(base, true),
	), nil
}

type DecompiledAssignWithSeed struct {
	Account ed25519.PublicKey

	Base  ed25519.PublicKey
	Seed  string
	Owner ed25519.PublicKey
}

func DecompileAssignWithSeed(m solana.Message, index int) (*DecompiledAssignWithSeed, error) {
	i, err := getInstruction(m, index, CommandAssignWithSeed)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) < 4+32+8+32 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledAssignWithSeed{
		Account: m.Accounts[i.Accounts[0]],
	}

	v.Base = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Base, i.Data[4:])

	remainder := i.Data[4+32:]
	if v.Seed, remainder, err = readSeed(remainder); err != nil {
		return nil, err
	}
	if len(remainder) != 32 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v.Owner = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Owner, remainder)

	return v, nil
}

// TransferWithSeed moves lamports from an account derived from the base
// account and seed to the destination.
func TransferWithSeed(source, base, dest, sourceOwner ed25519.PublicKey, sourceSeed string, lamports uint64) (solana.Instruction, error) {
	// Account references:
	//   0. [WRITE] Funding account
	//   1. [SIGNER] Base for funding account
	//   2. [WRITE] Recipient account
	//
	// TransferWithSeed {
	//   lamports: u64,
	//   from_seed: String,
	//   from_owner: Pubkey,
	// }
	if len(sourceSeed) > MaxSeedLength {
		return solana.Instruction{}, ErrInvalidSeed
	}

	data := make([]byte, 4+8, 4+8+8+len(sourceSeed)+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandTransferWithSeed))
	binary.LittleEndian.PutUint64(data[4:], lamports)
	data = appendSeed(data, sourceSeed)
	data = append(data, sourceOwner...)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(base, true),
		solana.NewAccountMeta(dest, false),
	), nil
}

type DecompiledTransferWithSeed struct {
	Source ed25519.PublicKey
	Base   ed25519.PublicKey
	Dest   ed25519.PublicKey

	Lamports    uint64
	SourceSeed  string
	SourceOwner ed25519.PublicKey
}

func DecompileTransferWithSeed(m solana.Message, index int) (*DecompiledTransferWithSeed, error) {
	i, err := getInstruction(m, index, CommandTransferWithSeed)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) < 4+8+8+32 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledTransferWithSeed{
		Source:   m.Accounts[i.Accounts[0]],
		Base:     m.Accounts[i.Accounts[1]],
		Dest:     m.Accounts[i.Accounts[2]],
		Lamports: binary.LittleEndian.Uint64(i.Data[4:]),
	}

	remainder := i.Data[4+8:]
	if v.SourceSeed, remainder, err = readSeed(remainder); err != nil {
		return nil, err
	}
	if len(remainder) != 32 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v.SourceOwner = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.SourceOwner, remainder)

	return v, nil
}

package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
	"github.com/solbuild/solkit/pkg/solana/system"
)

// InitializeMint initializes a new mint.
//
// The freezeAuthority may be empty, in which case no account can ever
// freeze holdings of the mint.
func InitializeMint(mint, mintAuthority, freezeAuthority ed25519.PublicKey, decimals byte) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The mint to initialize.
	//   1. `[]` Rent sysvar
	//
	// InitializeMint {
	//   decimals: u8,
	//   mint_authority: Pubkey,
	//   freeze_authority: COption<Pubkey>,
	// }
	data := []byte{byte(CommandInitializeMint), decimals}
	data = append(data, mintAuthority...)
	if len(freezeAuthority) > 0 {
		data = append(data, 1)
		data = append(data, freezeAuthority...)
	} else {
		data = append(data, 0)
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

type DecompiledInitializeMint struct {
	Mint            ed25519.PublicKey
	Decimals        byte
	MintAuthority   ed25519.PublicKey
	FreezeAuthority ed25519.PublicKey
}

func DecompileInitializeMint(m solana.Message, index int) (*DecompiledInitializeMint, error) {
	i, err := getInstruction(m, index, CommandInitializeMint)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	const base = 2 + ed25519.PublicKeySize + 1
	if len(i.Data) != base && len(i.Data) != base+ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if !system.IsRentSysVar(m.Accounts[i.Accounts[1]]) {
		return nil, errors.Errorf("invalid Rent sysvar")
	}

	v := &DecompiledInitializeMint{
		Mint:     m.Accounts[i.Accounts[0]],
		Decimals: i.Data[1],
	}
	v.MintAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.MintAuthority, i.Data[2:])

	switch i.Data[base-1] {
	case 0:
		if len(i.Data) != base {
			return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
		}
	case 1:
		if len(i.Data) != base+ed25519.PublicKeySize {
			return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
		}
		v.FreezeAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(v.FreezeAuthority, i.Data[base:])
	default:
		return nil, errors.Errorf("invalid freeze authority option: %d", i.Data[base-1])
	}

	return v, nil
}

// InitializeAccount initializes a new token account holding the provided
// mint, owned by owner.
func InitializeAccount(account, mint, owner ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The account to initialize.
	//   1. `[]` The mint this account will be associated with.
	//   2. `[]` The new account's owner/multisignature.
	//   3. `[]` Rent sysvar
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandInitializeAccount)},
		solana.NewAccountMeta(account, true),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(owner, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

type DecompiledInitializeAccount struct {
	Account ed25519.PublicKey
	Mint    ed25519.PublicKey
	Owner   ed25519.PublicKey
}

func DecompileInitializeAccount(m solana.Message, index int) (*DecompiledInitializeAccount, error) {
	i, err := getInstruction(m, index, CommandInitializeAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Data) != 1 {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Accounts) != 4 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if !system.IsRentSysVar(m.Accounts[i.Accounts[3]]) {
		return nil, errors.Errorf("invalid Rent sysvar")
	}

	return &DecompiledInitializeAccount{
		Account: m.Accounts[i.Accounts[0]],
		Mint:    m.Accounts[i.Accounts[1]],
		Owner:   m.Accounts[i.Accounts[2]],
	}, nil
}

// InitializeMultisig initializes a multisignature authority account.
// requiredSigners is the number of signatures (M) required to validate the
// authority, out of the provided signer set (N), where 1 <= M <= N <= 11.
func InitializeMultisig(account ed25519.PublicKey, requiredSigners byte, signers ...ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` The multisignature account to initialize.
	//   1. `[]` Rent sysvar
	//   2. ..2+N. `[]` The signer accounts, must equal to N where 1 <= N <= 11.
	accounts := make([]solana.AccountMeta, 2+len(signers))
	accounts[0] = solana.NewAccountMeta(account, false)
	accounts[1] = solana.NewReadonlyAccountMeta(system.RentSysVar, false)
	for i := 0; i < len(signers); i++ {
		accounts[i+2] = solana.NewReadonlyAccountMeta(signers[i], false)
	}

	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandInitializeMultisig), requiredSigners},
		accounts...,
	)
}

type DecompiledInitializeMultisig struct {
	Account         ed25519.PublicKey
	RequiredSigners byte
	Signers         []ed25519.PublicKey
}

func DecompileInitializeMultisig(m solana.Message, index int) (*DecompiledInitializeMultisig, error) {
	i, err := getInstruction(m, index, CommandInitializeMultisig)
	if err != nil {
		return nil, err
	}

	if len(i.Data) != 2 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if len(i.Accounts) < 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if !system.IsRentSysVar(m.Accounts[i.Accounts[1]]) {
		return nil, errors.Errorf("invalid Rent sysvar")
	}

	v := &DecompiledInitializeMultisig{
		Account:         m.Accounts[i.Accounts[0]],
		RequiredSigners: i.Data[1],
	}
	for _, accountIndex := range i.Accounts[2:] {
		v.Signers = append(v.Signers, m.Accounts[accountIndex])
	}

	return v, nil
}

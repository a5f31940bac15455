package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
)

// AuthorityType selects which authority of a mint or account a SetAuthority
// instruction changes.
type AuthorityType byte

const (
	AuthorityTypeMintTokens AuthorityType = iota
	AuthorityTypeFreezeAccount
	AuthorityTypeAccountHolder
	AuthorityTypeCloseAccount
)

// SetAuthority sets a new authority of the provided type on a mint or token
// account. An empty newAuthority clears the authority, when the type permits
// it.
func SetAuthority(target, currentAuthority, newAuthority ed25519.PublicKey, authorityType AuthorityType) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single authority
	//   0. `[writable]` The mint or account to change the authority of.
	//   1. `[signer]` The current authority of the mint or account.
	//
	// SetAuthority {
	//   authority_type: AuthorityType,
	//   new_authority: COption<Pubkey>,
	// }
	data := []byte{byte(CommandSetAuthority), byte(authorityType)}
	if len(newAuthority) > 0 {
		data = append(data, 1)
		data = append(data, newAuthority...)
	} else {
		data = append(data, 0)
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(target, false),
		solana.NewReadonlyAccountMeta(currentAuthority, true),
	)
}

// SetAuthorityMultisig sets a new authority where the current authority is a
// multisignature account requiring the provided signers.
func SetAuthorityMultisig(target, currentAuthority, newAuthority ed25519.PublicKey, authorityType AuthorityType, signers ...ed25519.PublicKey) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Multisignature authority
	//   0. `[writable]` The mint or account to change the authority of.
	//   1. `[]` The mint's or account's current multisignature authority.
	//   2. ..2+M. `[signer]` M signer accounts.
	data := []byte{byte(CommandSetAuthority), byte(authorityType)}
	if len(newAuthority) > 0 {
		data = append(data, 1)
		data = append(data, newAuthority...)
	} else {
		data = append(data, 0)
	}

	accounts := make([]solana.AccountMeta, 2+len(signers))
	accounts[0] = solana.NewAccountMeta(target, false)
	accounts[1] = solana.NewReadonlyAccountMeta(currentAuthority, false)
	for i := 0; i < len(signers); i++ {
		accounts[i+2] = solana.NewReadonlyAccountMeta(signers[i], true)
	}

	return solana.NewInstruction(ProgramKey, data, accounts...)
}

type DecompiledSetAuthority struct {
	Target           ed25519.PublicKey
	CurrentAuthority ed25519.PublicKey
	AuthorityType    AuthorityType
	NewAuthority     ed25519.PublicKey
}

func DecompileSetAuthority(m solana.Message, index int) (*DecompiledSetAuthority, error) {
	i, err := getInstruction(m, index, CommandSetAuthority)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) < 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 3 && len(i.Data) != 3+ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledSetAuthority{
		Target:           m.Accounts[i.Accounts[0]],
		CurrentAuthority: m.Accounts[i.Accounts[1]],
		AuthorityType:    AuthorityType(i.Data[1]),
	}

	switch i.Data[2] {
	case 0:
		if len(i.Data) != 3 {
			return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
		}
	case 1:
		if len(i.Data) != 3+ed25519.PublicKeySize {
			return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
		}
		v.NewAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(v.NewAuthority, i.Data[3:])
	default:
		return nil, errors.Errorf("invalid new authority option: %d", i.Data[2])
	}

	return v, nil
}

package system

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solbuild/solkit/pkg/solana"
)

func TestCreateWithSeedAddress(t *testing.T) {
	keys := generateKeys(t, 2)

	h := sha256.New()
	h.Write(keys[0])
	h.Write([]byte("nonce"))
	h.Write(keys[1])
	expected := h.Sum(nil)

	actual, err := CreateWithSeedAddress(keys[0], "nonce", keys[1])
	require.NoError(t, err)
	assert.EqualValues(t, expected, actual)

	_, err = CreateWithSeedAddress(keys[0], strings.Repeat("a", MaxSeedLength+1), keys[1])
	assert.Equal(t, ErrInvalidSeed, err)

	marked := append([]byte{}, keys[1]...)
	marked = append(marked, []byte("ProgramDerivedAddress")...)
	_, err = CreateWithSeedAddress(keys[0], "nonce", marked)
	assert.NotNil(t, err)
}

func TestCreateAccountWithSeed(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction, err := CreateAccountWithSeed(keys[0], keys[1], keys[2], keys[3], "nonce", 12345, 67890)
	require.NoError(t, err)

	// Base differs from the funder, so it rides along as a signer.
	require.Len(t, instruction.Accounts, 3)
	assert.EqualValues(t, keys[2], instruction.Accounts[2].PublicKey)
	assert.True(t, instruction.Accounts[2].IsSigner)

	decompiled, err := DecompileCreateAccountWithSeed(solana.NewTransaction(keys[0], instruction).Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], decompiled.Funder)
	assert.EqualValues(t, keys[1], decompiled.Address)
	assert.EqualValues(t, keys[2], decompiled.Base)
	assert.Equal(t, "nonce", decompiled.Seed)
	assert.EqualValues(t, 12345, decompiled.Lamports)
	assert.EqualValues(t, 67890, decompiled.Size)
	assert.EqualValues(t, keys[3], decompiled.Owner)

	_, err = CreateAccountWithSeed(keys[0], keys[1], keys[2], keys[3], strings.Repeat("a", MaxSeedLength+1), 12345, 67890)
	assert.Equal(t, ErrInvalidSeed, err)
}

func TestCreateAccountWithSeed_FunderIsBase(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction, err := CreateAccountWithSeed(keys[0], keys[1], keys[0], keys[2], "seed", 1, 2)
	require.NoError(t, err)

	require.Len(t, instruction.Accounts, 2)

	decompiled, err := DecompileCreateAccountWithSeed(solana.NewTransaction(keys[0], instruction).Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], decompiled.Funder)
	assert.EqualValues(t, keys[0], decompiled.Base)
}

func TestAllocateWithSeed(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction, err := AllocateWithSeed(keys[0], keys[1], keys[2], "storage", 1024)
	require.NoError(t, err)

	decompiled, err := DecompileAllocateWithSeed(solana.NewTransaction(keys[0], instruction).Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], decompiled.Account)
	assert.EqualValues(t, keys[1], decompiled.Base)
	assert.Equal(t, "storage", decompiled.Seed)
	assert.EqualValues(t, 1024, decompiled.Space)
	assert.EqualValues(t, keys[2], decompiled.Owner)

	_, err = AllocateWithSeed(keys[0], keys[1], keys[2], strings.Repeat("a", MaxSeedLength+1), 1024)
	assert.Equal(t, ErrInvalidSeed, err)
}

func TestAssignWithSeed(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction, err := AssignWithSeed(keys[0], keys[1], keys[2], "storage")
	require.NoError(t, err)

	decompiled, err := DecompileAssignWithSeed(solana.NewTransaction(keys[0], instruction).Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], decompiled.Account)
	assert.EqualValues(t, keys[1], decompiled.Base)
	assert.Equal(t, "storage", decompiled.Seed)
	assert.EqualValues(t, keys[2], decompiled.Owner)
}

func TestTransferWithSeed(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction, err := TransferWithSeed(keys[0], keys[1], keys[2], keys[3], "vault", 555)
	require.NoError(t, err)

	decompiled, err := DecompileTransferWithSeed(solana.NewTransaction(keys[0], instruction).Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], decompiled.Source)
	assert.EqualValues(t, keys[1], decompiled.Base)
	assert.EqualValues(t, keys[2], decompiled.Dest)
	assert.EqualValues(t, 555, decompiled.Lamports)
	assert.Equal(t, "vault", decompiled.SourceSeed)
	assert.EqualValues(t, keys[3], decompiled.SourceOwner)
}

func TestReadSeed_Invalid(t *testing.T) {
	_, _, err := readSeed([]byte{1, 2, 3})
	assert.NotNil(t, err)

	// declared length exceeds available bytes
	data := appendSeed(nil, "seed")
	_, _, err = readSeed(data[:10])
	assert.Equal(t, ErrInvalidSeed, err)
}

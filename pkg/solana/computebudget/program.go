// Package computebudget builds and validates compute budget program
// instructions.
package computebudget

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/solbuild/solkit/pkg/solana"
)

// ProgramKey is the address of the compute budget program.
//
// Current key: ComputeBudget111111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

const (
	commandRequestUnits uint8 = iota
	commandRequestHeapFrame
	commandSetComputeUnitLimit
	commandSetComputeUnitPrice
)

// SetComputeUnitLimit caps the number of compute units the transaction may
// consume.
func SetComputeUnitLimit(computeUnitLimit uint32) solana.Instruction {
	data := make([]byte, 1+4)
	data[0] = commandSetComputeUnitLimit
	binary.LittleEndian.PutUint32(data[1:], computeUnitLimit)

	return solana.NewInstruction(
		ProgramKey,
		data,
	)
}

// SetComputeUnitPrice sets the priority fee, in micro-lamports per compute
// unit.
func SetComputeUnitPrice(computeUnitPrice uint64) solana.Instruction {
	data := make([]byte, 1+8)
	data[0] = commandSetComputeUnitPrice
	binary.LittleEndian.PutUint64(data[1:], computeUnitPrice)

	return solana.NewInstruction(
		ProgramKey,
		data,
	)
}

func DecompileSetComputeUnitLimit(m solana.Message, index int) (uint32, error) {
	data, err := getInstructionData(m, index, commandSetComputeUnitLimit, 5)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(data[1:]), nil
}

func DecompileSetComputeUnitPrice(m solana.Message, index int) (uint64, error) {
	data, err := getInstructionData(m, index, commandSetComputeUnitPrice, 9)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(data[1:]), nil
}

func getInstructionData(m solana.Message, index int, command uint8, size int) ([]byte, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if len(i.Data) != size {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if i.Data[0] != command {
		return nil, solana.ErrIncorrectInstruction
	}

	return i.Data, nil
}

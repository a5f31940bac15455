package token

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrAmountOutOfRange = errors.New("amount out of range")

// ToRawAmount converts a UI token amount into its raw u64 representation for
// a mint with the provided decimals. The amount must be a non-negative value
// with no fractional component beyond the mint's precision.
func ToRawAmount(amount decimal.Decimal, decimals byte) (uint64, error) {
	raw := amount.Shift(int32(decimals))
	if raw.Exponent() < 0 && !raw.Equal(raw.Truncate(0)) {
		return 0, errors.Errorf("amount has more than %d decimal places", decimals)
	}
	if raw.IsNegative() {
		return 0, ErrAmountOutOfRange
	}
	if !raw.BigInt().IsUint64() {
		return 0, ErrAmountOutOfRange
	}

	return raw.BigInt().Uint64(), nil
}

// FromRawAmount converts a raw u64 token amount into its UI representation
// for a mint with the provided decimals.
func FromRawAmount(raw uint64, decimals byte) decimal.Decimal {
	return decimal.NewFromUint64(raw).Shift(-int32(decimals))
}

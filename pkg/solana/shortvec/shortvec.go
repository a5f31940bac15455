// Package shortvec implements the compact-u16 length encoding used by the
// transaction wire format.
package shortvec

import (
	"fmt"
	"io"
	"math"
)

// EncodeLen writes val to w using the compact-u16 encoding.
//
// Values above math.MaxUint16 are rejected.
func EncodeLen(w io.Writer, val int) (n int, err error) {
	if val > math.MaxUint16 {
		return 0, fmt.Errorf("len exceeds %d", math.MaxUint16)
	}

	written := 0
	buf := make([]byte, 1)

	for {
		buf[0] = byte(val & 0x7f)
		val >>= 7
		if val == 0 {
			n, err := w.Write(buf)
			written += n

			return written, err
		}

		buf[0] |= 0x80
		n, err := w.Write(buf)
		written += n
		if err != nil {
			return written, err
		}
	}
}

// DecodeLen reads a compact-u16 encoded length from r.
func DecodeLen(r io.Reader) (val int, err error) {
	var offset int
	buf := make([]byte, 1)

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, err
		}

		val |= int(buf[0]&0x7f) << (offset * 7)
		offset++

		if buf[0]&0x80 == 0 {
			break
		}
	}

	if offset > 3 {
		return 0, fmt.Errorf("invalid size: %d (max 3)", offset)
	}

	return val, nil
}

// Package format renders a function's packed bit-vector input or output
// against its declared Format pieces (spec §4.6): each piece is folded
// into an integer and rendered in its own radix, the way the teacher's
// lang/types.Int.String renders a single integer in one fixed radix
// (github.com/mna/nenuphar lang/types/int.go), generalized here to a
// sequence of independently-radixed, independently-widthed pieces
// concatenated with spaces.
package format

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/boolstack/boolstack/lang/ir"
)

// Render splits bits according to pieces (each piece's Width bits,
// consumed in order) and renders each piece in its declared radix,
// joining the results with a single space. It panics if the total of the
// pieces' widths does not equal len(bits): the compiler guarantees this
// invariant for any Format it produces, so a mismatch here is an internal
// inconsistency, not a user-facing error.
func Render(pieces []ir.FormatPiece, bits []byte) string {
	total := 0
	for _, p := range pieces {
		total += p.Width
	}
	if total != len(bits) {
		panic(fmt.Sprintf("format: piece widths sum to %d, got %d bits", total, len(bits)))
	}

	parts := make([]string, len(pieces))
	offset := 0
	for i, p := range pieces {
		parts[i] = renderPiece(p, bits[offset:offset+p.Width])
		offset += p.Width
	}
	return strings.Join(parts, " ")
}

func renderPiece(p ir.FormatPiece, bits []byte) string {
	v := bitsToInt(bits)
	switch p.Radix {
	case ir.RadixHex:
		hexDigits := (p.Width + 3) / 4
		return fmt.Sprintf("0x%0*s", hexDigits, v.Text(16))
	case ir.RadixBinary:
		return fmt.Sprintf("0b%0*s", p.Width, v.Text(2))
	default: // RadixDecimal
		return v.Text(10)
	}
}

func bitsToInt(bits []byte) *big.Int {
	v := new(big.Int)
	for _, b := range bits {
		v.Lsh(v, 1)
		if b != 0 {
			v.SetBit(v, 0, 1)
		}
	}
	return v
}

// Parse is the inverse of Render's single-piece case: it decodes one
// radix-prefixed or bare literal into a big-endian bit vector of the
// given width, for CLI argument parsing against a function's declared
// input format.
func Parse(p ir.FormatPiece, text string) ([]byte, error) {
	base := 10
	switch p.Radix {
	case ir.RadixHex:
		base = 16
		text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	case ir.RadixBinary:
		base = 2
		text = strings.TrimPrefix(strings.TrimPrefix(text, "0b"), "0B")
	}

	v, ok := new(big.Int).SetString(text, base)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("format: invalid literal %q for radix %q", text, p.Radix)
	}
	if v.BitLen() > p.Width {
		return nil, fmt.Errorf("format: literal %q does not fit in %d bits", text, p.Width)
	}

	bits := make([]byte, p.Width)
	for i := 0; i < p.Width; i++ {
		if v.Bit(p.Width-1-i) == 1 {
			bits[i] = 1
		}
	}
	return bits, nil
}

package compiler

import (
	"math/big"
	"strconv"

	"github.com/boolstack/boolstack/lang/diag"
)

// constErr carries a diagnostic kind and message for a constant-parsing
// failure, reported against the enclosing assign token by the caller.
type constErr struct {
	kind diag.Kind
	msg  string
}

// constantBits parses digits in the given base and returns its big-endian
// bit representation padded to width bits (spec §4.4.3). math/big is used
// rather than a fixed-size integer because the source language places no
// upper bound on a constant's declared width.
func constantBits(digits string, base, width int) ([]byte, *constErr) {
	if digits == "" {
		return nil, &constErr{diag.KindBadConstant, "missing constant digits"}
	}
	val, ok := new(big.Int).SetString(digits, base)
	if !ok || val.Sign() < 0 {
		return nil, &constErr{diag.KindBadConstant, "invalid constant literal " + digits}
	}
	if val.BitLen() > width {
		return nil, &constErr{diag.KindConstantTooWide, "constant " + digits + " does not fit in " + strconv.Itoa(width) + " bits"}
	}

	bits := make([]byte, width)
	for i := 0; i < width; i++ {
		if val.Bit(width - 1 - i) == 1 {
			bits[i] = 1
		}
	}
	return bits, nil
}

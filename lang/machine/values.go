package machine

import (
	"fmt"
	"math/big"

	"github.com/boolstack/boolstack/lang/ir"
)

// RunValues is the value-oriented entry point (spec §4.5, §6.2): it packs
// vals against the entry function's declared input format pieces, runs it
// to completion on a fresh Thread, and unpacks the resulting stack bits
// into a single big-endian integer, mirroring the way a native caller (or
// the CLI) observes a boolstack program as a pure function over integers
// rather than raw bit vectors.
func RunValues(prog *ir.Program, descriptor string, vals []*big.Int) (*big.Int, error) {
	fn, ok := prog.Resolve(descriptor)
	if !ok {
		return nil, &RuntimeError{Kind: KindUnknownNative, Descriptor: descriptor, Msg: "unknown function"}
	}

	input, err := packValues(fn, vals)
	if err != nil {
		return nil, err
	}

	th := NewThread(prog)
	out, err := th.Run(descriptor, input)
	if err != nil {
		return nil, err
	}
	return unpackBits(out), nil
}

// packValues lays vals out against fn.Format.In, each value zero-extended
// to its piece's declared width as big-endian bits and concatenated in
// piece order. A negative value, or one wider than its piece, is rejected
// with InputLengthMismatch.
func packValues(fn *ir.Function, vals []*big.Int) ([]byte, error) {
	pieces := fn.Format.In
	if len(pieces) != len(vals) {
		return nil, &RuntimeError{
			Kind:       KindInputCountMismatch,
			Descriptor: fn.Descriptor,
			Msg:        fmt.Sprintf("expected %d input values, got %d", len(pieces), len(vals)),
		}
	}

	out := make([]byte, 0, fn.LenIn)
	for i, p := range pieces {
		v := vals[i]
		if v.Sign() < 0 || v.BitLen() > p.Width {
			return nil, &RuntimeError{
				Kind:       KindInputLengthMismatch,
				Descriptor: fn.Descriptor,
				Msg:        fmt.Sprintf("input value %d does not fit in %d bits", i, p.Width),
			}
		}
		for b := 0; b < p.Width; b++ {
			if v.Bit(p.Width-1-b) == 1 {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out, nil
}

// unpackBits folds a big-endian bit vector into a single integer (spec
// §4.5: "convert the final stack contents to a single integer").
func unpackBits(bits []byte) *big.Int {
	v := new(big.Int)
	for _, b := range bits {
		v.Lsh(v, 1)
		if b != 0 {
			v.SetBit(v, 0, 1)
		}
	}
	return v
}

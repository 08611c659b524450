package ir

import "strconv"

// nativeSpec describes one of the five fixed native primitives (spec
// §4.5): their descriptors, names and bit widths are fixed; their runtime
// behavior is implemented by lang/machine, which is keyed by the same
// descriptor strings.
type nativeSpec struct {
	name   string
	lenIn  int
	lenOut int
}

var nativeSpecs = []nativeSpec{
	{"not", 1, 1},
	{"xor", 2, 1},
	{"or", 2, 1},
	{"and", 2, 1},
	{"im", 2, 1},
}

// NativeFunctions returns a fresh set of Function values for the five fixed
// native primitives, ready to be registered into a Program's native table
// before compilation begins.
func NativeFunctions() []*Function {
	fns := make([]*Function, 0, len(nativeSpecs))
	for _, s := range nativeSpecs {
		in := make([]FormatPiece, s.lenIn)
		for i := range in {
			in[i] = FormatPiece{Width: 1, Radix: RadixBinary}
		}
		out := []FormatPiece{{Width: s.lenOut, Radix: RadixBinary}}
		fns = append(fns, &Function{
			Descriptor: descriptorOf(s.name, s.lenIn, s.lenOut),
			Name:       s.name,
			LenIn:      s.lenIn,
			LenOut:     s.lenOut,
			Native:     true,
			Format:     Format{In: in, Out: out},
		})
	}
	return fns
}

func descriptorOf(name string, lenIn, lenOut int) string {
	return name + ":" + strconv.Itoa(lenIn) + ":" + strconv.Itoa(lenOut)
}

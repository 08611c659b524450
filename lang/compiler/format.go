package compiler

import (
	"strconv"
	"strings"

	"github.com/boolstack/boolstack/lang/diag"
	"github.com/boolstack/boolstack/lang/ir"
	"github.com/boolstack/boolstack/lang/token"
)

// parseFormat parses a "#<in_spec>:<out_spec>" token (spec §4.3) where each
// spec is "<w><r>[+<w><r>...]".
func parseFormat(c *compiler, tok token.Token, lenIn, lenOut int) (ir.Format, string, error) {
	body := tok.Text[1:]
	halves := strings.SplitN(body, ":", 2)
	if len(halves) != 2 {
		return ir.Format{}, "", c.errAt(diag.KindBadFormat, tok, "expected #<in_spec>:<out_spec>")
	}

	in, err := parseFormatSpec(c, tok, halves[0])
	if err != nil {
		return ir.Format{}, "", err
	}
	out, err := parseFormatSpec(c, tok, halves[1])
	if err != nil {
		return ir.Format{}, "", err
	}

	if sumWidths(in) != lenIn {
		return ir.Format{}, "", c.errAt(diag.KindFormatLenMismatch, tok, "input format widths sum to "+
			strconv.Itoa(sumWidths(in))+", want "+strconv.Itoa(lenIn))
	}
	if sumWidths(out) != lenOut {
		return ir.Format{}, "", c.errAt(diag.KindFormatLenMismatch, tok, "output format widths sum to "+
			strconv.Itoa(sumWidths(out))+", want "+strconv.Itoa(lenOut))
	}

	return ir.Format{In: in, Out: out}, tok.Text, nil
}

func parseFormatSpec(c *compiler, tok token.Token, spec string) ([]ir.FormatPiece, error) {
	if spec == "" {
		return nil, nil
	}
	var pieces []ir.FormatPiece
	for _, piece := range strings.Split(spec, "+") {
		if piece == "" {
			return nil, c.errAt(diag.KindBadFormat, tok, "empty format piece")
		}
		radixByte := piece[len(piece)-1]
		digits := piece[:len(piece)-1]
		if digits == "" {
			return nil, c.errAt(diag.KindBadFormat, tok, "format piece missing width: "+piece)
		}
		width, err := strconv.Atoi(digits)
		if err != nil || width < 0 {
			return nil, c.errAt(diag.KindBadFormat, tok, "invalid format piece width: "+piece)
		}
		if width == 0 {
			return nil, c.errAt(diag.KindZeroPieceWidth, tok, "format piece width must be > 0: "+piece)
		}
		radix, ok := parseRadix(radixByte)
		if !ok {
			return nil, c.errAt(diag.KindBadFormat, tok, "invalid format radix: "+piece)
		}
		pieces = append(pieces, ir.FormatPiece{Width: width, Radix: radix})
	}
	return pieces, nil
}

func parseRadix(b byte) (ir.Radix, bool) {
	switch b {
	case 'd':
		return ir.RadixDecimal, true
	case 'h':
		return ir.RadixHex, true
	case 'b':
		return ir.RadixBinary, true
	}
	return 0, false
}

func sumWidths(pieces []ir.FormatPiece) int {
	total := 0
	for _, p := range pieces {
		total += p.Width
	}
	return total
}

// defaultFormat builds the implicit "#{len_in}h:{len_out}h" format (spec
// §4.2) as structured pieces: a single hex piece per side, omitted on the
// input side when len_in is 0 (a zero-width format piece is never valid,
// spec §3 invariant 2).
func defaultFormat(lenIn, lenOut int) ir.Format {
	var in []ir.FormatPiece
	if lenIn > 0 {
		in = []ir.FormatPiece{{Width: lenIn, Radix: ir.RadixHex}}
	}
	return ir.Format{In: in, Out: []ir.FormatPiece{{Width: lenOut, Radix: ir.RadixHex}}}
}

func defaultFormatString(lenIn, lenOut int) string {
	return "#" + strconv.Itoa(lenIn) + "h:" + strconv.Itoa(lenOut) + "h"
}

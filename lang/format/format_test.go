package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boolstack/boolstack/lang/format"
	"github.com/boolstack/boolstack/lang/ir"
)

func TestRenderDecimal(t *testing.T) {
	pieces := []ir.FormatPiece{{Width: 4, Radix: ir.RadixDecimal}}
	got := format.Render(pieces, []byte{1, 0, 1, 0})
	assert.Equal(t, "10", got)
}

func TestRenderHexPadded(t *testing.T) {
	pieces := []ir.FormatPiece{{Width: 8, Radix: ir.RadixHex}}
	got := format.Render(pieces, []byte{0, 0, 0, 0, 1, 0, 1, 0})
	assert.Equal(t, "0x0a", got)
}

func TestRenderBinaryPadded(t *testing.T) {
	pieces := []ir.FormatPiece{{Width: 4, Radix: ir.RadixBinary}}
	got := format.Render(pieces, []byte{1, 0, 1, 0})
	assert.Equal(t, "0b1010", got)
}

func TestRenderMultiplePieces(t *testing.T) {
	pieces := []ir.FormatPiece{
		{Width: 2, Radix: ir.RadixBinary},
		{Width: 4, Radix: ir.RadixDecimal},
	}
	got := format.Render(pieces, []byte{1, 0, 0, 1, 0, 1})
	assert.Equal(t, "0b10 5", got)
}

func TestRenderPanicsOnWidthMismatch(t *testing.T) {
	pieces := []ir.FormatPiece{{Width: 4, Radix: ir.RadixDecimal}}
	assert.Panics(t, func() {
		format.Render(pieces, []byte{1, 0})
	})
}

func TestParseRoundTrip(t *testing.T) {
	p := ir.FormatPiece{Width: 8, Radix: ir.RadixHex}
	bits, err := format.Parse(p, "0xa5")
	require.NoError(t, err)
	assert.Equal(t, "0xa5", format.Render([]ir.FormatPiece{p}, bits))
}

func TestParseRejectsOverwidth(t *testing.T) {
	p := ir.FormatPiece{Width: 2, Radix: ir.RadixDecimal}
	_, err := format.Parse(p, "9")
	require.Error(t, err)
}

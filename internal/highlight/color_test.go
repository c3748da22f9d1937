package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#C0C0C0")
	require.NoError(t, err)
	require.Equal(t, Color{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}, c)

	c, err = ParseColor("#10203040")
	require.NoError(t, err)
	require.Equal(t, Color{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, c)

	c, err = ParseColor("LightGray")
	require.NoError(t, err)
	require.Equal(t, "#D3D3D3", c.Hex())

	_, err = ParseColor("not-a-colour")
	require.Error(t, err)
	_, err = ParseColor("#102030zz")
	require.Error(t, err)
}

func TestBlend_AveragesIncludingAlpha(t *testing.T) {
	got := Blend(Color{R: 200, G: 100, B: 0, A: 255}, Color{R: 100, G: 50, B: 40, A: 55})
	require.Equal(t, Color{R: 150, G: 75, B: 20, A: 155}, got)
}

func TestNewPalette_OverlapDefaultsToBlend(t *testing.T) {
	a := MustParseColor("#C0C0C0")
	b := MustParseColor("#404040")
	p := NewPalette(a, b, nil)
	require.Equal(t, "#808080", p.Overlap.Hex())

	override := MustParseColor("#FF0000")
	p = NewPalette(a, b, &override)
	require.Equal(t, override, p.For(Overlap))
	require.Equal(t, a, p.For(Primary))
	require.Equal(t, b, p.For(Secondary))
}

func TestColor_Over(t *testing.T) {
	bg := Color{A: 0xFF}
	require.Equal(t, Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}.Over(bg))
	require.Equal(t, bg, Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0}.Over(bg))
}

func TestColor_String(t *testing.T) {
	require.Equal(t, "#0A0B0CFF", Color{R: 10, G: 11, B: 12, A: 255}.String())
}

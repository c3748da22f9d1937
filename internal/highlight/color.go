package highlight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGBA colour.
type Color struct {
	R, G, B, A uint8
}

// namedColors covers the colour names accepted in configuration.
var namedColors = map[string]string{
	"lightgray": "#D3D3D3",
	"lightgrey": "#D3D3D3",
	"gray":      "#808080",
	"grey":      "#808080",
	"darkgray":  "#A9A9A9",
	"silver":    "#C0C0C0",
	"white":     "#FFFFFF",
	"black":     "#000000",
	"lightblue": "#ADD8E6",
	"steelblue": "#4682B4",
	"khaki":     "#F0E68C",
}

// ParseColor parses "#RRGGBB", "#RRGGBBAA" or a known colour name. A missing
// alpha channel means fully opaque.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		s = hex
	}

	alpha := uint8(0xFF)
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parsing alpha of %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// MustParseColor is ParseColor for constants known to be valid.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color, alpha uint8) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: alpha}
}

// Hex formats the colour as "#RRGGBB", dropping alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String formats the colour as "#RRGGBBAA".
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Blend is the component-wise average of two colours, alpha included.
func Blend(c1, c2 Color) Color {
	mixed := c1.colorful().BlendRgb(c2.colorful(), 0.5)
	return fromColorful(mixed, uint8((int(c1.A)+int(c2.A)+1)/2))
}

// Over composites c onto an opaque background using c's alpha. Terminals
// cannot draw translucent cells, so renderers flatten colours this way.
func (c Color) Over(bg Color) Color {
	t := float64(c.A) / 255
	return fromColorful(bg.colorful().BlendRgb(c.colorful(), t), 0xFF)
}

// Palette holds the colour for each ColorClass.
type Palette struct {
	Primary   Color
	Secondary Color
	Overlap   Color
}

// NewPalette builds a palette whose overlap colour is the blend of primary
// and secondary unless overlap is given.
func NewPalette(primary, secondary Color, overlap *Color) Palette {
	p := Palette{Primary: primary, Secondary: secondary, Overlap: Blend(primary, secondary)}
	if overlap != nil {
		p.Overlap = *overlap
	}
	return p
}

// For returns the colour painted for class.
func (p Palette) For(class ColorClass) Color {
	switch class {
	case Secondary:
		return p.Secondary
	case Overlap:
		return p.Overlap
	default:
		return p.Primary
	}
}

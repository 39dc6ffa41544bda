package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an sRGB color with straight alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// ParseHex parses an opaque "#RRGGBB" or "#RGB" color. The leading # is optional.
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("chart: parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: 1}, nil
}

// MustHex is ParseHex for literals; it panics on invalid input.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBA builds a color from components.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Hex returns "#RRGGBB", ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// CSS returns the hex form for opaque colors and rgba() otherwise.
func (c Color) CSS() string {
	if c.A >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Alpha8 returns alpha scaled to 0-255.
func (c Color) Alpha8() uint8 {
	switch {
	case c.A <= 0:
		return 0
	case c.A >= 1:
		return 255
	}
	return uint8(c.A*255 + 0.5)
}

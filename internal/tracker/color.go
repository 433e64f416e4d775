package tracker

import (
	"encoding/hex"
	"fmt"
)

// RGB is a 24-bit color decomposed into its channels.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// ParseHexColor decodes a 6-hex-digit RGB string into its channel triple.
// Any string that is not exactly 6 hex characters is a construction error.
func ParseHexColor(s string) (RGB, error) {
	if len(s) != 6 {
		return RGB{}, Validationf("color must be a 6 character hex string: %q", s)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return RGB{}, Validationf("color must be a 6 character hex string: %q", s)
	}
	return RGB{R: raw[0], G: raw[1], B: raw[2]}, nil
}

// Hex renders the color back as a 6-hex-digit string.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// PaletteColor names one entry of the fixed 16-color terminal palette.
type PaletteColor string

const (
	// ColorDefault means "use the terminal default". Pure black quantizes
	// here since terminal backgrounds vary.
	ColorDefault       PaletteColor = "default"
	ColorBlue          PaletteColor = "blue"
	ColorGreen         PaletteColor = "green"
	ColorCyan          PaletteColor = "cyan"
	ColorRed           PaletteColor = "red"
	ColorMagenta       PaletteColor = "magenta"
	ColorYellow        PaletteColor = "yellow"
	ColorBrightBlack   PaletteColor = "brightblack"
	ColorBrightBlue    PaletteColor = "brightblue"
	ColorBrightGreen   PaletteColor = "brightgreen"
	ColorBrightCyan    PaletteColor = "brightcyan"
	ColorBrightRed     PaletteColor = "brightred"
	ColorBrightMagenta PaletteColor = "brightmagenta"
	ColorBrightYellow  PaletteColor = "brightyellow"
	ColorBrightWhite   PaletteColor = "brightwhite"
	ColorWhite         PaletteColor = "white"
)

// palette covers every triple reachable after quantization and
// normalization. A miss is an internal error, not a silent default.
var palette = map[RGB]PaletteColor{
	{0x00, 0x00, 0x00}: ColorDefault,
	{0x00, 0x00, 0x80}: ColorBlue,
	{0x00, 0x80, 0x00}: ColorGreen,
	{0x00, 0x80, 0x80}: ColorCyan,
	{0x80, 0x00, 0x00}: ColorRed,
	{0x80, 0x00, 0x80}: ColorMagenta,
	{0x80, 0x80, 0x00}: ColorYellow,
	{0x80, 0x80, 0x80}: ColorBrightBlack,
	{0x00, 0x00, 0xff}: ColorBrightBlue,
	{0x00, 0xff, 0x00}: ColorBrightGreen,
	{0x00, 0xff, 0xff}: ColorBrightCyan,
	{0xff, 0x00, 0x00}: ColorBrightRed,
	{0xff, 0x00, 0xff}: ColorBrightMagenta,
	{0xff, 0xff, 0x00}: ColorBrightYellow,
	{0xff, 0xff, 0xff}: ColorBrightWhite,
}

// NearestPalette quantizes an arbitrary 24-bit color to the fixed terminal
// palette. Each channel is quantized independently to {0x00, 0x80, 0xff},
// then channels are normalized against the 0xff and 0x80 upper bounds so
// that mixed intermediate triples collapse to a primary palette entry.
func NearestPalette(c RGB) PaletteColor {
	q := [3]uint8{quantize(c.R), quantize(c.G), quantize(c.B)}
	q = normalizeBound(q, 0xff)
	q = normalizeBound(q, 0x80)
	color, ok := palette[RGB{q[0], q[1], q[2]}]
	if !ok {
		panic(fmt.Sprintf("tracker: unreachable quantized color %02x%02x%02x", q[0], q[1], q[2]))
	}
	return color
}

func quantize(v uint8) uint8 {
	switch {
	case v <= 0x40:
		return 0x00
	case v <= 0x80 || v < 0xbf:
		return 0x80
	default:
		return 0xff
	}
}

// normalizeBound zeroes every channel not at the bound when at least one
// channel hit it.
func normalizeBound(c [3]uint8, bound uint8) [3]uint8 {
	if c[0] != bound && c[1] != bound && c[2] != bound {
		return c
	}
	for i := range c {
		if c[i] != bound {
			c[i] = 0
		}
	}
	return c
}

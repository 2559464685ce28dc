package console

import "image/color"

// Color is one of the 16 colors supported by the text-mode hardware.
type Color uint8

// The set of colors that can be combined into an Attr.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	Pink
	Yellow
	White
)

// Attr is a packed color attribute: the foreground color occupies the low
// nibble and the background color the high nibble.
type Attr uint8

// MakeAttr packs a foreground/background color pair into an Attr. Only the
// low 4 bits of each color are used.
func MakeAttr(fg, bg Color) Attr {
	return Attr((bg&0xf)<<4 | (fg & 0xf))
}

// Fg returns the foreground color encoded in the attribute.
func (a Attr) Fg() Color { return Color(a & 0xf) }

// Bg returns the background color encoded in the attribute.
func (a Attr) Bg() Color { return Color(a >> 4) }

// Palette returns a copy of the default EGA palette used by text mode 0x3.
// Entries are indexed by Color.
func Palette() color.Palette {
	return color.Palette{
		color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}, /* black */
		color.RGBA{R: 0x00, G: 0x00, B: 0xaa, A: 0xff}, /* blue */
		color.RGBA{R: 0x00, G: 0xaa, B: 0x00, A: 0xff}, /* green */
		color.RGBA{R: 0x00, G: 0xaa, B: 0xaa, A: 0xff}, /* cyan */
		color.RGBA{R: 0xaa, G: 0x00, B: 0x00, A: 0xff}, /* red */
		color.RGBA{R: 0xaa, G: 0x00, B: 0xaa, A: 0xff}, /* magenta */
		color.RGBA{R: 0xaa, G: 0x55, B: 0x00, A: 0xff}, /* brown */
		color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}, /* light gray */
		color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}, /* dark gray */
		color.RGBA{R: 0x55, G: 0x55, B: 0xff, A: 0xff}, /* light blue */
		color.RGBA{R: 0x55, G: 0xff, B: 0x55, A: 0xff}, /* light green */
		color.RGBA{R: 0x55, G: 0xff, B: 0xff, A: 0xff}, /* light cyan */
		color.RGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}, /* light red */
		color.RGBA{R: 0xff, G: 0x55, B: 0xff, A: 0xff}, /* pink */
		color.RGBA{R: 0xff, G: 0xff, B: 0x55, A: 0xff}, /* yellow */
		color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, /* white */
	}
}

package console

import (
	"image/color"
	"vgaos/kernel/cpu"
	"vgaos/kernel/mmio"
)

const (
	// DefaultFramebufferAddr is the physical address of the VGA text-mode
	// framebuffer.
	DefaultFramebufferAddr uintptr = 0xb8000

	// DefaultWidth and DefaultHeight describe the grid of text mode 0x3.
	DefaultWidth  uint32 = 80
	DefaultHeight uint32 = 25
)

var (
	portWriteByteFn = cpu.PortWriteByte
)

// VgaTextConsole implements an EGA-compatible text console using VGA mode 0x3.
//
// Each character in the console framebuffer is represented using two bytes,
// a byte for the character code and a byte that encodes the foreground
// and background colors (4 bits for each). The framebuffer is only ever
// accessed through the mmio package.
type VgaTextConsole struct {
	width  uint32
	height uint32

	fbAddr uintptr

	palette color.Palette
}

// NewVgaTextConsole creates a new vga text console whose framebuffer lives at
// fbAddr. The caller must guarantee that columns*rows cells starting at fbAddr
// are mapped for the lifetime of the console.
func NewVgaTextConsole(columns, rows uint32, fbAddr uintptr) *VgaTextConsole {
	return &VgaTextConsole{
		width:   columns,
		height:  rows,
		fbAddr:  fbAddr,
		palette: Palette(),
	}
}

// Dimensions returns the console width and height in characters.
func (cons *VgaTextConsole) Dimensions() (uint32, uint32) {
	return cons.width, cons.height
}

// Read returns the cell at (x, y). Reading outside the grid returns a zero
// Cell.
func (cons *VgaTextConsole) Read(x, y uint32) Cell {
	if x >= cons.width || y >= cons.height {
		return 0
	}

	return Cell(mmio.Read16(cons.cellAddr(x, y)))
}

// Write replaces the cell at (x, y). Writes outside the grid are ignored.
func (cons *VgaTextConsole) Write(x, y uint32, c Cell) {
	if x >= cons.width || y >= cons.height {
		return
	}

	mmio.Write16(cons.cellAddr(x, y), uint16(c))
}

func (cons *VgaTextConsole) cellAddr(x, y uint32) uintptr {
	return cons.fbAddr + uintptr(y*cons.width+x)<<1
}

// Palette returns the active color palette for this console.
func (cons *VgaTextConsole) Palette() color.Palette {
	return cons.palette
}

// SetPaletteColor updates the color definition for the specified
// palette index. Passing a color index greater than the number of
// supported colors is a no-op.
func (cons *VgaTextConsole) SetPaletteColor(index Color, rgba color.RGBA) {
	if int(index) >= len(cons.palette) {
		return
	}

	cons.palette[index] = rgba

	// Load palette entry to the DAC. In this mode, colors are specified
	// using 6-bits for each component; the RGB values need to be converted
	// to the 0-63 range.
	portWriteByteFn(0x3c8, uint8(index))
	portWriteByteFn(0x3c9, rgba.R>>2)
	portWriteByteFn(0x3c9, rgba.G>>2)
	portWriteByteFn(0x3c9, rgba.B>>2)
}

package main

import (
	"fmt"
	"strings"
	"vgaos/device/video/console"
)

const (
	gridWidth  = int(console.DefaultWidth)
	gridHeight = int(console.DefaultHeight)

	// dumpSize is the size of a raw framebuffer dump as produced by the
	// QEMU monitor's pmemsave command.
	dumpSize = gridWidth * gridHeight * 2
)

// decodeDump converts a raw text-mode framebuffer dump into a row-major cell
// grid. Cells are stored as little-endian 16-bit words.
func decodeDump(data []byte) ([]console.Cell, error) {
	if len(data) != dumpSize {
		return nil, fmt.Errorf("expected a %d byte framebuffer dump; got %d bytes", dumpSize, len(data))
	}

	cells := make([]console.Cell, gridWidth*gridHeight)
	for i := range cells {
		cells[i] = console.Cell(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
	}

	return cells, nil
}

// plainText renders the character plane of cells as text, one line per row
// with trailing blanks removed.
func plainText(cells []console.Cell) string {
	var sb strings.Builder
	line := make([]rune, gridWidth)
	for y := 0; y < gridHeight; y++ {
		for x := 0; x < gridWidth; x++ {
			line[x] = cp437[cells[y*gridWidth+x].Char()]
		}
		sb.WriteString(strings.TrimRight(string(line), " \u00a0"))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Package tty implements the console writer that turns a byte stream into
// cells on a text-mode grid.
package tty

import "vgaos/device/video/console"

// PlaceholderChar replaces every byte that the console cannot render.
const PlaceholderChar = byte(0xfe)

// Writer appends text to the last row of a console device. When the cursor
// reaches the end of the row, or a line-feed is written, the grid contents are
// scrolled up by one row and the cursor returns to column 0.
//
// A Writer owns its device: two writers attached to the same device would
// corrupt each other's output. Writer is not safe for concurrent use; the
// kfmt package serializes access to the system console writer.
type Writer struct {
	cons console.Device

	width  uint32
	height uint32

	column uint32
	attr   console.Attr
}

// NewWriter returns a writer that outputs to cons using attr for all cells
// it writes.
func NewWriter(cons console.Device, attr console.Attr) *Writer {
	w := &Writer{cons: cons, attr: attr}
	w.width, w.height = cons.Dimensions()
	return w
}

// Dimensions returns the width and height of the underlying console.
func (w *Writer) Dimensions() (uint32, uint32) {
	return w.width, w.height
}

// Column returns the cursor column. It is always in the [0, width] range.
func (w *Writer) Column() uint32 {
	return w.column
}

// Attr returns the active color attribute.
func (w *Writer) Attr() console.Attr {
	return w.attr
}

// SetAttr sets the color attribute used by subsequent writes. Cells that have
// already been written keep their colors.
func (w *Writer) SetAttr(attr console.Attr) {
	w.attr = attr
}

// Cell returns the cell currently displayed at (x, y).
func (w *Writer) Cell(x, y uint32) console.Cell {
	return w.cons.Read(x, y)
}

// Clear blanks every cell of the grid using the active attribute and moves the
// cursor to column 0.
func (w *Writer) Clear() {
	blank := console.MakeCell(console.BlankChar, w.attr)
	for y := uint32(0); y < w.height; y++ {
		for x := uint32(0); x < w.width; x++ {
			w.cons.Write(x, y, blank)
		}
	}
	w.column = 0
}

// WriteByte implements io.ByteWriter. The byte is stored as-is; callers
// writing arbitrary data should use Write or WriteString which substitute
// unprintable bytes.
func (w *Writer) WriteByte(b byte) error {
	if b == '\n' {
		w.newLine()
		return nil
	}

	if w.column >= w.width {
		w.newLine()
	}

	w.cons.Write(w.column, w.height-1, console.MakeCell(b, w.attr))
	w.column++
	return nil
}

// Write implements io.Writer. Printable ASCII characters and line-feeds are
// written as-is; any other byte is replaced with PlaceholderChar. Multi-byte
// UTF-8 sequences therefore show up as one placeholder per byte. Write never
// fails.
func (w *Writer) Write(p []byte) (int, error) {
	for _, b := range p {
		w.WriteByte(renderable(b))
	}

	return len(p), nil
}

// WriteString behaves like Write but avoids converting s to a byte slice.
func (w *Writer) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		w.WriteByte(renderable(s[i]))
	}

	return len(s), nil
}

// renderable maps b to a byte the console can display.
func renderable(b byte) byte {
	if (b >= 0x20 && b <= 0x7e) || b == '\n' {
		return b
	}

	return PlaceholderChar
}

// newLine copies every row to the row above it, blanks the last row and resets
// the cursor column. The top row is discarded. Rows are copied top to bottom
// so each source row is read before it is overwritten.
func (w *Writer) newLine() {
	for y := uint32(1); y < w.height; y++ {
		for x := uint32(0); x < w.width; x++ {
			w.cons.Write(x, y-1, w.cons.Read(x, y))
		}
	}

	blank := console.MakeCell(console.BlankChar, w.attr)
	for x := uint32(0); x < w.width; x++ {
		w.cons.Write(x, w.height-1, blank)
	}

	w.column = 0
}

package console

// Cell is a single character slot of a text-mode grid. Its in-memory layout
// matches the hardware: the low byte holds the character code and the high
// byte holds the Attr.
type Cell uint16

// BlankChar is the character used for cleared cells.
const BlankChar = byte(' ')

// MakeCell returns a Cell that displays ch using attr.
func MakeCell(ch byte, attr Attr) Cell {
	return Cell(uint16(attr)<<8 | uint16(ch))
}

// Char returns the character code stored in the cell.
func (c Cell) Char() byte { return byte(c) }

// Attr returns the color attribute stored in the cell.
func (c Cell) Attr() Attr { return Attr(c >> 8) }

package console

// The Device interface is implemented by character grids backed by hardware.
//
// Implementations must forward every Read and Write to device memory in
// program order: no access may be dropped, merged or reordered, even when Go
// code never reads the written value back. Coordinates are 0-based with the
// origin at the top-left corner and the grid is stored row-major.
type Device interface {
	// Dimensions returns the width and height of the grid in characters.
	Dimensions() (uint32, uint32)

	// Read returns the cell stored at (x, y).
	Read(x, y uint32) Cell

	// Write replaces the cell stored at (x, y).
	Write(x, y uint32, c Cell)
}

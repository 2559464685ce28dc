package mmio

// Read16 loads the 16-bit value stored at addr.
func Read16(addr uintptr) uint16

// Write16 stores val to the 16-bit location at addr.
func Write16(addr uintptr, val uint16)

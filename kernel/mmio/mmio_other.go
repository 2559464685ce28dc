//go:build !amd64

package mmio

import "unsafe"

// Read16 loads the 16-bit value stored at addr. Other architectures only
// run this package on the host, where addr points to ordinary memory.
//
//go:noinline
func Read16(addr uintptr) uint16 {
	return *(*uint16)(unsafe.Pointer(addr))
}

// Write16 stores val to the 16-bit location at addr.
//
//go:noinline
func Write16(addr uintptr, val uint16) {
	*(*uint16)(unsafe.Pointer(addr)) = val
}

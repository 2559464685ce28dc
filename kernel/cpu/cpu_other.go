//go:build !amd64

package cpu

// EnableInterrupts is a no-op on the host.
func EnableInterrupts() {}

// DisableInterrupts is a no-op on the host.
func DisableInterrupts() {}

// InterruptsEnabled always reports false on the host.
func InterruptsEnabled() bool { return false }

// Halt blocks the calling goroutine forever.
func Halt() {
	for {
	}
}

// PortWriteByte discards the write; the host has no port space.
func PortWriteByte(port uint16, val uint8) {}

// PortWriteDword discards the write; the host has no port space.
func PortWriteDword(port uint16, val uint32) {}

// PortReadByte returns 0xff, the value read from an unpopulated port.
func PortReadByte(port uint16) uint8 { return 0xff }

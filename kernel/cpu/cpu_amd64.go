package cpu

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// InterruptsEnabled returns true if the interrupt flag (RFLAGS.IF) is set.
func InterruptsEnabled() bool

// Halt stops instruction execution. Interrupts are disabled first so the CPU
// stays halted.
func Halt()

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortWriteDword writes a uint32 value to the requested port.
func PortWriteDword(port uint16, val uint32)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8

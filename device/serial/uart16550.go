// Package serial drives 16550-compatible UARTs through port I/O.
package serial

import (
	"vgaos/kernel/cpu"
	"vgaos/kernel/sync"
)

// Register offsets relative to the port base.
const (
	regData       = 0 // THR on write; divisor low byte when DLAB is set
	regIntEnable  = 1 // divisor high byte when DLAB is set
	regFifoCtrl   = 2
	regLineCtrl   = 3
	regModemCtrl  = 4
	regLineStatus = 5
)

// Register values.
const (
	lineCtrlDLAB   = 0x80
	lineCtrl8N1    = 0x03
	fifoEnableMask = 0xc7 // enable, clear both FIFOs, 14-byte threshold
	modemCtrlReady = 0x0b // DTR, RTS, OUT2
	lineStatusTHRE = 0x20 // transmit holding register empty
)

// Divisor of the 115200 baud base clock.
const baudDivisor = 3 // 38400 baud

var (
	portWriteByteFn     = cpu.PortWriteByte
	portReadByteFn      = cpu.PortReadByte
	interruptsEnabledFn = cpu.InterruptsEnabled
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts

	// COM1 is the first serial port. QEMU connects it to the host via
	// its -serial option.
	COM1 = NewPort(0x3f8)
)

// Port is a 16550 UART addressed through the I/O port space. Writes are
// emitted in the order they are issued with no framing or translation.
type Port struct {
	base uint16

	lock        sync.Spinlock
	initialized bool
}

// NewPort returns a Port for the UART at the given I/O base. The UART is
// programmed lazily on the first write.
func NewPort(base uint16) *Port {
	return &Port{base: base}
}

// Init programs the UART for 38400 baud, 8 data bits, no parity and one stop
// bit with FIFOs enabled and UART interrupts disabled.
func (p *Port) Init() {
	locked, irqEnabled := p.lockPort()
	p.init()
	p.unlockPort(locked, irqEnabled)
}

func (p *Port) init() {
	portWriteByteFn(p.base+regIntEnable, 0x00)
	portWriteByteFn(p.base+regLineCtrl, lineCtrlDLAB)
	portWriteByteFn(p.base+regData, baudDivisor&0xff)
	portWriteByteFn(p.base+regIntEnable, baudDivisor>>8)
	portWriteByteFn(p.base+regLineCtrl, lineCtrl8N1)
	portWriteByteFn(p.base+regFifoCtrl, fifoEnableMask)
	portWriteByteFn(p.base+regModemCtrl, modemCtrlReady)
	p.initialized = true
}

// WriteByte implements io.ByteWriter.
func (p *Port) WriteByte(b byte) error {
	locked, irqEnabled := p.lockPort()
	p.send(b)
	p.unlockPort(locked, irqEnabled)
	return nil
}

// Write implements io.Writer. The bytes in data are sent as a single unit;
// output from other callers cannot appear in between.
func (p *Port) Write(data []byte) (int, error) {
	locked, irqEnabled := p.lockPort()
	for _, b := range data {
		p.send(b)
	}
	p.unlockPort(locked, irqEnabled)

	return len(data), nil
}

// send busy-waits for the transmit holding register to drain and then
// emits b.
func (p *Port) send(b byte) {
	if !p.initialized {
		p.init()
	}

	for portReadByteFn(p.base+regLineStatus)&lineStatusTHRE == 0 {
	}

	portWriteByteFn(p.base+regData, b)
}

// lockPort disables interrupts and tries to acquire the port lock. It returns
// whether the lock was acquired and whether interrupts were enabled before
// the call.
//
// The port is driven by a single CPU and the lock is always held with
// interrupts disabled, so finding the lock taken means that the caller (a
// fault or NMI handler) interrupted the lock holder. Spinning would never
// return; instead the caller writes to the UART without the lock and its
// bytes may appear in the middle of the interrupted output.
func (p *Port) lockPort() (locked, irqEnabled bool) {
	irqEnabled = interruptsEnabledFn()
	disableInterruptsFn()
	return p.lock.TryToAcquire(), irqEnabled
}

func (p *Port) unlockPort(locked, irqEnabled bool) {
	if locked {
		p.lock.Release()
	}
	if irqEnabled {
		enableInterruptsFn()
	}
}

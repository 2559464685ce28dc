// Package qemu implements the guest side of QEMU's isa-debug-exit device.
//
// The host must start QEMU with:
//
//	-device isa-debug-exit,iobase=0xf4,iosize=0x04
//
// Writing value v to the port terminates QEMU with exit status (v << 1) | 1.
package qemu

import "vgaos/kernel/cpu"

// DebugExitPort is the I/O port the isa-debug-exit device listens on.
const DebugExitPort uint16 = 0xf4

// ExitCode is a status value understood by the host runner.
type ExitCode uint32

// The status values agreed upon with the host runner. QEMU reports them as
// process exit statuses 33 and 35 respectively.
const (
	ExitSuccess ExitCode = 0x10
	ExitFailed  ExitCode = 0x11
)

var (
	portWriteDwordFn = cpu.PortWriteDword
	cpuHaltFn        = cpu.Halt
)

// HostStatus returns the process exit status QEMU reports for code.
func (code ExitCode) HostStatus() int {
	return int(code)<<1 | 1
}

// Exit asks QEMU to terminate with the given code. On real hardware (or
// without the debug-exit device) the write is ignored and the CPU halts, so
// Exit never returns control to its caller.
func Exit(code ExitCode) {
	portWriteDwordFn(DebugExitPort, uint32(code))
	cpuHaltFn()
}

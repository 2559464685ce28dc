package kmain

import (
	"vgaos/device/serial"
	"vgaos/kernel/cpu"
	"vgaos/kernel/kfmt"
	"vgaos/kernel/selftest"
)

var (
	// bootLog tags diagnostics that kmain sends to the serial port.
	bootLog = kfmt.PrefixWriter{Sink: serial.COM1, Prefix: []byte("[kmain] ")}
)

// Kmain is the kernel entrypoint. It is invoked by the rt0 code once a stack
// and a minimal g0 are in place and the CPU runs in long mode with the legacy
// VGA text mode still active.
//
// Kmain prints a greeting on the console and, in kernels built with the
// selftest tag, runs the console checks and reports the result to the
// emulator. It never returns.
//
//go:noinline
func Kmain() {
	kfmt.Printf("Hello, with no newline%s", "!")
	kfmt.Println("Hello, with a newline!")
	kfmt.Println("Hello, with a newline! \U0001F601")
	kfmt.Println()
	kfmt.Print("O___O")

	if selfTestEnabled {
		kfmt.Fprintf(&bootLog, "running %d console checks\n", len(consoleChecks))
		selftest.Run(consoleChecks)
	}

	cpu.Halt()
}

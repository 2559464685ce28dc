package kfmt

import (
	"io"
	"vgaos/device/serial"
	"vgaos/kernel"
	"vgaos/kernel/cpu"
)

var (
	// cpuHaltFn is mocked by tests and is automatically inlined by the compiler.
	cpuHaltFn = cpu.Halt

	// panicFallbackSink receives the panic report when the console lock
	// is held by the code that faulted.
	panicFallbackSink io.Writer = serial.COM1

	// faultHandler, when set, takes over reporting for Panic.
	faultHandler func(*kernel.Error)

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// SetFaultHandler installs fn as the handler for unrecoverable errors raised
// via Panic. Passing nil restores the default behavior of printing the error
// to the console and halting the CPU.
func SetFaultHandler(fn func(*kernel.Error)) {
	faultHandler = fn
}

// Panic reports the supplied error (if not nil) and halts the CPU. Calls to
// Panic never return on real hardware.
//
// If a fault handler has been installed with SetFaultHandler, the error is
// passed to it instead. Otherwise the error is printed to the console; if
// the console is unavailable because the faulting code holds its lock, the
// report is sent to the serial port.
//
// Panic also works as a redirection target for calls to panic() and for
// runtime errors (resolved via runtime.gopanic), so a fault in Go code ends
// up here as well. A fault handler must therefore never return on real
// hardware.
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		panicString(t)
		return
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	if faultHandler != nil {
		faultHandler(err)
		return
	}

	sink, locked, irqEnabled := lockConsole()
	if !locked {
		sink = panicFallbackSink
	}

	Fprintf(sink, "\n-----------------------------------\n")
	if err != nil {
		Fprintf(sink, "[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Fprintf(sink, "*** kernel panic: system halted ***")
	Fprintf(sink, "\n-----------------------------------\n")

	unlockConsole(locked, irqEnabled)
	cpuHaltFn()
}

// panicString serves as a redirect target for runtime.throw.
//go:redirect-from runtime.throw
func panicString(msg string) {
	errRuntimePanic.Message = msg
	Panic(errRuntimePanic)
}

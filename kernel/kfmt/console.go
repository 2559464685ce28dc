package kfmt

import (
	"io"
	"vgaos/device/tty"
	"vgaos/device/video/console"
	"vgaos/kernel/cpu"
	"vgaos/kernel/sync"
)

var (
	interruptsEnabledFn = cpu.InterruptsEnabled
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts

	// newConsoleFn builds the system console writer. It is invoked once,
	// by the first call that produces console output, since the
	// framebuffer cannot be touched before the hardware is set up.
	newConsoleFn = func() *tty.Writer {
		return tty.NewWriter(
			console.NewVgaTextConsole(console.DefaultWidth, console.DefaultHeight, console.DefaultFramebufferAddr),
			console.MakeAttr(console.Yellow, console.Black),
		)
	}

	// consoleLock guards consoleWriter and the framebuffer behind it. The
	// writer is never torn down.
	consoleLock   sync.Spinlock
	consoleWriter *tty.Writer

	// deferredOutput collects output from code that interrupted a console
	// lock holder (a fault or NMI handler). The holder copies it to the
	// console before releasing the lock.
	deferredOutput ringBuffer
	drainBuf       [64]byte
)

// lockConsole disables interrupts and acquires the console lock, creating
// the console writer if needed. It returns the writer that output should be
// sent to and whether the lock was acquired.
//
// The console is driven by a single CPU and the lock is always held with
// interrupts disabled, so finding the lock taken means that the caller
// interrupted the lock holder. Blocking would never return; instead the
// caller is handed the deferred output buffer.
func lockConsole() (sink io.Writer, locked, irqEnabled bool) {
	irqEnabled = interruptsEnabledFn()
	disableInterruptsFn()

	if !consoleLock.TryToAcquire() {
		return &deferredOutput, false, irqEnabled
	}

	if consoleWriter == nil {
		consoleWriter = newConsoleFn()
	}

	return consoleWriter, true, irqEnabled
}

// unlockConsole flushes any deferred output, releases the console lock (if
// locked is true) and restores the interrupt state captured by lockConsole.
func unlockConsole(locked, irqEnabled bool) {
	if locked {
		for {
			n, _ := deferredOutput.Read(drainBuf[:])
			if n == 0 {
				break
			}
			consoleWriter.Write(drainBuf[:n])
		}

		consoleLock.Release()
	}

	if irqEnabled {
		enableInterruptsFn()
	}
}

// Printf formats according to a format specifier (see Fprintf) and writes
// the result to the system console. Printf can be called from any context,
// including fault handlers; each call appears on the console as one
// uninterrupted unit.
func Printf(format string, args ...interface{}) {
	sink, locked, irqEnabled := lockConsole()
	Fprintf(sink, format, args...)
	unlockConsole(locked, irqEnabled)
}

// Print formats its operands (see Fprint) and writes the result to the
// system console.
func Print(args ...interface{}) {
	sink, locked, irqEnabled := lockConsole()
	Fprint(sink, args...)
	unlockConsole(locked, irqEnabled)
}

// Println formats its operands (see Fprintln) and writes the result followed
// by a line-feed to the system console.
func Println(args ...interface{}) {
	sink, locked, irqEnabled := lockConsole()
	Fprintln(sink, args...)
	unlockConsole(locked, irqEnabled)
}

// WithConsole invokes fn with exclusive access to the system console writer.
// It returns false without invoking fn if the console lock is held by the
// code that the caller interrupted.
func WithConsole(fn func(*tty.Writer)) bool {
	_, locked, irqEnabled := lockConsole()
	if locked {
		fn(consoleWriter)
	}
	unlockConsole(locked, irqEnabled)

	return locked
}

// ClearConsole blanks the system console and moves the cursor to the start
// of the last row.
func ClearConsole() bool {
	return WithConsole((*tty.Writer).Clear)
}

// Package selftest runs in-kernel checks under an emulator and reports the
// outcome over the serial port and the emulator's exit device.
package selftest

import (
	"io"
	"vgaos/device/qemu"
	"vgaos/device/serial"
	"vgaos/kernel"
	"vgaos/kernel/kfmt"
)

// Check is a named in-kernel check. Fn reports a failure either by returning
// a non-nil error or by calling kfmt.Panic.
type Check struct {
	Name string
	Fn   func() *kernel.Error
}

var (
	// The following functions are mocked by tests.
	serialOut io.Writer = serial.COM1
	exitFn              = qemu.Exit

	// failed is set by the first reported failure of the current run.
	failed bool

	errUnknownFailure = &kernel.Error{Module: "selftest", Message: "check failed without an error"}
)

// Run executes checks in order. It prints a progress line per check to the
// serial port and signals the emulator once: ExitSuccess when every check
// passes or ExitFailed on the first failure, after which no further checks
// run.
//
// While Run is active it is installed as the kfmt fault handler so that a
// kfmt.Panic raised by a check is reported as a check failure.
func Run(checks []Check) {
	failed = false
	kfmt.SetFaultHandler(fail)

	kfmt.Fprintf(serialOut, "Running %d tests\n", len(checks))
	for i := 0; i < len(checks) && !failed; i++ {
		kfmt.Fprintf(serialOut, "%s...\t", checks[i].Name)

		if err := checks[i].Fn(); err != nil {
			fail(err)
		}

		if !failed {
			kfmt.Fprintf(serialOut, "[ok]\n")
		}
	}

	kfmt.SetFaultHandler(nil)

	if !failed {
		exitFn(qemu.ExitSuccess)
	}
}

// fail reports err and signals failure to the emulator. Only the first
// failure of a run is reported.
func fail(err *kernel.Error) {
	if failed {
		return
	}
	failed = true

	if err == nil {
		err = errUnknownFailure
	}

	kfmt.Fprintf(serialOut, "[failed]\n\n")
	kfmt.Fprintf(serialOut, "Error: %s\n\n", err)
	exitFn(qemu.ExitFailed)
}

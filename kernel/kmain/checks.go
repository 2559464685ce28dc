package kmain

import (
	"vgaos/device/tty"
	"vgaos/device/video/console"
	"vgaos/kernel"
	"vgaos/kernel/kfmt"
	"vgaos/kernel/selftest"
)

// outputCheckStr is printed by checkPrintlnOutput and then read back from the
// framebuffer.
const outputCheckStr = "Here is a simple output"

var (
	consoleChecks = []selftest.Check{
		{Name: "trivial_assertion", Fn: checkTrivialAssertion},
		{Name: "test_println_simple", Fn: checkPrintlnSimple},
		{Name: "test_println_many", Fn: checkPrintlnMany},
		{Name: "test_println_output", Fn: checkPrintlnOutput},
	}

	errAssertion      = &kernel.Error{Module: "kmain", Message: "assertion failed: 1 == 1"}
	errConsoleBusy    = &kernel.Error{Module: "kmain", Message: "console lock held by interrupted code"}
	errOutputMismatch = &kernel.Error{Module: "kmain", Message: "framebuffer contents do not match printed line"}

	// assertionOperand is a variable so the comparison is not folded away.
	assertionOperand = 1

	outputCheckResult *kernel.Error
)

func checkTrivialAssertion() *kernel.Error {
	if assertionOperand != 1 {
		return errAssertion
	}
	return nil
}

func checkPrintlnSimple() *kernel.Error {
	kfmt.Println("test_println_simple output")
	return nil
}

func checkPrintlnMany() *kernel.Error {
	for i := 0; i < 200; i++ {
		kfmt.Println("Test of println output")
	}
	return nil
}

// checkPrintlnOutput prints a line and verifies that it ends up on the second
// to last row; the trailing line-feed scrolls it up by one.
func checkPrintlnOutput() *kernel.Error {
	if !kfmt.ClearConsole() {
		return errConsoleBusy
	}

	kfmt.Println(outputCheckStr)

	outputCheckResult = nil
	if !kfmt.WithConsole(verifyOutputRow) {
		return errConsoleBusy
	}

	return outputCheckResult
}

// verifyOutputRow checks that the second to last row holds exactly
// outputCheckStr in the active colors followed by blank cells.
func verifyOutputRow(w *tty.Writer) {
	attr := w.Attr()
	cols, rows := w.Dimensions()

	for x := uint32(0); x < cols; x++ {
		ch := console.BlankChar
		if x < uint32(len(outputCheckStr)) {
			ch = outputCheckStr[x]
		}

		if exp := console.MakeCell(ch, attr); w.Cell(x, rows-2) != exp {
			outputCheckResult = errOutputMismatch
			return
		}
	}
}

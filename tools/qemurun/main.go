// qemurun boots a kernel image under QEMU with the isa-debug-exit device
// attached, streams the kernel's serial output and maps the emulator's exit
// status to a process exit code: 0 when the in-kernel checks pass, 1 when a
// check fails and 2 for any other outcome.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

func runTool() (int, error) {
	qemuBin := flag.String("qemu", "qemu-system-x86_64", "the QEMU binary to run")
	image := flag.String("image", "", "the bootable kernel image")
	timeout := flag.Duration("timeout", 30*time.Second, "the maximum time the kernel may run before it is killed")
	dump := flag.String("dump", "", "a file to save the VGA text framebuffer to if the run times out")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: qemurun [options] -image kernel.img [-- extra QEMU args]")
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *image == "" {
		return exitError, errors.New("missing -image argument")
	}

	if *timeout <= 0 {
		return exitError, errors.New("-timeout must be positive")
	}

	cfg := runConfig{
		qemu:      *qemuBin,
		image:     *image,
		timeout:   *timeout,
		dumpPath:  *dump,
		extraArgs: flag.Args(),
	}

	sum := &summary{colorize: term.IsTerminal(int(os.Stdout.Fd()))}
	code, err := run(cfg, os.Stdout, sum)
	fmt.Fprintf(os.Stderr, "[qemurun] %s\n", sum)
	for _, msg := range sum.errors {
		fmt.Fprintf(os.Stderr, "[qemurun] check error: %s\n", msg)
	}

	return code, err
}

func main() {
	code, err := runTool()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[qemurun] error: %s\n", err.Error())
	}
	os.Exit(code)
}

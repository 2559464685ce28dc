package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"vgaos/device/qemu"
)

// Process exit codes reported by qemurun.
const (
	exitSuccess = 0
	exitFailed  = 1
	exitError   = 2
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// exitCodeFor maps the exit status of the QEMU process to a qemurun exit code.
// The isa-debug-exit device makes QEMU exit with (code << 1) | 1.
func exitCodeFor(status int) int {
	switch status {
	case qemu.ExitSuccess.HostStatus():
		return exitSuccess
	case qemu.ExitFailed.HostStatus():
		return exitFailed
	default:
		return exitError
	}
}

// summary tracks the check results reported on the kernel's serial output.
type summary struct {
	colorize bool

	passed, failed int
	errors         []string
}

// scan copies serial output from r to out line by line while recording
// check results. It returns when r reaches EOF.
func (s *summary) scan(r io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if _, err := fmt.Fprintln(out, s.observe(line)); err != nil {
			return err
		}
	}

	return sc.Err()
}

// forward copies serial output from r to out like scan does. If scan stops
// early the rest of r is drained so that QEMU never blocks on a full serial
// pipe; the scan error is returned.
func (s *summary) forward(r io.Reader, out io.Writer) error {
	err := s.scan(r, out)
	if err != nil {
		io.Copy(io.Discard, r)
	}

	return err
}

// observe records the result reported by line, if any, and returns the line
// as it should be displayed.
func (s *summary) observe(line string) string {
	switch {
	case strings.HasSuffix(line, "[ok]"):
		s.passed++
		return s.highlight(line, "[ok]", ansiGreen)
	case strings.HasSuffix(line, "[failed]"):
		s.failed++
		return s.highlight(line, "[failed]", ansiRed)
	case strings.HasPrefix(line, "Error: "):
		s.errors = append(s.errors, strings.TrimPrefix(line, "Error: "))
	}

	return line
}

func (s *summary) highlight(line, tag, color string) string {
	if !s.colorize {
		return line
	}

	return strings.TrimSuffix(line, tag) + color + tag + ansiReset
}

// String implements fmt.Stringer.
func (s *summary) String() string {
	return fmt.Sprintf("%d passed, %d failed", s.passed, s.failed)
}

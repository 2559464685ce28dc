package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"vgaos/device/qemu"
	"vgaos/device/video/console"

	"golang.org/x/sys/unix"
)

const (
	// monitorPrompt is printed by the QEMU human monitor whenever it is
	// ready to accept a command.
	monitorPrompt = "(qemu) "

	monitorTimeout = 5 * time.Second
)

// runConfig describes a single QEMU invocation.
type runConfig struct {
	qemu      string
	image     string
	timeout   time.Duration
	dumpPath  string
	extraArgs []string
}

// args returns the QEMU command line. If monitorSock is not empty, a human
// monitor is exposed on that unix socket.
func (cfg runConfig) args(monitorSock string) []string {
	args := []string{
		"-drive", "format=raw,file=" + cfg.image,
		"-device", fmt.Sprintf("isa-debug-exit,iobase=0x%x,iosize=0x04", qemu.DebugExitPort),
		"-serial", "stdio",
		"-display", "none",
		"-no-reboot",
	}

	if monitorSock != "" {
		args = append(args, "-monitor", "unix:"+monitorSock+",server,nowait")
	}

	return append(args, cfg.extraArgs...)
}

// run boots the kernel and waits for QEMU to exit, for the timeout to expire
// or for the user to interrupt the run. Serial output is copied to out and
// recorded in sum. It returns the qemurun exit code.
func run(cfg runConfig, out io.Writer, sum *summary) (int, error) {
	var monitorSock string
	if cfg.dumpPath != "" {
		dir, err := os.MkdirTemp("", "qemurun")
		if err != nil {
			return exitError, err
		}
		defer os.RemoveAll(dir)
		monitorSock = filepath.Join(dir, "monitor.sock")
	}

	cmd := exec.Command(cfg.qemu, cfg.args(monitorSock)...)
	cmd.Stderr = os.Stderr

	// Run QEMU in its own process group so that the whole group can be
	// signaled on timeout.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	serialOut, err := cmd.StdoutPipe()
	if err != nil {
		return exitError, err
	}

	if err = cmd.Start(); err != nil {
		return exitError, fmt.Errorf("starting %s: %w", cfg.qemu, err)
	}

	// cmd.Wait must not be called before all output has been read.
	waitCh := make(chan error, 1)
	go func() {
		if scanErr := sum.forward(serialOut, out); scanErr != nil {
			fmt.Fprintf(os.Stderr, "[qemurun] unable to forward serial output: %s\n", scanErr)
		}
		waitCh <- cmd.Wait()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGINT, unix.SIGTERM)
	defer signal.Stop(sigCh)

	timer := time.NewTimer(cfg.timeout)
	defer timer.Stop()

	select {
	case err = <-waitCh:
	case <-timer.C:
		if monitorSock != "" {
			if dumpErr := saveFramebuffer(monitorSock, cfg.dumpPath); dumpErr != nil {
				fmt.Fprintf(os.Stderr, "[qemurun] unable to save framebuffer: %s\n", dumpErr)
			}
		}
		killGroup(cmd.Process.Pid)
		<-waitCh
		return exitError, fmt.Errorf("kernel did not exit within %s", cfg.timeout)
	case sig := <-sigCh:
		killGroup(cmd.Process.Pid)
		<-waitCh
		return exitError, fmt.Errorf("interrupted by %s", sig)
	}

	if err == nil {
		return exitError, errors.New("qemu exited without a status from the kernel")
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return exitError, fmt.Errorf("waiting for qemu: %w", err)
	}

	code := exitCodeFor(exitErr.ExitCode())
	if code == exitError {
		return code, fmt.Errorf("unexpected qemu exit status %d", exitErr.ExitCode())
	}

	return code, nil
}

// killGroup sends SIGKILL to every process in the group led by pid.
func killGroup(pid int) {
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil && err != unix.ESRCH {
		fmt.Fprintf(os.Stderr, "[qemurun] unable to kill process group %d: %s\n", pid, err)
	}
}

// pmemsaveCommand returns the monitor command that writes the physical memory
// backing the text-mode framebuffer to path.
func pmemsaveCommand(path string) string {
	size := console.DefaultWidth * console.DefaultHeight * 2
	return fmt.Sprintf("pmemsave 0x%x %d %q\n", console.DefaultFramebufferAddr, size, path)
}

// saveFramebuffer asks the QEMU monitor listening on sock to write the VGA
// text framebuffer to path and waits for the command to complete.
func saveFramebuffer(sock, path string) error {
	conn, err := net.DialTimeout("unix", sock, monitorTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(monitorTimeout))

	// Wait for the banner prompt, send the command and wait for the prompt
	// that follows its completion.
	if err = awaitPrompt(conn, 1); err != nil {
		return err
	}
	if _, err = io.WriteString(conn, pmemsaveCommand(path)); err != nil {
		return err
	}
	return awaitPrompt(conn, 1)
}

// awaitPrompt reads from r until count monitor prompts have been seen.
func awaitPrompt(r io.Reader, count int) error {
	var (
		buf  bytes.Buffer
		data = make([]byte, 512)
	)

	for bytes.Count(buf.Bytes(), []byte(monitorPrompt)) < count {
		n, err := r.Read(data)
		buf.Write(data[:n])
		if err != nil {
			if err == io.EOF && bytes.Count(buf.Bytes(), []byte(monitorPrompt)) >= count {
				return nil
			}
			return fmt.Errorf("reading from qemu monitor: %w", err)
		}
	}

	return nil
}

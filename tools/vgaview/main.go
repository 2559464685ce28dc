// vgaview displays a raw VGA text-mode framebuffer dump, such as the one
// captured by qemurun when a kernel run times out, in the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[vgaview] error: %s\n", err.Error())
	os.Exit(1)
}

func runTool() error {
	plain := flag.Bool("plain", false, "print the characters on the screen as text instead of rendering them")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vgaview [options] dump_file")
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		return errors.New("missing framebuffer dump argument")
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		return err
	}

	cells, err := decodeDump(data)
	if err != nil {
		return err
	}

	if *plain {
		_, err = fmt.Fprint(os.Stdout, plainText(cells))
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; use -plain to print the dump as text")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err = screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	view(screen, cells)
	return nil
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}

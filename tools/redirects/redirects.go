// redirects collects the //go:redirect-from directives in the kernel sources
// and writes the resulting redirect table into the kernel image. At boot the
// rt0 code patches every source symbol in the table with a jump to its
// target, which routes runtime.gopanic and runtime.throw to kfmt so that a
// fault in Go code is reported like any other kernel panic.
package main

import (
	"bufio"
	"debug/elf"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// redirectTableSection is the ELF section that the linker script reserves for
// the redirect table.
const redirectTableSection = ".goredirectstbl"

// The source trees that may contain redirect targets.
var sourceRoots = []string{"kernel", "device"}

type redirect struct {
	src string
	dst string

	srcVMA uint64
	dstVMA uint64
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[redirects] error: %s\n", err.Error())
	os.Exit(1)
}

// modulePath returns the module path declared by the go.mod file in dir.
func modulePath(dir string) (string, error) {
	f, err := os.Open(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && fields[0] == "module" {
			return strings.Trim(fields[1], `"`), nil
		}
	}
	if err = sc.Err(); err != nil {
		return "", err
	}

	return "", errors.New("go.mod does not declare a module path")
}

func collectGoFiles(root string) ([]string, error) {
	var goFiles []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		if filepath.Ext(path) == ".go" && !strings.HasSuffix(path, "_test.go") {
			goFiles = append(goFiles, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return goFiles, nil
}

// findRedirects parses goFiles, whose paths are relative to the module root,
// and returns the redirects declared by their function doc comments.
func findRedirects(modPath string, goFiles []string) ([]*redirect, error) {
	var redirects []*redirect

	for _, goFile := range goFiles {
		fset := token.NewFileSet()

		f, err := parser.ParseFile(fset, goFile, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("%s: %s", goFile, err)
		}

		pkgPath := modPath + "/" + filepath.ToSlash(filepath.Dir(goFile))
		for _, decl := range f.Decls {
			fnDecl, ok := decl.(*ast.FuncDecl)
			if !ok || fnDecl.Doc == nil {
				continue
			}

			// build qualified name to fn
			fqName := pkgPath + "." + fnDecl.Name.Name

			for _, comment := range fnDecl.Doc.List {
				if !strings.Contains(comment.Text, "go:redirect-from") {
					continue
				}

				fields := strings.Fields(comment.Text)
				if len(fields) != 2 || fields[0] != "//go:redirect-from" {
					return nil, fmt.Errorf("malformed go:redirect-from syntax for %q", fqName)
				}

				redirects = append(redirects, &redirect{
					src: fields[1],
					dst: fqName,
				})
			}
		}
	}

	return redirects, nil
}

// resolveRedirectSymbols fills in the virtual addresses of the source and
// target of each redirect.
func resolveRedirectSymbols(redirects []*redirect, symbols []elf.Symbol) error {
	for _, redirect := range redirects {
		for _, symbol := range symbols {
			if symbol.Name == redirect.src {
				redirect.srcVMA = symbol.Value
			}
			if symbol.Name == redirect.dst {
				redirect.dstVMA = symbol.Value
			}
		}

		switch {
		case redirect.srcVMA == 0:
			return fmt.Errorf("could not locate address of %q", redirect.src)
		case redirect.dstVMA == 0:
			return fmt.Errorf("could not locate address of %q", redirect.dst)
		}
	}

	return nil
}

// writeRedirectTable encodes the table as consecutive little-endian
// (srcVMA, dstVMA) pairs.
func writeRedirectTable(w io.Writer, redirects []*redirect) error {
	for _, redirect := range redirects {
		if err := binary.Write(w, binary.LittleEndian, [2]uint64{redirect.srcVMA, redirect.dstVMA}); err != nil {
			return err
		}
	}

	return nil
}

func populateTable(redirects []*redirect, imgFile string) error {
	img, err := elf.Open(imgFile)
	if err != nil {
		return err
	}

	symbols, err := img.Symbols()
	if err != nil {
		img.Close()
		return err
	}

	section := img.Section(redirectTableSection)
	img.Close()
	if section == nil {
		return fmt.Errorf("%s: missing %s section", imgFile, redirectTableSection)
	}

	if err = resolveRedirectSymbols(redirects, symbols); err != nil {
		return fmt.Errorf("%s: %w", imgFile, err)
	}

	if need := uint64(len(redirects)) * 16; section.Size < need {
		return fmt.Errorf("%s: %s section holds %d bytes; need %d", imgFile, redirectTableSection, section.Size, need)
	}

	f, err := os.OpenFile(imgFile, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err = f.Seek(int64(section.Offset), io.SeekStart); err != nil {
		return err
	}

	return writeRedirectTable(f, redirects)
}

func runTool() error {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: redirects count | list | populate-table kernel.elf")
		flag.PrintDefaults()
	}
	flag.Parse()

	modPath, err := modulePath(".")
	if err != nil {
		return fmt.Errorf("this tool must be run from the module root: %w", err)
	}

	if flag.NArg() == 0 {
		return errors.New("missing command")
	}

	cmd := flag.Arg(0)
	var imgFile string
	switch cmd {
	case "count", "list":
	case "populate-table":
		if flag.NArg() != 2 {
			return errors.New("populate-table requires the path to the kernel image as an argument")
		}
		imgFile = flag.Arg(1)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	var goFiles []string
	for _, root := range sourceRoots {
		files, err := collectGoFiles(root)
		if err != nil {
			return err
		}
		goFiles = append(goFiles, files...)
	}

	redirects, err := findRedirects(modPath, goFiles)
	if err != nil {
		return err
	}

	switch cmd {
	case "count":
		fmt.Printf("%d", len(redirects))
	case "list":
		for _, redirect := range redirects {
			fmt.Printf("%s -> %s\n", redirect.src, redirect.dst)
		}
	case "populate-table":
		return populateTable(redirects, imgFile)
	}

	return nil
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}

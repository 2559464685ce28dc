package kfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"vgaos/kernel"
)

func TestFprintf(t *testing.T) {
	// mute vet warnings about malformed printf formatting strings
	printfn := Fprintf

	specs := []struct {
		format    string
		args      []interface{}
		expOutput string
	}{
		{"no args", nil, "no args"},
		// bool values
		{"%t", []interface{}{true}, "true"},
		{"%41t", []interface{}{false}, "false"},
		// strings and byte slices
		{"%s arg", []interface{}{"STRING"}, "STRING arg"},
		{"%s arg", []interface{}{[]byte("BYTE SLICE")}, "BYTE SLICE arg"},
		{"'%4s' arg with padding", []interface{}{"ABC"}, "' ABC' arg with padding"},
		{"'%4s' arg longer than padding", []interface{}{"ABCDE"}, "'ABCDE' arg longer than padding"},
		// characters
		{"char: %c", []interface{}{byte('A')}, "char: A"},
		{"char: '%3c'", []interface{}{'z'}, "char: '  z'"},
		{"char: %c", []interface{}{'\U0001F601'}, "char: %!(WRONGTYPE)"},
		// errors
		{"err: %s", []interface{}{errors.New("go error")}, "err: go error"},
		{"err: %s", []interface{}{&kernel.Error{Module: "vga", Message: "bad cell"}}, "err: [vga] bad cell"},
		{"err: '%16s'", []interface{}{&kernel.Error{Module: "vga", Message: "bad"}}, "err: '       [vga] bad'"},
		// uints
		{"uint arg: %d", []interface{}{uint8(10)}, "uint arg: 10"},
		{"uint arg: %o", []interface{}{uint16(0777)}, "uint arg: 777"},
		{"uint arg: 0x%x", []interface{}{uint32(0xbadf00d)}, "uint arg: 0xbadf00d"},
		{"uint arg with padding: '%10d'", []interface{}{uint64(123)}, "uint arg with padding: '       123'"},
		{"uint arg with padding: '%4o'", []interface{}{uint64(0777)}, "uint arg with padding: '0777'"},
		{"uint arg with padding: '0x%10x'", []interface{}{uint64(0xbadf00d)}, "uint arg with padding: '0x000badf00d'"},
		{"uint arg longer than padding: '0x%5x'", []interface{}{int64(0xbadf00d)}, "uint arg longer than padding: '0xbadf00d'"},
		{"uint: %d", []interface{}{uint(42)}, "uint: 42"},
		// pointers
		{"uintptr 0x%x", []interface{}{uintptr(0xb8000)}, "uintptr 0xb8000"},
		// ints
		{"int arg: %d", []interface{}{int8(-10)}, "int arg: -10"},
		{"int arg: %o", []interface{}{int16(0777)}, "int arg: 777"},
		{"int arg: %x", []interface{}{int32(-0xbadf00d)}, "int arg: -badf00d"},
		{"int arg with padding: '%10d'", []interface{}{int64(-12345678)}, "int arg with padding: ' -12345678'"},
		{"int arg with padding: '%10d'", []interface{}{int64(-123456789)}, "int arg with padding: '-123456789'"},
		{"int arg with padding: '%10d'", []interface{}{int64(-1234567890)}, "int arg with padding: '-1234567890'"},
		{"int arg longer than padding: '%5x'", []interface{}{int(-0xbadf00d)}, "int arg longer than padding: '-badf00d'"},
		{"padding longer than maxBufSize '%128x'", []interface{}{int(-0xbadf00d)}, fmt.Sprintf("padding longer than maxBufSize '-%sbadf00d'", strings.Repeat("0", maxBufSize-8))},
		// multiple arguments
		{"%%%s%d%t", []interface{}{"foo", 123, true}, `%foo123true`},
		// formatting errors
		{"more args", []interface{}{"foo", "bar", "baz"}, `more args%!(EXTRA)%!(EXTRA)%!(EXTRA)`},
		{"missing args %s", nil, `missing args (MISSING)`},
		{"bad verb %Q", nil, `bad verb %!(NOVERB)`},
		{"dangling %", nil, `dangling %!(NOVERB)`},
		{"not bool %t", []interface{}{"foo"}, `not bool %!(WRONGTYPE)`},
		{"not int %d", []interface{}{"foo"}, `not int %!(WRONGTYPE)`},
		{"not string %s", []interface{}{123}, `not string %!(WRONGTYPE)`},
	}

	var buf bytes.Buffer
	for specIndex, spec := range specs {
		buf.Reset()
		printfn(&buf, spec.format, spec.args...)

		if got := buf.String(); got != spec.expOutput {
			t.Errorf("[spec %d] expected to get\n%q\ngot:\n%q", specIndex, spec.expOutput, got)
		}
	}
}

func TestFprintfNilWriter(t *testing.T) {
	// Output to a nil writer is discarded.
	Fprintf(nil, "hello %s %d", "world", 42)
}

func TestFprint(t *testing.T) {
	specs := []struct {
		args      []interface{}
		expOutput string
	}{
		{nil, ""},
		{[]interface{}{"Hello, with no newline", "!"}, "Hello, with no newline!"},
		{[]interface{}{"answer=", 42}, "answer=42"},
		{[]interface{}{1, 2, uint8(3)}, "1 2 3"},
		{[]interface{}{true, nil, "x"}, "true <nil>x"},
		{[]interface{}{errors.New("boom")}, "boom"},
	}

	var buf bytes.Buffer
	for specIndex, spec := range specs {
		buf.Reset()
		Fprint(&buf, spec.args...)

		if got := buf.String(); got != spec.expOutput {
			t.Errorf("[spec %d] expected to get\n%q\ngot:\n%q", specIndex, spec.expOutput, got)
		}
	}
}

func TestFprintln(t *testing.T) {
	specs := []struct {
		args      []interface{}
		expOutput string
	}{
		{nil, "\n"},
		{[]interface{}{"Hello, with a newline!"}, "Hello, with a newline!\n"},
		{[]interface{}{"count", 200, false}, "count 200 false\n"},
		{[]interface{}{&kernel.Error{Module: "mod", Message: "msg"}}, "[mod] msg\n"},
	}

	var buf bytes.Buffer
	for specIndex, spec := range specs {
		buf.Reset()
		Fprintln(&buf, spec.args...)

		if got := buf.String(); got != spec.expOutput {
			t.Errorf("[spec %d] expected to get\n%q\ngot:\n%q", specIndex, spec.expOutput, got)
		}
	}
}

func TestFprintfToRingBuffer(t *testing.T) {
	var (
		rb  ringBuffer
		buf bytes.Buffer
	)

	exp := "hello world"
	Fprintf(&rb, "hello %s", "world")
	buf.ReadFrom(&rb)

	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}
}

package kfmt

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestRingBuffer(t *testing.T) {
	var (
		buf    bytes.Buffer
		expStr = "the big brown fox jumped over the lazy dog"
		rb     ringBuffer
	)

	t.Run("read/write", func(t *testing.T) {
		rb.wIndex = 0
		rb.rIndex = 0
		n, err := rb.Write([]byte(expStr))
		if err != nil {
			t.Fatal(err)
		}

		if n != len(expStr) {
			t.Fatalf("expected to write %d bytes; wrote %d", len(expStr), n)
		}

		if got := rb.Len(); got != len(expStr) {
			t.Fatalf("expected Len() to return %d; got %d", len(expStr), got)
		}

		if got := readByteByByte(&buf, &rb); got != expStr {
			t.Fatalf("expected to read %q; got %q", expStr, got)
		}

		if got := rb.Len(); got != 0 {
			t.Fatalf("expected Len() to return 0 after draining the buffer; got %d", got)
		}
	})

	t.Run("write moves read pointer", func(t *testing.T) {
		rb.wIndex = ringBufferSize - 1
		rb.rIndex = 0
		_, err := rb.Write([]byte{'!'})
		if err != nil {
			t.Fatal(err)
		}

		if exp := 1; rb.rIndex != exp {
			t.Fatalf("expected write to push rIndex to %d; got %d", exp, rb.rIndex)
		}
	})

	t.Run("wIndex < rIndex", func(t *testing.T) {
		rb.wIndex = ringBufferSize - 2
		rb.rIndex = ringBufferSize - 2
		n, err := rb.Write([]byte(expStr))
		if err != nil {
			t.Fatal(err)
		}

		if n != len(expStr) {
			t.Fatalf("expected to write %d bytes; wrote %d", len(expStr), n)
		}

		if got := readByteByByte(&buf, &rb); got != expStr {
			t.Fatalf("expected to read %q; got %q", expStr, got)
		}
	})

	t.Run("wrapped chunked read", func(t *testing.T) {
		rb.wIndex = ringBufferSize - 2
		rb.rIndex = ringBufferSize - 2
		rb.Write([]byte(expStr))

		chunk := make([]byte, 64)
		n, err := rb.Read(chunk)
		if err != nil {
			t.Fatal(err)
		}

		// The first read stops at the end of the backing array.
		if n != 2 || string(chunk[:n]) != expStr[:2] {
			t.Fatalf("expected first read to return %q; got %q", expStr[:2], chunk[:n])
		}

		n, _ = rb.Read(chunk)
		if got := string(chunk[:n]); got != expStr[2:] {
			t.Fatalf("expected second read to return %q; got %q", expStr[2:], got)
		}

		if _, err = rb.Read(chunk); err != io.EOF {
			t.Fatalf("expected io.EOF; got %v", err)
		}
	})

	t.Run("overflow keeps newest bytes", func(t *testing.T) {
		rb.wIndex = 0
		rb.rIndex = 0
		rb.Write([]byte(strings.Repeat("x", ringBufferSize)))
		rb.Write([]byte(expStr))

		got := readByteByByte(&buf, &rb)
		if len(got) != ringBufferSize-1 {
			t.Fatalf("expected to read %d bytes; got %d", ringBufferSize-1, len(got))
		}

		if !strings.HasSuffix(got, expStr) {
			t.Fatalf("expected buffer contents to end with %q", expStr)
		}
	})

	t.Run("with io.Copy", func(t *testing.T) {
		rb.wIndex = ringBufferSize - 2
		rb.rIndex = ringBufferSize - 2
		n, err := rb.Write([]byte(expStr))
		if err != nil {
			t.Fatal(err)
		}

		if n != len(expStr) {
			t.Fatalf("expected to write %d bytes; wrote %d", len(expStr), n)
		}

		var buf bytes.Buffer
		io.Copy(&buf, &rb)

		if got := buf.String(); got != expStr {
			t.Fatalf("expected to read %q; got %q", expStr, got)
		}
	})
}

func readByteByByte(buf *bytes.Buffer, r io.Reader) string {
	buf.Reset()
	var b = make([]byte, 1)
	for {
		_, err := r.Read(b)
		if err == io.EOF {
			break
		}

		buf.Write(b)
	}
	return buf.String()
}

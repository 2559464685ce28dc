package kfmt

import (
	"io"
	"unsafe"
	"vgaos/kernel"
)

// maxBufSize defines the buffer size for formatting numbers.
const maxBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")
	nilValue        = []byte("<nil>")
)

// printer holds the scratch space used while formatting. Each formatting
// call keeps its own printer on the stack so that a call which interrupts
// another one (e.g. from a fault handler) cannot clobber the bytes that the
// interrupted call is still writing out.
type printer struct {
	w io.Writer

	numBuf     [maxBufSize + 1]byte
	singleByte [1]byte
}

// Fprintf provides a minimal Fprintf implementation that can be safely used
// from code paths where memory allocation is not possible (fault handlers,
// code that runs while interrupts are disabled). It writes the formatted
// output to w; a nil w discards the output.
//
// Similar to fmt.Printf, this version supports the following subset of
// formatting verbs:
//
// Strings:
//		%s the uninterpreted bytes of the string or byte slice
//		%c the character represented by a byte
//
// Integers:
//		%o base 8
//		%d base 10
//		%x base 16, with lower-case letters for a-f
//
// Booleans:
//		%t "true" or "false"
//
// Width is specified by an optional decimal number immediately preceding the verb.
// If absent, the width is whatever is necessary to represent the value.
//
// String values with length less than the specified width will be left-padded with
// spaces. Integer values formatted as base-10 will also be left-padded with spaces.
// Finally, integer values formatted as base-8 or base-16 will be left-padded with zeroes.
//
// Fprintf supports all built-in string and integer types, error values and
// *kernel.Error values. It does not support pointers (%p) as this requires
// the reflect package.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var p printer
	p.w = w
	p.printf(format, args)
}

// Fprint formats its operands using the default verb for each operand type
// and writes the result to w. Spaces are added between operands when neither
// is a string.
func Fprint(w io.Writer, args ...interface{}) {
	var p printer
	p.w = w

	for i, arg := range args {
		if i > 0 && !isString(arg) && !isString(args[i-1]) {
			p.writeByte(' ')
		}
		p.fmtValue(arg)
	}
}

// Fprintln formats its operands using the default verb for each operand
// type, separates them with spaces and appends a line-feed. Calling Fprintln
// without operands writes a single line-feed.
func Fprintln(w io.Writer, args ...interface{}) {
	var p printer
	p.w = w

	for i, arg := range args {
		if i > 0 {
			p.writeByte(' ')
		}
		p.fmtValue(arg)
	}

	p.writeByte('\n')
}

func (p *printer) printf(format string, args []interface{}) {
	var (
		nextCh                       byte
		nextArgIndex                 int
		blockStart, blockEnd, padLen int
		fmtLen                       = len(format)
	)

	for blockEnd < fmtLen {
		nextCh = format[blockEnd]
		if nextCh != '%' {
			blockEnd++
			continue
		}

		// passing format[blockStart:blockEnd] to doWrite triggers a
		// memory allocation so we need to do this one byte at a time.
		p.writeString(format[blockStart:blockEnd])

		// Scan til we hit the format character
		padLen = 0
		blockEnd++
	parseFmt:
		for ; blockEnd < fmtLen; blockEnd++ {
			nextCh = format[blockEnd]
			switch {
			case nextCh == '%':
				p.writeByte('%')
				break parseFmt
			case nextCh >= '0' && nextCh <= '9':
				padLen = (padLen * 10) + int(nextCh-'0')
				continue
			case isVerb(nextCh):
				// Run out of args to print
				if nextArgIndex >= len(args) {
					doWrite(p.w, errMissingArg)
					break parseFmt
				}

				p.fmtArg(nextCh, args[nextArgIndex], padLen)
				nextArgIndex++
				break parseFmt
			}

			// reached an unsupported verb
			doWrite(p.w, errNoVerb)
			break
		}

		if blockEnd == fmtLen {
			// reached end of formatting string without finding a verb
			doWrite(p.w, errNoVerb)
		}
		blockStart, blockEnd = blockEnd+1, blockEnd+1
	}

	if blockStart < fmtLen {
		p.writeString(format[blockStart:])
	}

	// Check for unused args
	for ; nextArgIndex < len(args); nextArgIndex++ {
		doWrite(p.w, errExtraArg)
	}
}

func isVerb(ch byte) bool {
	switch ch {
	case 'd', 'x', 'o', 's', 't', 'c':
		return true
	}
	return false
}

func isString(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

// fmtArg formats v according to verb.
func (p *printer) fmtArg(verb byte, v interface{}, padLen int) {
	switch verb {
	case 'o':
		p.fmtInt(v, 8, padLen)
	case 'd':
		p.fmtInt(v, 10, padLen)
	case 'x':
		p.fmtInt(v, 16, padLen)
	case 's':
		p.fmtString(v, padLen)
	case 't':
		p.fmtBool(v)
	case 'c':
		p.fmtChar(v, padLen)
	}
}

// fmtValue formats v using the default verb for its type.
func (p *printer) fmtValue(v interface{}) {
	switch v.(type) {
	case nil:
		doWrite(p.w, nilValue)
	case bool:
		p.fmtBool(v)
	case string, []byte, error:
		p.fmtString(v, 0)
	default:
		p.fmtInt(v, 10, 0)
	}
}

// fmtBool prints a formatted version of boolean value v.
func (p *printer) fmtBool(v interface{}) {
	bVal, ok := v.(bool)
	switch {
	case !ok:
		doWrite(p.w, errWrongArgType)
	case bVal:
		doWrite(p.w, trueValue)
	default:
		doWrite(p.w, falseValue)
	}
}

// fmtChar prints v, which must be a byte or an ASCII rune, as a single
// character.
func (p *printer) fmtChar(v interface{}, padLen int) {
	var ch byte
	switch t := v.(type) {
	case uint8:
		ch = t
	case int32:
		if t < 0 || t > 0x7f {
			doWrite(p.w, errWrongArgType)
			return
		}
		ch = byte(t)
	default:
		doWrite(p.w, errWrongArgType)
		return
	}

	p.repeat(' ', padLen-1)
	p.writeByte(ch)
}

// fmtString prints a formatted version of a string, byte slice or error value
// v, applying the padding specified by padLen. *kernel.Error values are
// printed as "[module] message".
func (p *printer) fmtString(v interface{}, padLen int) {
	switch castedVal := v.(type) {
	case string:
		p.repeat(' ', padLen-len(castedVal))
		p.writeString(castedVal)
	case []byte:
		p.repeat(' ', padLen-len(castedVal))
		doWrite(p.w, castedVal)
	case *kernel.Error:
		p.repeat(' ', padLen-(len(castedVal.Module)+len(castedVal.Message)+3))
		p.writeByte('[')
		p.writeString(castedVal.Module)
		p.writeByte(']')
		p.writeByte(' ')
		p.writeString(castedVal.Message)
	case error:
		msg := castedVal.Error()
		p.repeat(' ', padLen-len(msg))
		p.writeString(msg)
	default:
		doWrite(p.w, errWrongArgType)
	}
}

// writeByte writes a single byte.
func (p *printer) writeByte(ch byte) {
	p.singleByte[0] = ch
	doWrite(p.w, p.singleByte[:])
}

// writeString writes s one byte at a time; converting the string to a byte
// slice would trigger a memory allocation.
func (p *printer) writeString(s string) {
	for i := 0; i < len(s); i++ {
		p.writeByte(s[i])
	}
}

// repeat writes count bytes with value ch.
func (p *printer) repeat(ch byte, count int) {
	for i := 0; i < count; i++ {
		p.writeByte(ch)
	}
}

// fmtInt prints out a formatted version of v in the requested base, applying
// the padding specified by padLen. This function supports all built-in signed
// and unsigned integer types and base 8, 10 and 16 output.
func (p *printer) fmtInt(v interface{}, base, padLen int) {
	var (
		sval             int64
		uval             uint64
		divider          = uint64(base)
		remainder        uint64
		padCh            byte = '0'
		left, right, end int
		numFmtBuf        = p.numBuf[:]
	)

	if padLen >= maxBufSize {
		padLen = maxBufSize - 1
	}

	if base == 10 {
		padCh = ' '
	}

	switch t := v.(type) {
	case uint8:
		uval = uint64(t)
	case uint16:
		uval = uint64(t)
	case uint32:
		uval = uint64(t)
	case uint64:
		uval = t
	case uint:
		uval = uint64(t)
	case uintptr:
		uval = uint64(t)
	case int8:
		sval = int64(t)
	case int16:
		sval = int64(t)
	case int32:
		sval = int64(t)
	case int64:
		sval = t
	case int:
		sval = int64(t)
	default:
		doWrite(p.w, errWrongArgType)
		return
	}

	// Handle signs
	if sval < 0 {
		uval = uint64(-sval)
	} else if sval > 0 {
		uval = uint64(sval)
	}

	for right < maxBufSize {
		remainder = uval % divider
		if remainder < 10 {
			numFmtBuf[right] = byte(remainder) + '0'
		} else {
			// map values from 10 to 15 -> a-f
			numFmtBuf[right] = byte(remainder-10) + 'a'
		}

		right++

		uval /= divider
		if uval == 0 {
			break
		}
	}

	// Apply padding if required
	for ; right-left < padLen; right++ {
		numFmtBuf[right] = padCh
	}

	// Apply negative sign to the rightmost blank character (if using enough padding);
	// otherwise append the sign as a new char
	if sval < 0 {
		for end = right - 1; numFmtBuf[end] == ' '; end-- {
		}

		if end == right-1 {
			right++
		}

		numFmtBuf[end+1] = '-'
	}

	// Reverse in place
	end = right
	for right = right - 1; left < right; left, right = left+1, right-1 {
		numFmtBuf[left], numFmtBuf[right] = numFmtBuf[right], numFmtBuf[left]
	}

	doWrite(p.w, numFmtBuf[0:end])
}

// doWrite is a proxy that uses the runtime.noescape hack to hide p from the
// compiler's escape analysis. Without this hack, the compiler cannot properly
// detect that p does not escape (due to the call to the yet unknown io.Writer)
// and plays it safe by flagging it as escaping, causing each formatting call
// to allocate.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	}
}

// noEscape hides a pointer from escape analysis. This function is copied over
// from runtime/stubs.go
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

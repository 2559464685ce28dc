package serial

import (
	"bytes"
	"testing"
	"vgaos/kernel/cpu"
)

type portIO struct {
	port uint16
	val  uint8
}

func mockCPU(t *testing.T, lineStatus func() uint8) (writes *[]portIO, irqLog *[]string) {
	writes = new([]portIO)
	irqLog = new([]string)
	irqEnabled := true

	portWriteByteFn = func(port uint16, val uint8) {
		*writes = append(*writes, portIO{port, val})
	}
	portReadByteFn = func(port uint16) uint8 {
		if port != 0x3f8+regLineStatus {
			t.Errorf("unexpected read from port 0x%x", port)
		}
		return lineStatus()
	}
	interruptsEnabledFn = func() bool { return irqEnabled }
	disableInterruptsFn = func() {
		irqEnabled = false
		*irqLog = append(*irqLog, "cli")
	}
	enableInterruptsFn = func() {
		irqEnabled = true
		*irqLog = append(*irqLog, "sti")
	}

	t.Cleanup(func() {
		portWriteByteFn = cpu.PortWriteByte
		portReadByteFn = cpu.PortReadByte
		interruptsEnabledFn = cpu.InterruptsEnabled
		disableInterruptsFn = cpu.DisableInterrupts
		enableInterruptsFn = cpu.EnableInterrupts
	})

	return writes, irqLog
}

func dataBytes(writes []portIO, base uint16) []byte {
	var out []byte
	for _, w := range writes {
		if w.port == base+regData {
			out = append(out, w.val)
		}
	}
	return out
}

func TestPortInit(t *testing.T) {
	writes, _ := mockCPU(t, func() uint8 { return lineStatusTHRE })

	p := NewPort(0x3f8)
	p.Init()

	exp := []portIO{
		{0x3f9, 0x00},
		{0x3fb, 0x80},
		{0x3f8, 0x03},
		{0x3f9, 0x00},
		{0x3fb, 0x03},
		{0x3fa, 0xc7},
		{0x3fc, 0x0b},
	}

	if len(*writes) != len(exp) {
		t.Fatalf("expected %d port writes; got %d: %v", len(exp), len(*writes), *writes)
	}

	for i, w := range *writes {
		if w != exp[i] {
			t.Errorf("expected write %d to be %v; got %v", i, exp[i], w)
		}
	}
}

func TestPortWrite(t *testing.T) {
	t.Run("lazy init and ordered output", func(t *testing.T) {
		writes, _ := mockCPU(t, func() uint8 { return lineStatusTHRE })

		p := NewPort(0x3f8)
		msg := []byte("test_println_simple...\t[ok]\n")
		n, err := p.Write(msg)
		if err != nil {
			t.Fatal(err)
		}
		if n != len(msg) {
			t.Fatalf("expected to write %d bytes; wrote %d", len(msg), n)
		}

		// 7 init writes including one to the data register (divisor low)
		if got := dataBytes((*writes)[7:], 0x3f8); !bytes.Equal(got, msg) {
			t.Fatalf("expected data register to receive %q; got %q", msg, got)
		}

		p.WriteByte('!')
		if last := (*writes)[len(*writes)-1]; last != (portIO{0x3f8, '!'}) {
			t.Fatalf("expected last write to send '!'; got %v", last)
		}
	})

	t.Run("waits for transmit holding register", func(t *testing.T) {
		var polls int
		writes, _ := mockCPU(t, func() uint8 {
			polls++
			if polls%3 != 0 {
				return 0
			}
			return lineStatusTHRE
		})

		p := NewPort(0x3f8)
		p.Init()
		*writes = (*writes)[:0]

		p.Write([]byte("ab"))

		if polls != 6 {
			t.Fatalf("expected 6 line status polls; got %d", polls)
		}
		if got := dataBytes(*writes, 0x3f8); string(got) != "ab" {
			t.Fatalf("expected %q to be sent; got %q", "ab", got)
		}
	})

	t.Run("restores interrupt state", func(t *testing.T) {
		_, irqLog := mockCPU(t, func() uint8 { return lineStatusTHRE })

		p := NewPort(0x3f8)
		p.WriteByte('x')

		if got := len(*irqLog); got != 2 || (*irqLog)[0] != "cli" || (*irqLog)[1] != "sti" {
			t.Fatalf("expected interrupts to be disabled and re-enabled; got %v", *irqLog)
		}

		// When interrupts are already off they must stay off.
		interruptsEnabledFn = func() bool { return false }
		*irqLog = (*irqLog)[:0]
		p.WriteByte('y')
		for _, op := range *irqLog {
			if op == "sti" {
				t.Fatal("expected interrupts to remain disabled")
			}
		}
	})
}

func TestPortWriteWhileLocked(t *testing.T) {
	writes, _ := mockCPU(t, func() uint8 { return lineStatusTHRE })

	p := NewPort(0x3f8)
	p.Init()
	*writes = (*writes)[:0]

	// Emulate a fault handler that interrupts a writer holding the port
	// lock; the write must not spin on the lock.
	p.lock.Acquire()
	p.Write([]byte("[failed]\n"))

	if got := dataBytes(*writes, 0x3f8); string(got) != "[failed]\n" {
		t.Fatalf("expected %q to be sent; got %q", "[failed]\n", got)
	}

	// The interrupted writer still owns the lock.
	if p.lock.TryToAcquire() {
		t.Fatal("expected the port lock to remain held by the interrupted writer")
	}

	p.lock.Release()
	p.WriteByte('!')
	if !p.lock.TryToAcquire() {
		t.Fatal("expected the port lock to be released after a write")
	}
}

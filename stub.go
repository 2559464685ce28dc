package main

import "vgaos/kernel/kmain"

// main makes a dummy call to the actual kernel main entrypoint function. It
// is intentionally defined to prevent the Go compiler from optimizing away the
// real kernel code, which is entered from the rt0 code rather than through
// the Go runtime.
func main() {
	kmain.Kmain()
}

//go:build !selftest

package kmain

const selfTestEnabled = false

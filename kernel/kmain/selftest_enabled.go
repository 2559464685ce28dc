//go:build selftest

package kmain

const selfTestEnabled = true

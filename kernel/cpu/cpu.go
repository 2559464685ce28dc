// Package cpu exposes the handful of privileged amd64 instructions used by the
// text-output subsystem. On amd64 all functions are implemented in assembly.
// Other architectures get host stubs so that the host tools, which share the
// device packages, build everywhere.
//
// Callers that need to run under a test harness should reach these functions
// through package-level function variables that tests can swap out.
package cpu

// Package mmio provides accessors for memory that is observed or owned by a
// hardware device.
//
// On amd64 the accessors are implemented in assembly. The compiler treats
// each call as an opaque side effect: it cannot drop a write whose value is
// never read back by Go code, merge two writes to the same location, or move
// an access across another call into this package. Device drivers must use
// these accessors for every load and store that targets device memory.
package mmio

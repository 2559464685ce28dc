package kernel

// Error describes an error raised by kernel code. Errors are declared as
// package-level pointers to Error values since code that runs before (or
// instead of) a memory allocator cannot call errors.New or fmt.Errorf.
type Error struct {
	// The subsystem that raised the error.
	Module string

	// A short description of what went wrong.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

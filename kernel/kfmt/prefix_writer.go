package kfmt

import "io"

// PrefixWriter is an io.Writer that wraps another io.Writer and injects a
// prefix at the beginning of each line.
type PrefixWriter struct {
	// A writer where all writes get sent to.
	Sink io.Writer

	// The prefix injected at the beginning of each line.
	Prefix []byte

	// midLine is true when the last byte written was not a line-feed.
	midLine bool
}

// Write writes len(p) bytes from p to the underlying data stream and returns
// back the number of bytes written. The injected prefix is not included in the
// returned count. A prefix is only emitted once there is data to follow it,
// so a trailing line-feed does not leave a dangling prefix behind.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written, lineStart int

	for lineStart < len(p) {
		if !w.midLine {
			if _, err := w.Sink.Write(w.Prefix); err != nil {
				return written, err
			}
			w.midLine = true
		}

		lineEnd := lineStart
		for lineEnd < len(p) && p[lineEnd] != '\n' {
			lineEnd++
		}
		if lineEnd < len(p) {
			lineEnd++ // include the line-feed
			w.midLine = false
		}

		n, err := w.Sink.Write(p[lineStart:lineEnd])
		written += n
		if err != nil {
			return written, err
		}
		lineStart = lineEnd
	}

	return written, nil
}

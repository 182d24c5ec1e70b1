// Package logio adapts line oriented output into a printf-style logging
// function, e.g. to route VM output or trace lines into testing.T.Logf.
package logio

import (
	"bytes"
	"sync"
)

// Writer logs each complete line written to it through Logf. It is safe to
// use from multiple goroutines.
type Writer struct {
	Logf func(string, ...interface{})

	// Prefix, if non-empty, is logged before every line.
	Prefix string

	mu      sync.Mutex
	partial []byte
}

// Write logs every line completed by p; a trailing partial line is held
// until a later Write or Sync.
func (lw *Writer) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	n := len(p)
	for {
		line, rest, found := bytes.Cut(p, []byte{'\n'})
		if !found {
			lw.partial = append(lw.partial, p...)
			return n, nil
		}
		if len(lw.partial) > 0 {
			line = append(lw.partial, line...)
			lw.partial = lw.partial[:0]
		}
		lw.Logf("%s%s", lw.Prefix, line)
		p = rest
	}
}

// Sync logs any held partial line.
func (lw *Writer) Sync() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if len(lw.partial) > 0 {
		lw.Logf("%s%s", lw.Prefix, lw.partial)
		lw.partial = lw.partial[:0]
	}
	return nil
}

// Close calls Sync.
func (lw *Writer) Close() error { return lw.Sync() }

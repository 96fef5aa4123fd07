package testhelpers

import (
	"io"
	"strings"
	"testing"
)

// Writer is an io.Writer that forwards every write to t.Log, so server and CLI logs only show up for failing tests.
type Writer struct {
	t    *testing.T
	done chan struct{}
}

// NewWriter returns a Writer for t. Writes after t has finished panic, which catches a server from
// [e2etest.StartServer] or a background load that outlives its test.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{
		t:    t,
		done: make(chan struct{}),
	}
	t.Cleanup(func() {
		close(w.done)
	})
	return w
}

// Write logs p as one t.Log line without its trailing newline.
func (w *Writer) Write(p []byte) (int, error) {
	select {
	case <-w.done:
		panic("testhelpers: log write after the test finished, check that the server is shut down in t.Cleanup")
	default:
	}
	if line := strings.TrimSuffix(string(p), "\n"); line != "" {
		w.t.Log(line)
	}
	return len(p), nil
}

package clipboard

import (
	"io"
	"sync"
)

// File is a terminal handle: readable, writable and with a descriptor,
// like *os.File.
type File interface {
	io.ReadWriteCloser
	Fd() uintptr
}

// Terminal serializes writes to a shared terminal. The UI renderer and the
// OSC 52 route both write through it, so each Write lands whole and an
// escape sequence never splits a frame.
type Terminal struct {
	mu sync.Mutex
	f  File
}

// NewTerminal wraps f.
func NewTerminal(f File) *Terminal {
	return &Terminal{f: f}
}

func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.f.Write(p)
}

func (t *Terminal) Read(p []byte) (int, error) { return t.f.Read(p) }

func (t *Terminal) Close() error { return t.f.Close() }

// Fd returns the wrapped descriptor so TTY detection still works.
func (t *Terminal) Fd() uintptr { return t.f.Fd() }

package clipboard

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func newTestCopier(systemErr error, terminal *bytes.Buffer, env map[string]string) *Copier {
	c := New(nil, nil)
	if terminal != nil {
		c.terminal = terminal
	}
	c.system = func(string) error { return systemErr }
	c.getenv = func(k string) string { return env[k] }
	return c
}

func TestCopySystemFirst(t *testing.T) {
	var term bytes.Buffer
	c := newTestCopier(nil, &term, nil)

	m, err := c.Copy("story")
	require.NoError(t, err)
	assert.Equal(t, MethodSystem, m)
	assert.Zero(t, term.Len(), "terminal untouched")
}

func TestCopyFallsBackToOSC52(t *testing.T) {
	var term bytes.Buffer
	c := newTestCopier(errors.New("no xclip"), &term, nil)

	m, err := c.Copy("story")
	require.NoError(t, err)
	assert.Equal(t, MethodTerminal, m)
	assert.True(t, strings.HasPrefix(term.String(), "\x1b]52;c;"))
	assert.Contains(t, term.String(), "c3Rvcnk=")
}

func TestCopyOSC52InsideTmux(t *testing.T) {
	var term bytes.Buffer
	c := newTestCopier(errors.New("no xclip"), &term, map[string]string{"TMUX": "/tmp/tmux"})

	_, err := c.Copy("story")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(term.String(), "\x1bPtmux;"))
}

func TestCopyManualWhenAllRoutesFail(t *testing.T) {
	c := newTestCopier(errors.New("no xclip"), nil, nil)
	_, err := c.Copy("story")
	assert.ErrorIs(t, err, ErrManualCopy)

	c.terminal = failWriter{}
	_, err = c.Copy("story")
	assert.ErrorIs(t, err, ErrManualCopy)
}

// overlapFile records writes and notices when two are in flight at once.
type overlapFile struct {
	mu       sync.Mutex
	inFlight int32
	overlap  atomic.Bool
	writes   []string
}

func (f *overlapFile) Write(p []byte) (int, error) {
	if atomic.AddInt32(&f.inFlight, 1) > 1 {
		f.overlap.Store(true)
	}
	time.Sleep(time.Millisecond)
	f.mu.Lock()
	f.writes = append(f.writes, string(p))
	f.mu.Unlock()
	atomic.AddInt32(&f.inFlight, -1)
	return len(p), nil
}

func (f *overlapFile) Read([]byte) (int, error) { return 0, io.EOF }
func (f *overlapFile) Close() error             { return nil }
func (f *overlapFile) Fd() uintptr              { return 42 }

func TestTerminalKeepsCopyOutOfFrames(t *testing.T) {
	file := &overlapFile{}
	term := NewTerminal(file)
	c := New(term, nil)
	c.system = func(string) error { return errors.New("no xclip") }
	c.getenv = func(string) string { return "" }

	frame := strings.Repeat("█", 200)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := term.Write([]byte(frame))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			m, err := c.Copy("story")
			assert.NoError(t, err)
			assert.Equal(t, MethodTerminal, m)
		}()
	}
	wg.Wait()

	assert.False(t, file.overlap.Load(), "writes interleaved")
	require.Len(t, file.writes, 16)
	copies := 0
	for _, w := range file.writes {
		switch {
		case w == frame:
		case strings.HasPrefix(w, "\x1b]52;c;") && strings.Contains(w, "c3Rvcnk="):
			copies++
		default:
			assert.Failf(t, "split write", "%q", w)
		}
	}
	assert.Equal(t, 8, copies, "each sequence written in one piece")
	assert.Equal(t, uintptr(42), term.Fd())
}

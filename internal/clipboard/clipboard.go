// Package clipboard copies share text out of the terminal app: the system
// clipboard first, then an OSC 52 escape sequence to the terminal, which
// also works over SSH.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"go.uber.org/zap"
)

// ManualCopyMessage is shown when ErrManualCopy is returned.
const ManualCopyMessage = "Unable to copy. Please select and copy manually."

// ErrManualCopy means neither route worked.
var ErrManualCopy = errors.New("no clipboard route available")

// Method is the route a copy went through.
type Method string

const (
	MethodSystem   Method = "system"
	MethodTerminal Method = "terminal"
)

// Copier tries the copy routes in order.
type Copier struct {
	system   func(string) error
	terminal io.Writer
	getenv   func(string) string
	logger   *zap.Logger
}

// New returns a Copier writing OSC 52 sequences to terminal. A nil terminal
// disables that route. When a UI draws on the same terminal, pass the
// Terminal the UI renders through.
func New(terminal io.Writer, logger *zap.Logger) *Copier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Copier{
		system:   systemCopy,
		terminal: terminal,
		getenv:   os.Getenv,
		logger:   logger.Named("clipboard"),
	}
}

func systemCopy(text string) error {
	if clipboard.Unsupported {
		return errors.New("no system clipboard utility found")
	}
	return clipboard.WriteAll(text)
}

// Copy puts text on a clipboard and reports which route took it. It never
// fails silently: when both routes fail the error is ErrManualCopy.
func (c *Copier) Copy(text string) (Method, error) {
	err := c.system(text)
	if err == nil {
		return MethodSystem, nil
	}
	c.logger.Debug("System clipboard unavailable", zap.Error(err))

	if c.terminal != nil {
		seq := osc52.New(text)
		switch {
		case c.getenv("TMUX") != "":
			seq = seq.Tmux()
		case c.getenv("STY") != "":
			seq = seq.Screen()
		}
		// One write, so a serializing terminal keeps the sequence whole.
		_, werr := io.WriteString(c.terminal, seq.String())
		if werr == nil {
			return MethodTerminal, nil
		}
		c.logger.Debug("OSC 52 write failed", zap.Error(werr))
	}
	return "", fmt.Errorf("%w: %v", ErrManualCopy, err)
}

// Package service holds the side-effecting helpers of the client
package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	atotto "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
	"golang.org/x/term"
)

// ErrClipboardUnavailable is returned when no strategy could copy
var ErrClipboardUnavailable = errors.New("no clipboard available")

// ClipboardStrategy is one way of reaching a clipboard
type ClipboardStrategy interface {
	Name() string
	Available() bool
	Write(text string) error
}

// ClipboardService copies text through the first strategy that works
type ClipboardService struct {
	mu         sync.Mutex
	strategies []ClipboardStrategy
	lastCopied string
	logger     zerolog.Logger
}

// NewClipboardService creates a service trying, in order, the system
// clipboard, a clipboard command and an OSC 52 escape written to out.
func NewClipboardService(out io.Writer, logger zerolog.Logger) *ClipboardService {
	return NewClipboardServiceWith(logger,
		&SystemClipboard{},
		CommandClipboard{},
		&OSC52Clipboard{Out: out},
	)
}

// NewClipboardServiceWith creates a service with explicit strategies
func NewClipboardServiceWith(logger zerolog.Logger, strategies ...ClipboardStrategy) *ClipboardService {
	return &ClipboardService{
		strategies: strategies,
		logger:     logger.With().Str("component", "clipboard").Logger(),
	}
}

// Copy copies text and returns the name of the strategy that did it
func (c *ClipboardService) Copy(text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, s := range c.strategies {
		if !s.Available() {
			continue
		}
		if err := s.Write(text); err != nil {
			c.logger.Warn().Err(err).Str("strategy", s.Name()).Msg("copy failed, trying next")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		c.lastCopied = text
		c.logger.Debug().Str("strategy", s.Name()).Int("bytes", len(text)).Msg("copied")
		return s.Name(), nil
	}

	return "", errors.Join(append([]error{ErrClipboardUnavailable}, errs...)...)
}

// LastCopied returns the text of the last successful copy
func (c *ClipboardService) LastCopied() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCopied
}

// IsAvailable returns whether any strategy is available
func (c *ClipboardService) IsAvailable() bool {
	for _, s := range c.strategies {
		if s.Available() {
			return true
		}
	}
	return false
}

// SystemClipboard uses the platform clipboard API
type SystemClipboard struct {
	initOnce    sync.Once
	initialized bool
}

func (s *SystemClipboard) Name() string { return "system" }

// Available lazily initializes the clipboard; this fails on headless systems
func (s *SystemClipboard) Available() bool {
	s.initOnce.Do(func() {
		s.initialized = clipboard.Init() == nil
	})
	return s.initialized
}

func (s *SystemClipboard) Write(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// CommandClipboard shells out to pbcopy, xclip, xsel, wl-copy or clip.exe
type CommandClipboard struct{}

func (CommandClipboard) Name() string { return "command" }

func (CommandClipboard) Available() bool { return !atotto.Unsupported }

func (CommandClipboard) Write(text string) error {
	return atotto.WriteAll(text)
}

// OSC52Clipboard asks the terminal to set the clipboard. Only terminals are
// written to.
type OSC52Clipboard struct {
	Out io.Writer
}

func (o *OSC52Clipboard) Name() string { return "osc52" }

func (o *OSC52Clipboard) Available() bool {
	f, ok := o.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (o *OSC52Clipboard) Write(text string) error {
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(o.Out)
	return err
}

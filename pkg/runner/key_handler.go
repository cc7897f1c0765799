package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/aretw0/lectern/pkg/domain"
)

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyEscape    = 0x1b
	keyDelete    = 0x7f

	clearScreen = "\x1b[H\x1b[2J"
)

// KeyHandler reads single keystrokes. When the reader is a terminal it is
// switched to raw mode until Close is called.
//
//	→ l n space enter    next
//	← h p backspace      previous
//	↑ k, ↓ j             vertical
//	g, G                 first, last slide
//	q esc ctrl-c         quit
type KeyHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Status   StatusRenderer

	fd       int
	oldState *term.State

	keys      chan inputResult
	startOnce sync.Once
}

// KeyHandlerOption defines configuration for KeyHandler.
type KeyHandlerOption func(*KeyHandler)

// WithKeyHandlerRenderer configures the content renderer.
func WithKeyHandlerRenderer(renderer ContentRenderer) KeyHandlerOption {
	return func(h *KeyHandler) {
		h.Renderer = renderer
	}
}

// WithKeyHandlerStatus configures the status line renderer.
func WithKeyHandlerStatus(status StatusRenderer) KeyHandlerOption {
	return func(h *KeyHandler) {
		h.Status = status
	}
}

// NewKeyHandler creates a key handler. If r is a terminal it enters raw mode.
func NewKeyHandler(r io.Reader, w io.Writer, opts ...KeyHandlerOption) (*KeyHandler, error) {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &KeyHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Status: DefaultStatus,
		fd:     -1,
	}
	for _, opt := range opts {
		opt(h)
	}

	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("failed to enter raw mode: %w", err)
		}
		h.fd = fd
		h.oldState = state
	}
	return h, nil
}

// Raw reports whether the terminal is in raw mode.
func (h *KeyHandler) Raw() bool {
	return h.oldState != nil
}

// Close restores the terminal.
func (h *KeyHandler) Close() error {
	if h.oldState == nil {
		return nil
	}
	err := term.Restore(h.fd, h.oldState)
	h.oldState = nil
	return err
}

func (h *KeyHandler) initPump() {
	h.startOnce.Do(func() {
		h.keys = make(chan inputResult)
		go h.pump()
	})
}

func (h *KeyHandler) pump() {
	defer close(h.keys)
	for {
		cmd, err := h.readKey()
		if err != nil {
			h.keys <- inputResult{err: err}
			return
		}
		if cmd == nil {
			continue
		}
		h.keys <- inputResult{cmd: *cmd}
	}
}

// readKey decodes one keystroke. Unbound keys yield (nil, nil).
func (h *KeyHandler) readKey() (*domain.Command, error) {
	b, err := h.Reader.ReadByte()
	if err != nil {
		return nil, err
	}

	switch b {
	case keyEscape:
		if h.Reader.Buffered() == 0 {
			return nil, ErrQuit
		}
		next, err := h.Reader.ReadByte()
		if err != nil {
			return nil, err
		}
		if next != '[' && next != 'O' {
			return nil, nil
		}
		return h.readEscapeSequence()
	case keyCtrlC, keyCtrlD, 'q', 'Q':
		return nil, ErrQuit
	case ' ', '\r', '\n', 'l', 'n':
		return intent(domain.IntentRight), nil
	case keyBackspace, keyDelete, 'h', 'p':
		return intent(domain.IntentLeft), nil
	case 'k':
		return intent(domain.IntentUp), nil
	case 'j':
		return intent(domain.IntentDown), nil
	case 'g':
		cmd := domain.GoTo(domain.Ptr(0), domain.Ptr(0))
		return &cmd, nil
	case 'G':
		cmd := domain.GoTo(domain.Ptr(math.MaxInt32), domain.Ptr(0))
		return &cmd, nil
	}
	return nil, nil
}

func (h *KeyHandler) readEscapeSequence() (*domain.Command, error) {
	final, err := h.Reader.ReadByte()
	if err != nil {
		return nil, err
	}
	switch final {
	case 'A':
		return intent(domain.IntentUp), nil
	case 'B':
		return intent(domain.IntentDown), nil
	case 'C':
		return intent(domain.IntentRight), nil
	case 'D':
		return intent(domain.IntentLeft), nil
	case '5', '6':
		// Page Up / Page Down: ESC [ 5 ~ and ESC [ 6 ~
		if tilde, err := h.Reader.ReadByte(); err != nil || tilde != '~' {
			return nil, err
		}
		if final == '5' {
			return intent(domain.IntentLeft), nil
		}
		return intent(domain.IntentRight), nil
	}
	return nil, nil
}

func intent(i domain.Intent) *domain.Command {
	return &domain.Command{Intent: i}
}

func (h *KeyHandler) Input(ctx context.Context) (domain.Command, error) {
	h.initPump()
	select {
	case <-ctx.Done():
		return domain.Command{}, ctx.Err()
	case res, ok := <-h.keys:
		if !ok {
			return domain.Command{}, io.EOF
		}
		return res.cmd, res.err
	}
}

// Output redraws the whole screen.
func (h *KeyHandler) Output(ctx context.Context, v View) error {
	var b strings.Builder
	if h.Raw() {
		b.WriteString(clearScreen)
	}

	writeView(&b, v, h.Renderer, h.Status)
	_, err := io.WriteString(h.Writer, h.newlines(b.String()))
	return err
}

func (h *KeyHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := io.WriteString(h.Writer, h.newlines(fmt.Sprintf("\n[System] %s\n", msg)))
	return err
}

// newlines converts LF to CRLF in raw mode, where the terminal no longer does it.
func (h *KeyHandler) newlines(s string) string {
	if !h.Raw() {
		return s
	}
	return strings.ReplaceAll(s, "\n", "\r\n")
}

package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
)

// TextHandler implements the line-based interface: one command per line.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Status   StatusRenderer

	inputChan chan inputLine
	startOnce sync.Once
}

type inputLine struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerStatus configures the status line renderer.
func WithTextHandlerStatus(status StatusRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Status = status
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Status: DefaultStatus,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputLine)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour ctx.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputLine{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputLine{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Output prints the slide, its visible fragments and a status line.
func (h *TextHandler) Output(ctx context.Context, v View) error {
	writeView(h.Writer, v, h.Renderer, h.Status)
	return nil
}

func writeView(w io.Writer, v View, renderer ContentRenderer, status StatusRenderer) {
	fmt.Fprintln(w)
	if v.Slide == nil {
		fmt.Fprintln(w, "(empty deck)")
		return
	}

	body := v.Slide.Content
	if strings.TrimSpace(body) == "" {
		body = v.Slide.Title
	}
	if renderer != nil {
		if rendered, err := renderer(body); err == nil {
			body = rendered
		}
	}
	fmt.Fprintln(w, strings.TrimSpace(body))

	for _, frag := range v.VisibleFragments() {
		fmt.Fprintf(w, "  • %s\n", frag)
	}
	if hidden := len(v.Frame.Fragments) - v.Frame.VisibleFragments(); hidden > 0 {
		fmt.Fprintf(w, "  (%d more)\n", hidden)
	}

	if status != nil {
		fmt.Fprintln(w, status(v))
	}
}

// Input prompts until a line parses into a command.
func (h *TextHandler) Input(ctx context.Context) (domain.Command, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return domain.Command{}, ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return domain.Command{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return domain.Command{}, io.EOF
			}
			if res.err != nil {
				return domain.Command{}, res.err
			}

			clean, err := SanitizeCommand(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			cmd, err := ParseCommand(clean)
			if err == ErrQuit {
				return domain.Command{}, ErrQuit
			}
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return cmd, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return nil
}

// DefaultStatus renders "[row/total] location arrows" without styling.
func DefaultStatus(v View) string {
	return fmt.Sprintf("[%d/%d] %s %s", v.Frame.Position.Row+1, v.Total, v.Frame.Location, Arrows(v.Frame.Routes))
}

// Arrows lists the available routes as arrow glyphs.
func Arrows(r domain.Routes) string {
	var b strings.Builder
	for _, a := range []struct {
		ok    bool
		glyph string
	}{{r.Left, "←"}, {r.Up, "↑"}, {r.Down, "↓"}, {r.Right, "→"}} {
		if a.ok {
			b.WriteString(a.glyph)
		}
	}
	return b.String()
}

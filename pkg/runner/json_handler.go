package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/lectern/pkg/domain"
)

// Message types emitted by JSONHandler.
const (
	MessageFrame  = "frame"
	MessageSystem = "system"
)

// Message is one NDJSON line written by JSONHandler.
type Message struct {
	Type    string `json:"type"`
	View    *View  `json:"view,omitempty"`
	Message string `json:"message,omitempty"`
}

// jsonCommand accepts domain.Command plus the "quit" intent.
type jsonCommand struct {
	Intent   string `json:"intent"`
	Row      *int   `json:"row,omitempty"`
	Column   *int   `json:"column,omitempty"`
	Location string `json:"location,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Each input line is a command object ({"intent":"goto","row":2}), a JSON
// string or plain text in the TextHandler grammar.
type JSONHandler struct {
	Reader *bufio.Reader
	Writer io.Writer

	mu      sync.Mutex
	encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) encode(msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(msg)
}

func (h *JSONHandler) Output(ctx context.Context, v View) error {
	return h.encode(Message{Type: MessageFrame, View: &v})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.encode(Message{Type: MessageSystem, Message: msg})
}

// Input reads the next non-blank line. Malformed lines return an error the
// runner reports back as a system message.
func (h *JSONHandler) Input(ctx context.Context) (domain.Command, error) {
	for {
		text, err := h.Reader.ReadString('\n')
		text = strings.TrimSpace(text)
		if text == "" {
			if err != nil {
				return domain.Command{}, err
			}
			continue
		}

		clean, serr := SanitizeCommand(text)
		if serr != nil {
			return domain.Command{}, serr
		}
		return parseJSONCommand(clean)
	}
}

func parseJSONCommand(text string) (domain.Command, error) {
	if strings.HasPrefix(text, "{") {
		var raw jsonCommand
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return domain.Command{}, fmt.Errorf("invalid command: %w", err)
		}
		switch strings.ToLower(raw.Intent) {
		case "quit", "exit":
			return domain.Command{}, ErrQuit
		}
		intent, err := domain.ParseIntent(raw.Intent)
		if err != nil {
			return domain.Command{}, err
		}
		return domain.Command{Intent: intent, Row: raw.Row, Column: raw.Column, Location: raw.Location}, nil
	}

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return ParseCommand(text)
}

package tui

import (
	"github.com/charmbracelet/glamour"

	"github.com/aretw0/lectern/pkg/runner"
)

// NewRenderer returns a runner.ContentRenderer that renders slide markdown with glamour.
// An empty or "default" theme detects the terminal background; any other value
// names a glamour standard style (dark, light, notty, dracula...).
func NewRenderer(theme string, width int) runner.ContentRenderer {
	opts := []glamour.TermRendererOption{}
	switch theme {
	case "", "default", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(theme))
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/runner"
)

const (
	accent = "#a78bfa"
	muted  = "#6b7280"
)

// NewStatus returns a runner.StatusRenderer that draws the slide counter, the
// location and the four route arrows. Unavailable routes are drawn as a dot.
func NewStatus(p termenv.Profile) runner.StatusRenderer {
	return func(v runner.View) string {
		counter := p.String(fmt.Sprintf("[%d/%d]", v.Frame.Position.Row+1, v.Total)).Bold()
		location := p.String(v.Frame.Location).Foreground(p.Color(muted))
		return fmt.Sprintf("%s %s  %s%s", counter, location, routes(p, v.Frame.Routes), progress(p, v.Frame))
	}
}

func routes(p termenv.Profile, r domain.Routes) string {
	var b strings.Builder
	for _, a := range []struct {
		ok    bool
		glyph string
	}{{r.Left, "←"}, {r.Up, "↑"}, {r.Down, "↓"}, {r.Right, "→"}} {
		if a.ok {
			b.WriteString(p.String(a.glyph).Foreground(p.Color(accent)).Bold().String())
		} else {
			b.WriteString(p.String("·").Faint().String())
		}
	}
	return b.String()
}

// progress renders the fragment reveal state, e.g. " ●●○".
func progress(p termenv.Profile, f domain.Frame) string {
	if len(f.Fragments) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(" ")
	for _, shown := range f.Fragments {
		if shown {
			b.WriteString(p.String("●").Foreground(p.Color(accent)).String())
		} else {
			b.WriteString(p.String("○").Faint().String())
		}
	}
	return b.String()
}

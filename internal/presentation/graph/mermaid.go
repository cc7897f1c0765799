package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedSlides []string
	Current       *domain.Position
}

// GenerateMermaid produces a Mermaid flowchart of the slide grid.
// Rows run left to right and nested slides hang below their row.
// Shapes:
// - First slide: ((Circle))
// - Slide with fragments: [[Subroutine]] annotated with the fragment count
// - Default: [Rectangle]
// Overlay styles (visited/current) are applied when overlay is not nil.
func GenerateMermaid(deck *domain.Deck, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	if deck == nil {
		return sb.String()
	}

	ids := make(map[string]string)
	for r, top := range deck.Slides {
		rowID := nodeID(domain.Position{Row: r}, false)
		ids[top.ID] = rowID
		sb.WriteString(node(rowID, top, r == 0))
		if r > 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(domain.Position{Row: r - 1}, false), rowID))
		}

		if len(top.Nested) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    subgraph %s_nested[\" \"]\n", rowID))
		sb.WriteString("    direction TB\n")
		for c, nested := range top.Nested {
			id := nodeID(domain.Position{Row: r, Column: c}, true)
			ids[nested.ID] = id
			sb.WriteString("    " + node(id, nested, false))
			if c > 0 {
				sb.WriteString(fmt.Sprintf("        %s --> %s\n", nodeID(domain.Position{Row: r, Column: c - 1}, true), id))
			}
		}
		sb.WriteString("    end\n")
		sb.WriteString(fmt.Sprintf("    %s -.- %s\n", rowID, nodeID(domain.Position{Row: r}, true)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, slideID := range overlay.VisitedSlides {
			id, ok := ids[slideID]
			if ok && !seen[id] {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
			}
		}

		if overlay.Current != nil {
			pos := *overlay.Current
			nested := deck.ColumnCount(pos.Row) > 0
			if _, ok := deck.SlideAt(pos); ok {
				sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(pos, nested)))
			}
		}
	}

	return sb.String()
}

// nodeID derives a Mermaid-safe identifier from the grid position.
// Slide IDs are only used as labels since words like "end" are reserved.
func nodeID(pos domain.Position, nested bool) string {
	if nested {
		return fmt.Sprintf("r%dc%d", pos.Row, pos.Column)
	}
	return fmt.Sprintf("r%d", pos.Row)
}

func node(id string, s domain.Slide, first bool) string {
	label := s.ID
	if s.Title != "" && s.Title != s.ID {
		label = fmt.Sprintf("%s <br/> %s", s.ID, s.Title)
	}
	label = strings.ReplaceAll(label, "\"", "'")

	opener, closer := "[", "]"
	switch {
	case first:
		opener, closer = "((", "))"
	case len(s.Fragments) > 0:
		opener, closer = "[[", "]]"
		label = fmt.Sprintf("%s <br/> ✚ %d", label, len(s.Fragments))
	}
	return fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer)
}

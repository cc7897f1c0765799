package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lectern/internal/presentation/graph"
	"github.com/aretw0/lectern/pkg/domain"
)

func testDeck() *domain.Deck {
	return &domain.Deck{Slides: []domain.Slide{
		{ID: "title", Title: "Welcome"},
		{ID: "points", Fragments: []domain.FragmentHandle{"a", "b", "c"}},
		{ID: "detail", Nested: []domain.Slide{{ID: "detail-a"}, {ID: "detail-b", Title: `Say "hi"`}}},
		{ID: "end"},
	}}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		deck     *domain.Deck
		contains []string
		excludes []string
	}{
		{
			name: "Shapes",
			deck: testDeck(),
			contains: []string{
				`r0(("title <br/> Welcome"))`,
				`r1[["points <br/> ✚ 3"]]`,
				`r3["end"]`,
			},
		},
		{
			name: "Row Chain",
			deck: testDeck(),
			contains: []string{
				"r0 --> r1",
				"r1 --> r2",
				"r2 --> r3",
			},
		},
		{
			name: "Nested Column",
			deck: testDeck(),
			contains: []string{
				"subgraph r2_nested",
				"direction TB",
				`r2c0["detail-a"]`,
				"r2c0 --> r2c1",
				"r2 -.- r2c0",
			},
		},
		{
			name:     "Label Escaping",
			deck:     testDeck(),
			contains: []string{`Say 'hi'`},
			excludes: []string{`Say "hi"`},
		},
		{
			name:     "Nil Deck",
			deck:     nil,
			contains: []string{"graph LR"},
			excludes: []string{"-->"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.deck, nil)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name:     "No Overlay",
			overlay:  nil,
			excludes: []string{"classDef"},
		},
		{
			name: "Current Nested Slide",
			overlay: &graph.GraphOverlay{
				Current: &domain.Position{Row: 2, Column: 1},
			},
			contains: []string{"classDef current", "class r2c1 current;"},
		},
		{
			name: "Current Top Level Slide",
			overlay: &graph.GraphOverlay{
				Current: &domain.Position{Row: 1},
			},
			contains: []string{"class r1 current;"},
		},
		{
			name: "Visited Deduplicated",
			overlay: &graph.GraphOverlay{
				VisitedSlides: []string{"title", "title", "detail-a", "ghost"},
			},
			contains: []string{"class r0 visited;", "class r2c0 visited;"},
		},
		{
			name: "Out Of Range Current",
			overlay: &graph.GraphOverlay{
				Current: &domain.Position{Row: 9},
			},
			excludes: []string{"current;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(testDeck(), tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
			if strings.Count(got, "class r0 visited;") > 1 {
				t.Errorf("visited class applied twice:\n%v", got)
			}
		})
	}
}

// Command gen-deck writes the sample deck used by the docs and smoke tests.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
)

type page struct {
	id      string
	content string
}

var pages = []page{
	{"01-welcome.md", `---
id: welcome
title: Welcome
---
# Lectern

Slides on a grid. Use the arrow keys.`},
	{"02-navigation/index.md", `---
id: navigation
title: Navigation
---
# Navigation

Left and right move between rows. Up and down move inside a row.`},
	{"02-navigation/01-fragments.md", `---
id: fragments
title: Fragments
fragments:
  - reveal
  - one
  - at a time
---
# Fragments

Right reveals the next fragment before leaving the slide.`},
	{"02-navigation/02-locations.md", `---
id: locations
title: Locations
---
# Locations

Every position has an address: /1/1 is row 1, column 1.`},
	{"03-surfaces.md", `---
id: surfaces
title: Surfaces
fragments:
  - id: cli
    text: Terminal
  - id: http
    text: HTTP API
  - id: mcp
    text: MCP tools
---
# Surfaces

The same session can be driven from many places.`},
	{"04-end.md", `---
id: end
---
# Thanks!`},
}

const deckConfig = `title: Lectern Tour
initial_position:
  row: 0
  column: 0
theme: default
`

func main() {
	targetDir := "examples/tour"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		fail(err)
	}
	fmt.Printf("Generating sample deck in: %s\n", targetDir)

	// No versioning: this only writes files.
	repo, err := loam.Init(targetDir, loam.WithVersioning(false))
	if err != nil {
		fail(err)
	}

	ctx := context.Background()
	for _, p := range pages {
		if err := repo.Save(ctx, core.Document{ID: p.id, Content: p.content}); err != nil {
			fail(fmt.Errorf("save %s: %w", p.id, err))
		}
	}
	// The config is not a slide, so it bypasses the repository.
	if err := os.WriteFile(filepath.Join(targetDir, "lectern.yaml"), []byte(deckConfig), 0644); err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %d slides.\n", len(pages))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

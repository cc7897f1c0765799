/*
Package lectern is a navigation engine for slide decks laid out on a two-dimensional grid.

Top-level slides form the rows of a deck and each of them may hold nested slides, its columns.
Slides may declare fragments that are revealed one at a time before the presenter moves on.
The engine tracks where a presenter is, which routes are open, which fragments are visible and
mirrors the position into a compact location string ("/", "/2", "/2/1") that can be shared,
bookmarked or fed back from an address bar.

# Architecture

The navigation core (pkg/navigation, pkg/fragment, pkg/location, pkg/render) is pure and never
fails: out-of-range requests are clamped. A session.Controller drives it for one presenter and a
session.Manager hosts many of them, persisting only the location of each session to a
ports.StateStore (memory, file, Redis or SQLite). Surfaces sit on top of the Manager: the
terminal runner (pkg/runner), the HTTP API (pkg/adapters/http) and the MCP server
(pkg/adapters/mcp).

# Usage

Decks are directories of Markdown files read with Loam. Each top-level file is a row, each
directory a row whose files are its nested slides.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/lectern"
		"github.com/aretw0/lectern/pkg/domain"
	)

	func main() {
		eng, err := lectern.New("./talk")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		sessions := eng.Sessions()

		frame, err := sessions.Enter(ctx, "stage", "")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(frame.Location) // "/"

		frame, _ = sessions.Dispatch(ctx, "stage", domain.Command{Intent: domain.IntentRight})
		fmt.Println(frame.Location)
	}

# Configuration

An optional lectern.yaml next to the slides sets the deck title and the initial position.
Server settings are read from LECTERN_* environment variables (see internal/config).
*/
package lectern

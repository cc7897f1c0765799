package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/presentation/graph"
	"github.com/aretw0/lectern/internal/validator"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/location"
)

// Graph prints the Mermaid overview of the deck. When sessionID is set the
// stored location of that session is highlighted.
func Graph(ctx context.Context, deckPath, sessionID string, opts SessionOptions) error {
	eng, err := lectern.New(deckPath)
	if err != nil {
		return fmt.Errorf("error initializing lectern: %w", err)
	}

	var overlay *graph.GraphOverlay
	if sessionID != "" {
		backend, err := openSessions(ctx, opts)
		if err != nil {
			return err
		}
		defer backend.Close()

		record, err := backend.Store.Load(ctx, sessionID)
		if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}
		if record != nil {
			pos := location.Decode(record.Location)
			overlay = &graph.GraphOverlay{Current: &pos}
		}
	}

	fmt.Fprint(opts.Out, graph.GenerateMermaid(eng.Deck(), overlay))
	return nil
}

// Validate checks the deck in dir and prints warnings. It fails on errors.
func Validate(ctx context.Context, dir string, out io.Writer) error {
	report, err := validator.ValidateDir(ctx, dir)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if err := report.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Deck is valid! ✅")
	return nil
}

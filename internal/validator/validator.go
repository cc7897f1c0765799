package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/lectern/internal/config"
	"github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/domain"
)

// Report lists the problems found in a deck. Warnings do not fail validation.
type Report struct {
	Errors   []string
	Warnings []string
}

// Err folds the errors of the report into a single error, or nil.
func (r Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// ValidateDeck checks slide IDs, fragment handles and the initial position.
func ValidateDeck(deck *domain.Deck, initial domain.Position) Report {
	var report Report
	if deck.RowCount() == 0 {
		report.Errors = append(report.Errors, domain.ErrEmptyDeck.Error())
		return report
	}

	seen := make(map[string]string)
	check := func(s domain.Slide, pos domain.Position, nested bool) {
		where := fmt.Sprintf("slide at row %d", pos.Row)
		if nested {
			where = fmt.Sprintf("slide at row %d, column %d", pos.Row, pos.Column)
		}
		if s.ID == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("%s has no id", where))
		} else if prev, ok := seen[s.ID]; ok {
			report.Errors = append(report.Errors, fmt.Sprintf("duplicate id '%s' (%s and %s)", s.ID, prev, where))
		} else {
			seen[s.ID] = where
		}

		handles := make(map[domain.FragmentHandle]bool)
		for i, h := range s.Fragments {
			if strings.TrimSpace(string(h)) == "" {
				report.Errors = append(report.Errors, fmt.Sprintf("%s: fragment %d has an empty handle", where, i))
				continue
			}
			if handles[h] {
				report.Warnings = append(report.Warnings, fmt.Sprintf("%s: fragment '%s' is declared twice", where, h))
			}
			handles[h] = true
		}
	}

	for r, top := range deck.Slides {
		check(top, domain.Position{Row: r}, false)
		if len(top.Nested) > 0 && len(top.Fragments) > 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("slide '%s' has nested slides; its %d fragments are never revealed", top.ID, len(top.Fragments)))
		}
		for c, nested := range top.Nested {
			check(nested, domain.Position{Row: r, Column: c}, true)
			if len(nested.Nested) > 0 {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("slide '%s' nests deeper than two levels; inner slides are ignored", nested.ID))
			}
		}
	}

	if initial.Row >= deck.RowCount() || (deck.ColumnCount(initial.Row) > 0 && initial.Column >= deck.ColumnCount(initial.Row)) {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("initial_position %s is outside the deck and will be clamped", initial))
	}
	return report
}

// ValidateDir loads the deck and its lectern.yaml from dir and validates them.
func ValidateDir(ctx context.Context, dir string) (Report, error) {
	cfg, err := config.LoadDeck(dir)
	if err != nil {
		return Report{}, err
	}
	loader, err := loam.Open(dir)
	if err != nil {
		return Report{}, err
	}
	deck, err := loader.Load(ctx)
	if err != nil {
		return Report{Errors: []string{err.Error()}}, nil
	}
	return ValidateDeck(deck, cfg.InitialPosition), nil
}

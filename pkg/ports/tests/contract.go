package tests

import (
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// SlideSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.SlideSource.
// want describes the deck the source is expected to expose.
func SlideSourceContractTest(t *testing.T, source ports.SlideSource, want *domain.Deck) {
	t.Helper()

	t.Run("RowCount", func(t *testing.T) {
		if got := source.RowCount(); got != want.RowCount() {
			t.Fatalf("expected %d rows, got %d", want.RowCount(), got)
		}
	})

	t.Run("ColumnCount", func(t *testing.T) {
		for row := 0; row < want.RowCount(); row++ {
			if got := source.ColumnCount(row); got != want.ColumnCount(row) {
				t.Errorf("row %d: expected %d columns, got %d", row, want.ColumnCount(row), got)
			}
		}
		if got := source.ColumnCount(want.RowCount() + 10); got != 0 {
			t.Errorf("out-of-range row should have 0 columns, got %d", got)
		}
	})

	t.Run("Fragments", func(t *testing.T) {
		for row := 0; row < want.RowCount(); row++ {
			cols := want.ColumnCount(row)
			if cols == 0 {
				cols = 1
			}
			for col := 0; col < cols; col++ {
				pos := domain.Position{Row: row, Column: col}
				expected := want.Fragments(pos)
				got := source.Fragments(pos)
				if len(got) != len(expected) {
					t.Errorf("%s: expected %d fragments, got %d", pos, len(expected), len(got))
					continue
				}
				for i := range got {
					if got[i] != expected[i] {
						t.Errorf("%s: fragment %d mismatch. got %q, want %q", pos, i, got[i], expected[i])
					}
				}
			}
		}
	})
}

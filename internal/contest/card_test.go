// internal/contest/card_test.go
package contest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestGenerateCardProperty checks the structural invariants of generated
// cards: every row keeps exactly five populated cells, every populated
// cell sits inside its column band, columns are sorted top to bottom, and
// no value repeats anywhere on the card.
func TestGenerateCardProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		card := GenerateCard(NewSource(seed))

		seen := make(map[int]bool)
		for row := 0; row < CardRows; row++ {
			vals := card.RowValues(row)
			if len(vals) != CellsPerRow {
				t.Fatalf("row %d has %d populated cells, want %d", row, len(vals), CellsPerRow)
			}
			for col := 0; col < CardCols; col++ {
				v := card[row][col]
				if v == 0 {
					continue
				}
				lo, hi := columnBand(col)
				if v < lo || v > hi {
					t.Fatalf("cell (%d,%d)=%d outside band [%d..%d]", row, col, v, lo, hi)
				}
				if seen[v] {
					t.Fatalf("value %d appears twice on the card", v)
				}
				seen[v] = true
			}
		}

		// Column values must ascend top to bottom over populated cells.
		for col := 0; col < CardCols; col++ {
			prev := 0
			for row := 0; row < CardRows; row++ {
				v := card[row][col]
				if v == 0 {
					continue
				}
				if v <= prev {
					t.Fatalf("column %d not sorted: %d after %d", col, v, prev)
				}
				prev = v
			}
		}
	})
}

func TestColumnBands(t *testing.T) {
	lo, hi := columnBand(0)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 9, hi)

	lo, hi = columnBand(4)
	assert.Equal(t, 40, lo)
	assert.Equal(t, 49, hi)

	lo, hi = columnBand(8)
	assert.Equal(t, 81, lo)
	assert.Equal(t, 90, hi)
}

func TestCardMarkedCountAndLines(t *testing.T) {
	card := GenerateCard(NewSource(7))

	marked, total := card.MarkedCount(nil)
	assert.Equal(t, 0, marked)
	assert.Equal(t, CardRows*CellsPerRow, total)
	assert.False(t, card.HasLine(nil))

	// Mark the first row completely.
	drawn := make(map[int]bool)
	for _, v := range card.RowValues(0) {
		drawn[v] = true
	}
	marked, _ = card.MarkedCount(drawn)
	assert.Equal(t, CellsPerRow, marked)
	assert.True(t, card.HasLine(drawn))
	assert.Equal(t, 1, card.CompletedLines(drawn))

	analysis := card.LineAnalysis(drawn)
	require.Len(t, analysis, CardRows)
	assert.Equal(t, 1, analysis[0].Row)
	assert.Equal(t, CellsPerRow, analysis[0].Marked)
	assert.Empty(t, analysis[0].Remaining)
	assert.Len(t, analysis[1].Remaining, CellsPerRow-analysis[1].Marked)
}

func TestCardUnmarked(t *testing.T) {
	card := GenerateCard(NewSource(3))
	vals := card.Values()
	require.Len(t, vals, CardRows*CellsPerRow)

	drawn := map[int]bool{vals[0]: true, vals[3]: true}
	unmarked := card.Unmarked(drawn)
	assert.Len(t, unmarked, len(vals)-2)
	assert.NotContains(t, unmarked, vals[0])
	assert.NotContains(t, unmarked, vals[3])
}

func TestCardRender(t *testing.T) {
	card := GenerateCard(NewSource(11))
	vals := card.RowValues(0)
	drawn := map[int]bool{vals[0]: true}

	out := card.Render(drawn)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, CardRows)
	assert.Contains(t, out, "[x")
	assert.Equal(t, 1, strings.Count(out, "[x"))
}

// internal/contest/card.go
package contest

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// CardRows and CardCols define the 3x9 bingo card grid.
	CardRows = 3
	CardCols = 9
	// CellsPerRow is how many populated cells each row keeps after blanking.
	CellsPerRow = 5
)

// Card is a 3x9 bingo card. A zero cell is blank; non-zero cells hold a
// number from the owning column's band. Cards are immutable after
// generation and owned by exactly one participant.
type Card [CardRows][CardCols]int

// columnBand returns the inclusive numeric band for a column:
// {1..9} for column 0, {81..90} for column 8, {10c..10c+9} otherwise.
func columnBand(col int) (lo, hi int) {
	switch col {
	case 0:
		return 1, 9
	case CardCols - 1:
		return 81, 90
	default:
		return col * 10, col*10 + 9
	}
}

// sampleDistinct draws k distinct ints from [lo..hi] without replacement.
func sampleDistinct(src Source, lo, hi, k int) []int {
	band := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		band = append(band, v)
	}
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		idx := src.Intn(len(band))
		out = append(out, band[idx])
		band[idx] = band[len(band)-1]
		band = band[:len(band)-1]
	}
	return out
}

// GenerateCard synthesizes a card: per column, three distinct values from
// the column band sorted top to bottom; then each row independently blanks
// four of its nine positions, leaving five populated cells. Blanking is
// positional and does not resample numbers.
func GenerateCard(src Source) Card {
	var card Card
	for col := 0; col < CardCols; col++ {
		lo, hi := columnBand(col)
		picked := sampleDistinct(src, lo, hi, CardRows)
		sort.Ints(picked)
		for row := 0; row < CardRows; row++ {
			card[row][col] = picked[row]
		}
	}
	for row := 0; row < CardRows; row++ {
		for _, pos := range sampleDistinct(src, 0, CardCols-1, CardCols-CellsPerRow) {
			card[row][pos] = 0
		}
	}
	return card
}

// Values returns every populated cell value on the card.
func (c Card) Values() []int {
	vals := make([]int, 0, CardRows*CellsPerRow)
	for row := 0; row < CardRows; row++ {
		for col := 0; col < CardCols; col++ {
			if c[row][col] != 0 {
				vals = append(vals, c[row][col])
			}
		}
	}
	return vals
}

// RowValues returns the populated values of one row.
func (c Card) RowValues(row int) []int {
	vals := make([]int, 0, CellsPerRow)
	for col := 0; col < CardCols; col++ {
		if c[row][col] != 0 {
			vals = append(vals, c[row][col])
		}
	}
	return vals
}

// MarkedCount reports how many card values appear in drawn and the total
// number of populated cells.
func (c Card) MarkedCount(drawn map[int]bool) (marked, total int) {
	for _, v := range c.Values() {
		total++
		if drawn[v] {
			marked++
		}
	}
	return marked, total
}

// HasLine reports whether at least one row is fully marked.
func (c Card) HasLine(drawn map[int]bool) bool {
	return c.CompletedLines(drawn) > 0
}

// CompletedLines counts fully marked rows.
func (c Card) CompletedLines(drawn map[int]bool) int {
	lines := 0
	for row := 0; row < CardRows; row++ {
		vals := c.RowValues(row)
		if len(vals) == 0 {
			continue
		}
		complete := true
		for _, v := range vals {
			if !drawn[v] {
				complete = false
				break
			}
		}
		if complete {
			lines++
		}
	}
	return lines
}

// Unmarked returns card values not yet in drawn, in grid order. These are
// the candidate numbers for a cheat attempt.
func (c Card) Unmarked(drawn map[int]bool) []int {
	var out []int
	for _, v := range c.Values() {
		if !drawn[v] {
			out = append(out, v)
		}
	}
	return out
}

// LineStatus describes the progress of one card row.
type LineStatus struct {
	Row       int
	Marked    int
	Total     int
	Remaining []int
}

// LineAnalysis returns per-row progress for the card owner's view.
func (c Card) LineAnalysis(drawn map[int]bool) []LineStatus {
	out := make([]LineStatus, 0, CardRows)
	for row := 0; row < CardRows; row++ {
		vals := c.RowValues(row)
		if len(vals) == 0 {
			continue
		}
		st := LineStatus{Row: row + 1, Total: len(vals)}
		for _, v := range vals {
			if drawn[v] {
				st.Marked++
			} else {
				st.Remaining = append(st.Remaining, v)
			}
		}
		out = append(out, st)
	}
	return out
}

// Render formats the card as text, five cells per row. Values present in
// drawn are prefixed with a check mark.
func (c Card) Render(drawn map[int]bool) string {
	var b strings.Builder
	for row := 0; row < CardRows; row++ {
		cells := make([]string, 0, CellsPerRow)
		for _, v := range c.RowValues(row) {
			if drawn[v] {
				cells = append(cells, fmt.Sprintf("[x%2d]", v))
			} else {
				cells = append(cells, fmt.Sprintf("[ %2d]", v))
			}
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	return b.String()
}

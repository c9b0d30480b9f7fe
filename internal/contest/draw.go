// internal/contest/draw.go
package contest

// PoolSize is the number of balls in a bingo draw pool (1..90).
const PoolSize = 90

// DrawPool is the set of bingo numbers not yet legitimately drawn. It
// shrinks by exactly one per draw and a drawn number is never reused.
type DrawPool struct {
	remaining []int
}

// NewDrawPool returns a full pool of 1..90.
func NewDrawPool() *DrawPool {
	p := &DrawPool{remaining: make([]int, 0, PoolSize)}
	for n := 1; n <= PoolSize; n++ {
		p.remaining = append(p.remaining, n)
	}
	return p
}

// Draw picks uniformly from the remaining numbers and removes it.
// Returns ErrPoolExhausted once every number has been drawn.
func (p *DrawPool) Draw(src Source) (int, error) {
	if len(p.remaining) == 0 {
		return 0, ErrPoolExhausted
	}
	idx := src.Intn(len(p.remaining))
	n := p.remaining[idx]
	p.remaining[idx] = p.remaining[len(p.remaining)-1]
	p.remaining = p.remaining[:len(p.remaining)-1]
	return n, nil
}

// Remaining reports how many numbers are still in the pool.
func (p *DrawPool) Remaining() int {
	return len(p.remaining)
}

// TicketEntry is one (ticket, owner) pair in a flat lottery draw pool.
// Each ticket is an independent entry, so a participant's win probability
// is proportional to their ticket count.
type TicketEntry struct {
	Ticket int   `json:"ticket"`
	Owner  int64 `json:"owner"`
}

// PlaceWin records one prize place assigned during a lottery draw.
type PlaceWin struct {
	Place  int   `json:"place"`
	Ticket int   `json:"ticket"`
	Owner  int64 `json:"owner"`
	Prize  int   `json:"prize,omitempty"`
}

// DrawPlaces assigns up to places prize places over the flat entry pool.
// After each place the winner's remaining tickets are removed, so no
// participant wins twice in one draw.
func DrawPlaces(src Source, entries []TicketEntry, places int) []PlaceWin {
	pool := make([]TicketEntry, len(entries))
	copy(pool, entries)

	wins := make([]PlaceWin, 0, places)
	for place := 1; place <= places; place++ {
		if len(pool) == 0 {
			break
		}
		e := pool[src.Intn(len(pool))]
		wins = append(wins, PlaceWin{Place: place, Ticket: e.Ticket, Owner: e.Owner})

		next := pool[:0]
		for _, t := range pool {
			if t.Owner != e.Owner {
				next = append(next, t)
			}
		}
		pool = next
	}
	return wins
}

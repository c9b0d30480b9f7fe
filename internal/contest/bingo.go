// internal/contest/bingo.go
package contest

import (
	"time"

	"github.com/google/uuid"
)

// GameState is the lifecycle state of a contest session.
type GameState int

const (
	// StateActive means the session is in its resolution phase.
	StateActive GameState = iota + 1
	// StateResolved means the session finished with a result.
	StateResolved
	// StateAborted means the session was stopped before resolving.
	StateAborted
)

// cheatDetectionChance is the fixed probability that a cheat attempt is
// caught and the cheater excluded.
const cheatDetectionChance = 0.30

// BingoGame is one active bingo session. All methods assume the caller
// holds the owning chat's lock; the registry serializes per-chat access.
type BingoGame struct {
	ID     uuid.UUID
	ChatID int64
	HostID int64

	// Cards maps participant id to their card; Order preserves join order.
	Cards map[int64]Card
	Order []int64

	State GameState

	Pool  *DrawPool
	Drawn []int // announcement order, no duplicates

	// Excluded holds participants barred for cheating. It only grows.
	Excluded map[int64]bool

	CreatedAt time.Time

	drawnSet map[int]bool
	src      Source
}

// NewBingoGame deals a fresh card to every participant and starts the
// session in the active state.
func NewBingoGame(chatID, hostID int64, participants []int64, src Source, now time.Time) *BingoGame {
	g := &BingoGame{
		ID:        uuid.New(),
		ChatID:    chatID,
		HostID:    hostID,
		Cards:     make(map[int64]Card, len(participants)),
		Order:     append([]int64(nil), participants...),
		State:     StateActive,
		Pool:      NewDrawPool(),
		Excluded:  make(map[int64]bool),
		CreatedAt: now,
		drawnSet:  make(map[int]bool),
		src:       src,
	}
	for _, id := range participants {
		g.Cards[id] = GenerateCard(src)
	}
	return g
}

// markDrawn records a number as drawn for marking purposes. A number a
// cheater already fabricated is not appended twice when it later comes out
// of the pool legitimately.
func (g *BingoGame) markDrawn(n int) {
	if g.drawnSet[n] {
		return
	}
	g.drawnSet[n] = true
	g.Drawn = append(g.Drawn, n)
}

// GameStart announces a fresh session: participants in join order with
// their starting cards already rendered.
type GameStart struct {
	Order []int64
	Cards map[int64]string
}

func (g *BingoGame) startView() *GameStart {
	v := &GameStart{
		Order: append([]int64(nil), g.Order...),
		Cards: make(map[int64]string, len(g.Cards)),
	}
	for id, card := range g.Cards {
		v.Cards[id] = card.Render(nil)
	}
	return v
}

// DrawResult reports one draw and, when a line completed, the final
// placement of the session.
type DrawResult struct {
	Number     int
	DrawnSoFar int
	Winners    []int64
	Places     map[int][]int64
	Marked     map[int64]int
	Finished   bool
}

// DrawNumber draws the next number from the pool (host only). When the
// draw completes at least one non-excluded line, every simultaneous line
// holder shares 1st place, 2nd and 3rd go by marked count, and the session
// resolves.
func (g *BingoGame) DrawNumber(userID int64) (*DrawResult, error) {
	if g.State != StateActive {
		return nil, ErrGameOver
	}
	if userID != g.HostID {
		return nil, ErrNotHost
	}
	n, err := g.Pool.Draw(g.src)
	if err != nil {
		return nil, err
	}
	g.markDrawn(n)

	res := &DrawResult{Number: n, DrawnSoFar: len(g.Drawn)}
	winners := LineWinners(g.Cards, g.drawnSet, g.Excluded)
	if len(winners) > 0 {
		res.Winners = winners
		res.Marked = g.markedCounts()
		res.Places = RunnerUpPlaces(res.Marked, winners, g.Excluded)
		res.Finished = true
		g.State = StateResolved
	}
	return res, nil
}

// CheatResult reports the outcome of a cheat attempt.
type CheatResult struct {
	Number   int
	Detected bool

	// Set when detection shrinks the field to at most one player.
	DefaultWinner *int64
	AllExcluded   bool

	// Set when the fabricated mark completed the cheater's line.
	WonByCheat bool
	Winners    []int64
	Places     map[int][]int64
	Marked     map[int64]int

	Finished bool
}

// AttemptCheat lets a participant fabricate one undrawn number from their
// own card. With probability 0.30 the attempt is detected and the cheater
// is permanently excluded; otherwise the number counts as drawn for
// marking while the official pool is left untouched.
func (g *BingoGame) AttemptCheat(userID int64) (*CheatResult, error) {
	if g.State != StateActive {
		return nil, ErrGameOver
	}
	card, ok := g.Cards[userID]
	if !ok {
		return nil, ErrNotParticipant
	}
	if g.Excluded[userID] {
		return nil, ErrExcluded
	}
	candidates := card.Unmarked(g.drawnSet)
	if len(candidates) == 0 {
		return nil, ErrNoEligibleNumbers
	}

	res := &CheatResult{Number: candidates[g.src.Intn(len(candidates))]}

	if g.src.Float64() < cheatDetectionChance {
		res.Detected = true
		g.Excluded[userID] = true

		var remaining []int64
		for _, id := range g.Order {
			if !g.Excluded[id] {
				remaining = append(remaining, id)
			}
		}
		if len(remaining) <= 1 {
			if len(remaining) == 1 {
				res.DefaultWinner = &remaining[0]
			} else {
				res.AllExcluded = true
			}
			res.Finished = true
			g.State = StateResolved
		}
		return res, nil
	}

	// Undetected: the number is marked as drawn but was never removed from
	// the pool, since it was never legitimately drawn.
	g.markDrawn(res.Number)

	winners := LineWinners(g.Cards, g.drawnSet, g.Excluded)
	for _, w := range winners {
		if w == userID {
			res.WonByCheat = true
			res.Winners = winners
			res.Marked = g.markedCounts()
			res.Places = RunnerUpPlaces(res.Marked, winners, g.Excluded)
			res.Finished = true
			g.State = StateResolved
			break
		}
	}
	return res, nil
}

func (g *BingoGame) markedCounts() map[int64]int {
	out := make(map[int64]int, len(g.Cards))
	for id, card := range g.Cards {
		m, _ := card.MarkedCount(g.drawnSet)
		out[id] = m
	}
	return out
}

// CardView is a participant's private view of their card. Drawn is a
// copy, so the view stays coherent after the chat lock is released.
type CardView struct {
	Card   Card
	Drawn  map[int]bool
	Marked int
	Total  int
	Lines  []LineStatus
}

// CardFor returns the private card view for a participant.
func (g *BingoGame) CardFor(userID int64) (*CardView, error) {
	card, ok := g.Cards[userID]
	if !ok {
		return nil, ErrNotParticipant
	}
	if g.Excluded[userID] {
		return nil, ErrExcluded
	}
	drawn := make(map[int]bool, len(g.drawnSet))
	for n := range g.drawnSet {
		drawn[n] = true
	}
	marked, total := card.MarkedCount(g.drawnSet)
	return &CardView{
		Card:   card,
		Drawn:  drawn,
		Marked: marked,
		Total:  total,
		Lines:  card.LineAnalysis(g.drawnSet),
	}, nil
}

// StandingRow is one participant's line in the standings, ordered by
// descending marked count.
type StandingRow struct {
	UserID   int64
	Marked   int
	Total    int
	Lines    int
	Excluded bool
}

// Standings returns every participant sorted by marked count descending.
// Excluded players are listed with a flag and no line information.
func (g *BingoGame) Standings() []StandingRow {
	rows := make([]StandingRow, 0, len(g.Order))
	for _, id := range g.Order {
		card := g.Cards[id]
		marked, total := card.MarkedCount(g.drawnSet)
		row := StandingRow{UserID: id, Marked: marked, Total: total}
		if g.Excluded[id] {
			row.Excluded = true
		} else {
			row.Lines = card.CompletedLines(g.drawnSet)
		}
		rows = append(rows, row)
	}
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].Marked > rows[j-1].Marked; j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
	return rows
}

// DrawnNumbers returns the announced numbers in draw order.
func (g *BingoGame) DrawnNumbers() []int {
	return append([]int(nil), g.Drawn...)
}

// ExcludedPlayers returns the ids barred for cheating, in join order.
func (g *BingoGame) ExcludedPlayers() []int64 {
	var out []int64
	for _, id := range g.Order {
		if g.Excluded[id] {
			out = append(out, id)
		}
	}
	return out
}

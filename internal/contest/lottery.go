// internal/contest/lottery.go
package contest

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTicketPrice applies when roleplay pricing is enabled without
	// an explicit price.
	DefaultTicketPrice = 100
	// DefaultWinnerCount is the prize-place count for fresh chats.
	DefaultWinnerCount = 3
	// MaxWinnerCount bounds the configurable number of prize places.
	MaxWinnerCount = 10
	// MaxTicketPrice bounds the configurable roleplay ticket price.
	MaxTicketPrice = 10000
)

// Settings is the per-chat lottery configuration. It survives across
// lottery instances and is captured into each instance at creation.
type Settings struct {
	RPMode      bool `json:"rp_mode"`
	WinnerCount int  `json:"winner_count"`
	// TicketPrice is only meaningful while RPMode is enabled.
	TicketPrice int `json:"ticket_price,omitempty"`
}

// DefaultSettings returns the configuration a chat starts with.
func DefaultSettings() Settings {
	return Settings{WinnerCount: DefaultWinnerCount}
}

// Lottery is one chat-scoped lottery instance. Once Active turns false
// the instance is retained read-only as history. All methods assume the
// owning chat's lock is held.
type Lottery struct {
	ID      uuid.UUID `json:"id"`
	ChatID  int64     `json:"chat_id"`
	AdminID int64     `json:"admin_id"`
	Active  bool      `json:"active"`

	// Tickets maps participant id to their tickets in issuance order.
	Tickets   map[int64][]int `json:"tickets"`
	PrizePool int             `json:"prize_pool"`

	RPMode      bool `json:"rp_mode"`
	WinnerCount int  `json:"winner_count"`
	TicketPrice int  `json:"ticket_price,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	StoppedAt   *time.Time `json:"stopped_at,omitempty"`

	Winners []PlaceWin `json:"winners,omitempty"`
}

// NewLottery creates an active instance capturing the chat settings.
func NewLottery(chatID, adminID int64, cfg Settings, now time.Time) *Lottery {
	l := &Lottery{
		ID:          uuid.New(),
		ChatID:      chatID,
		AdminID:     adminID,
		Active:      true,
		Tickets:     make(map[int64][]int),
		RPMode:      cfg.RPMode,
		WinnerCount: cfg.WinnerCount,
		CreatedAt:   now,
	}
	if cfg.RPMode {
		l.TicketPrice = cfg.TicketPrice
		if l.TicketPrice == 0 {
			l.TicketPrice = DefaultTicketPrice
		}
	}
	return l
}

// LotterySummary is a plain-value snapshot of an instance for replies.
// Unlike the instance itself it is safe to read after the owning chat's
// lock is released.
type LotterySummary struct {
	AdminID      int64
	RPMode       bool
	WinnerCount  int
	TicketPrice  int
	PrizePool    int
	TotalTickets int
}

// Summary captures the instance state as a detached value.
func (l *Lottery) Summary() LotterySummary {
	return LotterySummary{
		AdminID:      l.AdminID,
		RPMode:       l.RPMode,
		WinnerCount:  l.WinnerCount,
		TicketPrice:  l.TicketPrice,
		PrizePool:    l.PrizePool,
		TotalTickets: l.TotalTickets(),
	}
}

// usedTickets collects every issued ticket number; the uniqueness check
// spans all participants, not just the issuee.
func (l *Lottery) usedTickets() map[int]bool {
	used := make(map[int]bool)
	for _, ts := range l.Tickets {
		for _, t := range ts {
			used[t] = true
		}
	}
	return used
}

// IssueTickets issues count collision-free tickets to target (admin
// only, 1..10 per batch). In roleplay mode the prize pool grows by
// count * ticket price.
func (l *Lottery) IssueTickets(src Source, adminID, target int64, count int) ([]int, error) {
	if adminID != l.AdminID {
		return nil, ErrNotAdmin
	}
	if count < 1 || count > MaxTicketsPerBatch {
		return nil, ErrInvalidCount
	}
	used := l.usedTickets()
	batch := make([]int, 0, count)
	for i := 0; i < count; i++ {
		t := IssueTicket(src, used)
		used[t] = true
		batch = append(batch, t)
	}
	l.Tickets[target] = append(l.Tickets[target], batch...)
	if l.RPMode {
		l.PrizePool += count * l.TicketPrice
	}
	return batch, nil
}

// TicketsFor returns the tickets held by one participant.
func (l *Lottery) TicketsFor(userID int64) []int {
	return append([]int(nil), l.Tickets[userID]...)
}

// TotalTickets counts every issued ticket.
func (l *Lottery) TotalTickets() int {
	n := 0
	for _, ts := range l.Tickets {
		n += len(ts)
	}
	return n
}

// ParticipantRow is one entrant in the participant listing.
type ParticipantRow struct {
	UserID  int64
	Tickets int
	Chance  float64
}

// Participants lists entrants holding at least one ticket, sorted by
// ticket count descending, with their win chance for place one.
func (l *Lottery) Participants() []ParticipantRow {
	total := l.TotalTickets()
	rows := make([]ParticipantRow, 0, len(l.Tickets))
	for id, ts := range l.Tickets {
		if len(ts) == 0 {
			continue
		}
		row := ParticipantRow{UserID: id, Tickets: len(ts)}
		if total > 0 {
			row.Chance = float64(len(ts)) / float64(total)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Tickets != rows[j].Tickets {
			return rows[i].Tickets > rows[j].Tickets
		}
		return rows[i].UserID < rows[j].UserID
	})
	return rows
}

// entries flattens every ticket into (ticket, owner) pairs in a stable
// order so draws are reproducible under a seeded source.
func (l *Lottery) entries() []TicketEntry {
	owners := make([]int64, 0, len(l.Tickets))
	for id := range l.Tickets {
		owners = append(owners, id)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })

	var out []TicketEntry
	for _, id := range owners {
		for _, t := range l.Tickets[id] {
			out = append(out, TicketEntry{Ticket: t, Owner: id})
		}
	}
	return out
}

// DrawOutcome is the result of resolving a lottery.
type DrawOutcome struct {
	Wins         []PlaceWin
	TotalTickets int
	PrizePool    int
	RPMode       bool
}

// ConductDraw resolves the lottery (admin only). The number of prize
// places is the configured winner count capped by the number of distinct
// entrants; each place is drawn over the flat ticket pool with the
// winner's remaining tickets removed before the next place. Prize amounts
// are attached only in roleplay mode. The instance deactivates.
func (l *Lottery) ConductDraw(src Source, adminID int64, now time.Time) (*DrawOutcome, error) {
	if adminID != l.AdminID {
		return nil, ErrNotAdmin
	}
	entries := l.entries()
	if len(entries) == 0 {
		return nil, ErrNoTickets
	}

	distinct := len(l.Participants())
	places := l.WinnerCount
	if distinct < places {
		places = distinct
	}

	wins := DrawPlaces(src, entries, places)
	if l.RPMode {
		prizes := PrizeAmounts(l.PrizePool, len(wins))
		for i := range wins {
			wins[i].Prize = prizes[i]
		}
	}

	l.Active = false
	t := now
	l.CompletedAt = &t
	l.Winners = wins

	return &DrawOutcome{
		Wins:         wins,
		TotalTickets: len(entries),
		PrizePool:    l.PrizePool,
		RPMode:       l.RPMode,
	}, nil
}

// StopStats summarizes a lottery stopped without a draw.
type StopStats struct {
	Participants int
	TotalTickets int
	PrizePool    int
	RPMode       bool
}

// Stop deactivates the lottery without drawing (admin only).
func (l *Lottery) Stop(adminID int64, now time.Time) (*StopStats, error) {
	if adminID != l.AdminID {
		return nil, ErrNotAdmin
	}
	l.Active = false
	t := now
	l.StoppedAt = &t
	return &StopStats{
		Participants: len(l.Participants()),
		TotalTickets: l.TotalTickets(),
		PrizePool:    l.PrizePool,
		RPMode:       l.RPMode,
	}, nil
}

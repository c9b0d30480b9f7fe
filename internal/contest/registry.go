// internal/contest/registry.go
package contest

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Snapshot is the durable view of one chat: its lottery instance (current
// and historical) and the chat-level configuration. Bingo and lobby state
// are in-memory only and not part of the snapshot.
type Snapshot struct {
	Lottery  *Lottery   `json:"lottery,omitempty"`
	History  []*Lottery `json:"history,omitempty"`
	Settings Settings   `json:"settings"`
}

// Gateway is the persistence collaborator. LoadChat returns (nil, nil)
// when the chat has no saved state. Saves are best-effort: a failure is
// logged by the registry and never rolls back in-memory state.
type Gateway interface {
	LoadChat(ctx context.Context, chatID int64) (*Snapshot, error)
	SaveChat(ctx context.Context, chatID int64, snap *Snapshot) error
}

// Registry is the process-wide table of chat contest state. It enforces
// at most one active contest per kind per chat and gives each chat one
// exclusive-access scope: commands for the same chat serialize on the
// chat mutex, different chats proceed independently.
type Registry struct {
	mu    sync.Mutex
	chats map[int64]*Chat

	gateway Gateway // nil disables persistence
	log     *logrus.Logger

	// NewSource builds the per-chat randomness source. Overridden in
	// tests with a seeded or scripted source.
	NewSource func() Source
	// Now is the clock, injectable for lobby-expiry tests.
	Now func() time.Time
}

// NewRegistry builds a registry. gateway may be nil for in-memory-only
// operation.
func NewRegistry(gateway Gateway, log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.New()
	}
	return &Registry{
		chats:     make(map[int64]*Chat),
		gateway:   gateway,
		log:       log,
		NewSource: NewTimeSource,
		Now:       time.Now,
	}
}

// Chat returns the state holder for a chat id, creating it on first use
// and restoring any persisted snapshot. The registry lock only guards the
// table insert; the gateway round-trip runs once per chat outside it, so
// a slow restore never stalls commands for other chats.
func (r *Registry) Chat(chatID int64) *Chat {
	r.mu.Lock()
	c, ok := r.chats[chatID]
	if !ok {
		c = &Chat{
			ID:       chatID,
			Settings: DefaultSettings(),
			src:      r.NewSource(),
			reg:      r,
		}
		r.chats[chatID] = c
	}
	r.mu.Unlock()
	c.restoreOnce.Do(c.restore)
	return c
}

func (c *Chat) restore() {
	if c.reg.gateway == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	snap, err := c.reg.gateway.LoadChat(ctx, c.ID)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.reg.log.WithFields(logrus.Fields{"chat": c.ID, "error": err}).
			Warn("failed to restore chat state, starting fresh")
		return
	}
	if snap == nil {
		return
	}
	c.Lottery = snap.Lottery
	c.History = snap.History
	c.Settings = snap.Settings
	if c.Settings.WinnerCount == 0 {
		c.Settings.WinnerCount = DefaultWinnerCount
	}
}

// Chat holds all contest state for one chat id behind a single mutex.
type Chat struct {
	ID int64
	mu sync.Mutex

	Lobby *Lobby
	Bingo *BingoGame

	Lottery  *Lottery
	History  []*Lottery
	Settings Settings

	src         Source
	reg         *Registry
	saveCh      chan *Snapshot
	restoreOnce sync.Once
}

// persist snapshots the lottery side of the chat and hands it to the
// gateway off the caller's path. The caller must hold c.mu; the snapshot
// is deep-copied first so the save never races live state. A single
// writer goroutine per chat keeps saves in order, and a pending save is
// replaced by a newer one rather than queued behind it.
func (c *Chat) persist() {
	if c.reg.gateway == nil {
		return
	}
	snap := &Snapshot{Settings: c.Settings}
	if c.Lottery != nil {
		snap.Lottery = c.Lottery.clone()
	}
	for _, h := range c.History {
		snap.History = append(snap.History, h.clone())
	}
	if c.saveCh == nil {
		c.saveCh = make(chan *Snapshot, 1)
		go c.runSaver()
	}
	for {
		select {
		case c.saveCh <- snap:
			return
		default:
			select {
			case <-c.saveCh:
			default:
			}
		}
	}
}

func (c *Chat) runSaver() {
	for snap := range c.saveCh {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := c.reg.gateway.SaveChat(ctx, c.ID, snap)
		cancel()
		if err != nil {
			c.reg.log.WithFields(logrus.Fields{"chat": c.ID, "error": err}).
				Warn("failed to persist chat state")
		}
	}
}

func (l *Lottery) clone() *Lottery {
	cp := *l
	cp.Tickets = make(map[int64][]int, len(l.Tickets))
	for id, ts := range l.Tickets {
		cp.Tickets[id] = append([]int(nil), ts...)
	}
	cp.Winners = append([]PlaceWin(nil), l.Winners...)
	return &cp
}

// --- Bingo lifecycle ---

// OpenLobby opens the joining phase with hostID as host, returning the
// participant list. Rejected while a lobby is open or a game is active; a
// resolved or aborted game no longer blocks a new lobby.
func (c *Chat) OpenLobby(hostID int64) ([]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Bingo != nil && c.Bingo.State == StateActive {
		return nil, ErrAlreadyActive
	}
	if c.Lobby != nil {
		return nil, ErrLobbyOpen
	}
	c.Bingo = nil
	c.Lobby = NewLobby(c.ID, hostID, c.reg.Now())
	return append([]int64(nil), c.Lobby.Participants...), nil
}

// JoinLobby adds userID to the open lobby and returns the resulting
// participant list. An expired lobby is discarded on the spot. Joining
// twice reports joined=false with no state change.
func (c *Chat) JoinLobby(userID int64) (joined bool, participants []int64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Lobby == nil {
		return false, nil, ErrNoLobby
	}
	if c.Lobby.Expired(c.reg.Now()) {
		c.Lobby = nil
		return false, nil, ErrLobbyExpired
	}
	joined = c.Lobby.Join(userID)
	return joined, append([]int64(nil), c.Lobby.Participants...), nil
}

// StartBingo promotes the lobby to an active game (host only, two or
// more participants). The lobby is consumed. The returned view carries
// the cards dealt at start, already rendered.
func (c *Chat) StartBingo(userID int64) (*GameStart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Lobby == nil {
		return nil, ErrNoLobby
	}
	if c.Lobby.Expired(c.reg.Now()) {
		c.Lobby = nil
		return nil, ErrLobbyExpired
	}
	if userID != c.Lobby.HostID {
		return nil, ErrNotHost
	}
	if len(c.Lobby.Participants) < MinParticipants {
		return nil, ErrInsufficientParticipants
	}
	c.Bingo = NewBingoGame(c.ID, c.Lobby.HostID, c.Lobby.Participants, c.src, c.reg.Now())
	c.Lobby = nil
	return c.Bingo.startView(), nil
}

// DrawNumber draws the next bingo number (host only).
func (c *Chat) DrawNumber(userID int64) (*DrawResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Bingo == nil {
		return nil, ErrNoSession
	}
	return c.Bingo.DrawNumber(userID)
}

// AttemptCheat runs the cheat mechanic for userID.
func (c *Chat) AttemptCheat(userID int64) (*CheatResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Bingo == nil {
		return nil, ErrNoSession
	}
	return c.Bingo.AttemptCheat(userID)
}

// BingoCard returns the caller's private card view.
func (c *Chat) BingoCard(userID int64) (*CardView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Bingo == nil {
		return nil, ErrNoSession
	}
	return c.Bingo.CardFor(userID)
}

// BingoStandings returns the current standings.
func (c *Chat) BingoStandings() ([]StandingRow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Bingo == nil {
		return nil, ErrNoSession
	}
	return c.Bingo.Standings(), nil
}

// BingoDrawnNumbers returns numbers announced so far.
func (c *Chat) BingoDrawnNumbers() ([]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Bingo == nil {
		return nil, ErrNoSession
	}
	return c.Bingo.DrawnNumbers(), nil
}

// BingoExcluded returns players barred for cheating.
func (c *Chat) BingoExcluded() ([]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Bingo == nil {
		return nil, ErrNoSession
	}
	return c.Bingo.ExcludedPlayers(), nil
}

// StopBingo aborts the session (host only). No placement is computed.
func (c *Chat) StopBingo(userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Bingo == nil {
		return ErrNoSession
	}
	if userID != c.Bingo.HostID {
		return ErrNotHost
	}
	c.Bingo.State = StateAborted
	c.Bingo = nil
	return nil
}

// ForceStopBingo aborts the session regardless of host. Authorization
// against the moderation authority is the caller's responsibility.
func (c *Chat) ForceStopBingo() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Bingo == nil {
		return ErrNoSession
	}
	c.Bingo.State = StateAborted
	c.Bingo = nil
	return nil
}

// --- Lottery lifecycle ---

// CreateLottery opens a new lottery run by adminID, capturing the chat
// settings. Rejected while another lottery is active.
func (c *Chat) CreateLottery(adminID int64) (LotterySummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Lottery != nil && c.Lottery.Active {
		return LotterySummary{}, ErrAlreadyActive
	}
	if c.Lottery != nil {
		c.History = append(c.History, c.Lottery)
	}
	c.Lottery = NewLottery(c.ID, adminID, c.Settings, c.reg.Now())
	c.persist()
	return c.Lottery.Summary(), nil
}

// activeLottery returns the current instance or ErrNoSession.
func (c *Chat) activeLottery() (*Lottery, error) {
	if c.Lottery == nil || !c.Lottery.Active {
		return nil, ErrNoSession
	}
	return c.Lottery, nil
}

// IssueTickets issues a ticket batch to target (lottery admin only).
func (c *Chat) IssueTickets(adminID, target int64, count int) ([]int, LotterySummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, err := c.activeLottery()
	if err != nil {
		return nil, LotterySummary{}, err
	}
	batch, err := l.IssueTickets(c.src, adminID, target, count)
	if err != nil {
		return nil, LotterySummary{}, err
	}
	c.persist()
	return batch, l.Summary(), nil
}

// LotteryInfo returns the participant listing and a summary of the
// active instance.
func (c *Chat) LotteryInfo() ([]ParticipantRow, LotterySummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, err := c.activeLottery()
	if err != nil {
		return nil, LotterySummary{}, err
	}
	return l.Participants(), l.Summary(), nil
}

// MyTickets returns the caller's tickets in the active lottery.
func (c *Chat) MyTickets(userID int64) ([]int, LotterySummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, err := c.activeLottery()
	if err != nil {
		return nil, LotterySummary{}, err
	}
	return l.TicketsFor(userID), l.Summary(), nil
}

// DrawLottery resolves the active lottery and retires it to history.
func (c *Chat) DrawLottery(adminID int64) (*DrawOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, err := c.activeLottery()
	if err != nil {
		return nil, err
	}
	out, err := l.ConductDraw(c.src, adminID, c.reg.Now())
	if err != nil {
		return nil, err
	}
	c.History = append(c.History, l)
	c.Lottery = nil
	c.persist()
	return out, nil
}

// StopLottery deactivates the active lottery without drawing.
func (c *Chat) StopLottery(adminID int64) (*StopStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, err := c.activeLottery()
	if err != nil {
		return nil, err
	}
	stats, err := l.Stop(adminID, c.reg.Now())
	if err != nil {
		return nil, err
	}
	c.History = append(c.History, l)
	c.Lottery = nil
	c.persist()
	return stats, nil
}

// --- Chat-level lottery configuration ---
// All of these are rejected while a lottery is active. Role gating
// (creator/admin) happens in the router against the roles service.

// SetRPMode toggles roleplay pricing. Enabling sets the default ticket
// price when none is configured; disabling clears the price.
func (c *Chat) SetRPMode(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Lottery != nil && c.Lottery.Active {
		return ErrSettingsLocked
	}
	c.Settings.RPMode = enabled
	if enabled {
		if c.Settings.TicketPrice == 0 {
			c.Settings.TicketPrice = DefaultTicketPrice
		}
	} else {
		c.Settings.TicketPrice = 0
	}
	c.persist()
	return nil
}

// SetTicketPrice sets the roleplay ticket price (1..10000, roleplay mode
// required).
func (c *Chat) SetTicketPrice(price int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Lottery != nil && c.Lottery.Active {
		return ErrSettingsLocked
	}
	if !c.Settings.RPMode {
		return ErrRPModeDisabled
	}
	if price < 1 || price > MaxTicketPrice {
		return ErrInvalidCount
	}
	c.Settings.TicketPrice = price
	c.persist()
	return nil
}

// SetWinnerCount sets the prize-place count for future lotteries (1..10).
func (c *Chat) SetWinnerCount(count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if count < 1 || count > MaxWinnerCount {
		return ErrInvalidCount
	}
	if c.Lottery != nil && c.Lottery.Active {
		return ErrSettingsLocked
	}
	c.Settings.WinnerCount = count
	c.persist()
	return nil
}

// ChatSettings returns a copy of the chat configuration.
func (c *Chat) ChatSettings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Settings
}

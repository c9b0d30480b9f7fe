// internal/contest/lobby.go
package contest

import "time"

const (
	// JoinWindow is the fixed joining window for a bingo lobby. Expiry is
	// evaluated lazily on the next join or start call.
	JoinWindow = 300 * time.Second

	// MinParticipants is the minimum player count to start a game.
	MinParticipants = 2
)

// Lobby is the pre-game joining phase of a bingo session. The host is the
// user who opened it and is always the first participant.
type Lobby struct {
	ChatID       int64
	HostID       int64
	Participants []int64
	OpenedAt     time.Time
}

// NewLobby opens a lobby with the host already joined.
func NewLobby(chatID, hostID int64, now time.Time) *Lobby {
	return &Lobby{
		ChatID:       chatID,
		HostID:       hostID,
		Participants: []int64{hostID},
		OpenedAt:     now,
	}
}

// Expired reports whether the join window has elapsed.
func (l *Lobby) Expired(now time.Time) bool {
	return now.Sub(l.OpenedAt) > JoinWindow
}

// Join appends the user, preserving arrival order. Joining twice is
// idempotent; the second call reports joined=false with no state change.
func (l *Lobby) Join(userID int64) (joined bool) {
	for _, id := range l.Participants {
		if id == userID {
			return false
		}
	}
	l.Participants = append(l.Participants, userID)
	return true
}

// internal/contest/errors.go
package contest

import "errors"

// Every error below is a recoverable user-facing condition. The router
// translates them into explanatory chat replies; none of them is fatal to
// the process.
var (
	// ErrAlreadyActive means a contest is already running in this chat.
	ErrAlreadyActive = errors.New("contest already active in this chat")
	// ErrLobbyOpen means a joining phase is already underway.
	ErrLobbyOpen = errors.New("lobby already open in this chat")
	// ErrNoLobby means there is no joining phase to act on.
	ErrNoLobby = errors.New("no open lobby in this chat")
	// ErrNoSession means no contest is active in this chat.
	ErrNoSession = errors.New("no active contest in this chat")
	// ErrLobbyExpired means the 300s join window has elapsed.
	ErrLobbyExpired = errors.New("lobby join window expired")
	// ErrNotHost means the caller is not the bingo host.
	ErrNotHost = errors.New("only the host may do that")
	// ErrNotAdmin means the caller is not the lottery admin.
	ErrNotAdmin = errors.New("only the lottery admin may do that")
	// ErrInsufficientParticipants means fewer than two players joined.
	ErrInsufficientParticipants = errors.New("not enough participants")
	// ErrPoolExhausted means every number 1..90 has been drawn.
	ErrPoolExhausted = errors.New("draw pool exhausted")
	// ErrNoEligibleNumbers means the cheater has no undrawn card values.
	ErrNoEligibleNumbers = errors.New("no undrawn numbers left on card")
	// ErrNotParticipant means the caller holds no card in this game.
	ErrNotParticipant = errors.New("not a participant of this game")
	// ErrExcluded means the caller was caught cheating earlier.
	ErrExcluded = errors.New("excluded from this game for cheating")
	// ErrGameOver means the session already reached a terminal state.
	ErrGameOver = errors.New("game already finished")
	// ErrInvalidCount means a count/price argument is out of range.
	ErrInvalidCount = errors.New("count out of range")
	// ErrNoTickets means the lottery has no entrants with tickets.
	ErrNoTickets = errors.New("no tickets issued in this lottery")
	// ErrSettingsLocked means chat settings cannot change mid-lottery.
	ErrSettingsLocked = errors.New("settings locked while a lottery is active")
	// ErrRPModeDisabled means the operation needs roleplay pricing on.
	ErrRPModeDisabled = errors.New("roleplay pricing mode is disabled")
)

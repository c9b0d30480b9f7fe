// internal/router/command.go
package router

import "strings"

// Kind tags a parsed chat command.
type Kind int

const (
	KindUnknown Kind = iota

	KindBingoOpen
	KindBingoJoin
	KindBingoStart
	KindBingoDraw
	KindBingoCard
	KindBingoNumbers
	KindBingoStandings
	KindBingoCheaters
	KindBingoCheat
	KindBingoStop
	KindForceStop

	KindLotteryCreate
	KindLotteryTickets
	KindLotteryMy
	KindLotteryList
	KindLotteryDraw
	KindLotteryStop
	KindLotteryRPOn
	KindLotteryRPOff
	KindLotteryPrice
	KindLotteryWinners

	KindClaimCreator
	KindStaff
	KindMyRights
	KindRights
	KindPromote
	KindDemote
	KindTransfer
)

// Command is one parsed chat command with its trailing arguments.
type Command struct {
	Kind Kind
	Args []string
}

// exactCommands maps whole-message commands to their kind.
var exactCommands = map[string]Kind{
	"bingo":           KindBingoOpen,
	"bingo join":      KindBingoJoin,
	"bingo start":     KindBingoStart,
	"bingo draw":      KindBingoDraw,
	"bingo card":      KindBingoCard,
	"bingo numbers":   KindBingoNumbers,
	"bingo standings": KindBingoStandings,
	"bingo cheaters":  KindBingoCheaters,
	"bingo cheat":     KindBingoCheat,
	"bingo stop":      KindBingoStop,
	"stop games":      KindForceStop,

	"lottery":        KindLotteryCreate,
	"lottery my":     KindLotteryMy,
	"lottery list":   KindLotteryList,
	"lottery draw":   KindLotteryDraw,
	"lottery stop":   KindLotteryStop,
	"lottery rp on":  KindLotteryRPOn,
	"lottery rp off": KindLotteryRPOff,

	"claim creator":  KindClaimCreator,
	"staff":          KindStaff,
	"my rights":      KindMyRights,
	"rights":         KindRights,
	"promote":        KindPromote,
	"demote":         KindDemote,
	"transfer power": KindTransfer,
}

// prefixCommands are commands that carry arguments after the prefix.
var prefixCommands = []struct {
	prefix string
	kind   Kind
}{
	{"lottery tickets", KindLotteryTickets},
	{"lottery price", KindLotteryPrice},
	{"lottery winners", KindLotteryWinners},
}

// Parse normalizes a chat message and resolves it against the command
// tables. Non-command text yields ok=false and produces no reply.
func Parse(text string) (Command, bool) {
	norm := strings.ToLower(strings.TrimSpace(text))
	norm = strings.Join(strings.Fields(norm), " ")
	if norm == "" {
		return Command{}, false
	}
	if kind, ok := exactCommands[norm]; ok {
		return Command{Kind: kind}, true
	}
	for _, pc := range prefixCommands {
		if strings.HasPrefix(norm, pc.prefix+" ") {
			args := strings.Fields(norm[len(pc.prefix):])
			return Command{Kind: pc.kind, Args: args}, true
		}
	}
	return Command{}, false
}

// internal/router/router.go
package router

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/avelikov/guildbot/internal/contest"
	"github.com/avelikov/guildbot/internal/identity"
	"github.com/avelikov/guildbot/internal/models"
	"github.com/avelikov/guildbot/internal/roles"
)

// nameRememberer is implemented by resolvers that accept display-name
// refreshes piggybacked on inbound messages.
type nameRememberer interface {
	Remember(userID int64, name string)
}

// handlerFunc executes one command and renders the chat reply.
type handlerFunc func(ctx context.Context, msg models.InboundMessage, args []string) string

// Router parses inbound chat messages and dispatches them through a
// lookup table to the contest engine and role service.
type Router struct {
	Reg   *contest.Registry
	Roles *roles.Service
	Names identity.Resolver
	Log   *logrus.Logger

	handlers map[Kind]handlerFunc
}

// New wires a router over its collaborators.
func New(reg *contest.Registry, roleSvc *roles.Service, names identity.Resolver, log *logrus.Logger) *Router {
	rt := &Router{Reg: reg, Roles: roleSvc, Names: names, Log: log}
	rt.handlers = map[Kind]handlerFunc{
		KindBingoOpen:      rt.bingoOpen,
		KindBingoJoin:      rt.bingoJoin,
		KindBingoStart:     rt.bingoStart,
		KindBingoDraw:      rt.bingoDraw,
		KindBingoCard:      rt.bingoCard,
		KindBingoNumbers:   rt.bingoNumbers,
		KindBingoStandings: rt.bingoStandings,
		KindBingoCheaters:  rt.bingoCheaters,
		KindBingoCheat:     rt.bingoCheat,
		KindBingoStop:      rt.bingoStop,
		KindForceStop:      rt.forceStop,

		KindLotteryCreate:  rt.lotteryCreate,
		KindLotteryTickets: rt.lotteryTickets,
		KindLotteryMy:      rt.lotteryMy,
		KindLotteryList:    rt.lotteryList,
		KindLotteryDraw:    rt.lotteryDraw,
		KindLotteryStop:    rt.lotteryStop,
		KindLotteryRPOn:    rt.lotteryRPOn,
		KindLotteryRPOff:   rt.lotteryRPOff,
		KindLotteryPrice:   rt.lotteryPrice,
		KindLotteryWinners: rt.lotteryWinners,

		KindClaimCreator: rt.claimCreator,
		KindStaff:        rt.staff,
		KindMyRights:     rt.myRights,
		KindRights:       rt.rights,
		KindPromote:      rt.promote,
		KindDemote:       rt.demote,
		KindTransfer:     rt.transfer,
	}
	return rt
}

// HandleMessage processes one inbound chat message. An empty reply means
// the text was not a command and the bot stays silent.
func (rt *Router) HandleMessage(ctx context.Context, msg models.InboundMessage) string {
	if msg.SenderName != "" {
		if r, ok := rt.Names.(nameRememberer); ok {
			r.Remember(msg.UserID, msg.SenderName)
		}
	}
	cmd, ok := Parse(msg.Text)
	if !ok {
		return ""
	}
	h, ok := rt.handlers[cmd.Kind]
	if !ok {
		return ""
	}
	return h(ctx, msg, cmd.Args)
}

func (rt *Router) name(ctx context.Context, userID int64) string {
	return rt.Names.Resolve(ctx, userID)
}

// target resolves the user a command acts on: the replied-to author, or
// a numeric id in args.
func target(msg models.InboundMessage, args []string) (int64, bool) {
	if msg.ReplyToUserID != nil {
		return *msg.ReplyToUserID, true
	}
	if len(args) > 0 {
		if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// --- Bingo handlers ---

func (rt *Router) bingoOpen(ctx context.Context, msg models.InboundMessage, _ []string) string {
	_, err := rt.Reg.Chat(msg.ChatID).OpenLobby(msg.UserID)
	switch {
	case errors.Is(err, contest.ErrAlreadyActive):
		return "A bingo game is already running in this chat!"
	case errors.Is(err, contest.ErrLobbyOpen):
		return "Players are already gathering! Type 'bingo join' to enter."
	case err != nil:
		return rt.internalError(err)
	}
	return formatLobbyOpened(rt.name(ctx, msg.UserID))
}

func (rt *Router) bingoJoin(ctx context.Context, msg models.InboundMessage, _ []string) string {
	joined, participants, err := rt.Reg.Chat(msg.ChatID).JoinLobby(msg.UserID)
	switch {
	case errors.Is(err, contest.ErrNoLobby):
		return "No bingo lobby is open right now."
	case errors.Is(err, contest.ErrLobbyExpired):
		return "The joining window has closed."
	case err != nil:
		return rt.internalError(err)
	}
	if !joined {
		return "You have already joined the game."
	}
	names := make([]string, 0, len(participants))
	for _, id := range participants {
		names = append(names, rt.name(ctx, id))
	}
	return formatJoined(rt.name(ctx, msg.UserID), names)
}

func (rt *Router) bingoStart(ctx context.Context, msg models.InboundMessage, _ []string) string {
	start, err := rt.Reg.Chat(msg.ChatID).StartBingo(msg.UserID)
	switch {
	case errors.Is(err, contest.ErrNoLobby):
		return "There is no lobby to start."
	case errors.Is(err, contest.ErrLobbyExpired):
		return "The joining window has closed."
	case errors.Is(err, contest.ErrNotHost):
		return "Only the host can start the game!"
	case errors.Is(err, contest.ErrInsufficientParticipants):
		return "At least 2 players are needed to start bingo."
	case err != nil:
		return rt.internalError(err)
	}
	return rt.formatGameStarted(ctx, start)
}

func (rt *Router) bingoDraw(ctx context.Context, msg models.InboundMessage, _ []string) string {
	res, err := rt.Reg.Chat(msg.ChatID).DrawNumber(msg.UserID)
	switch {
	case errors.Is(err, contest.ErrNoSession):
		return "No bingo game is active."
	case errors.Is(err, contest.ErrGameOver):
		return "The bingo game is already over."
	case errors.Is(err, contest.ErrNotHost):
		return "Only the host draws numbers!"
	case errors.Is(err, contest.ErrPoolExhausted):
		return "All numbers have been drawn!"
	case err != nil:
		return rt.internalError(err)
	}
	return rt.formatDraw(ctx, res)
}

func (rt *Router) bingoCard(ctx context.Context, msg models.InboundMessage, _ []string) string {
	view, err := rt.Reg.Chat(msg.ChatID).BingoCard(msg.UserID)
	switch {
	case errors.Is(err, contest.ErrNoSession):
		return "No bingo game is active."
	case errors.Is(err, contest.ErrNotParticipant):
		return "You are not playing in this game."
	case errors.Is(err, contest.ErrExcluded):
		return "You were excluded for cheating and can no longer play."
	case err != nil:
		return rt.internalError(err)
	}
	return formatCardView(view)
}

func (rt *Router) bingoNumbers(ctx context.Context, msg models.InboundMessage, _ []string) string {
	nums, err := rt.Reg.Chat(msg.ChatID).BingoDrawnNumbers()
	if errors.Is(err, contest.ErrNoSession) {
		return "No bingo game is active."
	} else if err != nil {
		return rt.internalError(err)
	}
	return formatDrawnNumbers(nums)
}

func (rt *Router) bingoStandings(ctx context.Context, msg models.InboundMessage, _ []string) string {
	rows, err := rt.Reg.Chat(msg.ChatID).BingoStandings()
	if errors.Is(err, contest.ErrNoSession) {
		return "No bingo game is active."
	} else if err != nil {
		return rt.internalError(err)
	}
	return rt.formatStandings(ctx, rows)
}

func (rt *Router) bingoCheaters(ctx context.Context, msg models.InboundMessage, _ []string) string {
	ids, err := rt.Reg.Chat(msg.ChatID).BingoExcluded()
	if errors.Is(err, contest.ErrNoSession) {
		return "No bingo game is active."
	} else if err != nil {
		return rt.internalError(err)
	}
	if len(ids) == 0 {
		return "No one has been caught cheating yet."
	}
	out := "EXCLUDED FOR CHEATING:\n"
	for _, id := range ids {
		out += "- " + rt.name(ctx, id) + "\n"
	}
	return out
}

func (rt *Router) bingoCheat(ctx context.Context, msg models.InboundMessage, _ []string) string {
	res, err := rt.Reg.Chat(msg.ChatID).AttemptCheat(msg.UserID)
	switch {
	case errors.Is(err, contest.ErrNoSession):
		return "No bingo game is active."
	case errors.Is(err, contest.ErrGameOver):
		return "The bingo game is already over."
	case errors.Is(err, contest.ErrNotParticipant):
		return "You are not playing in this game."
	case errors.Is(err, contest.ErrExcluded):
		return "You were excluded for cheating!"
	case errors.Is(err, contest.ErrNoEligibleNumbers):
		return "You have no undrawn numbers left to fake!"
	case err != nil:
		return rt.internalError(err)
	}
	return rt.formatCheat(ctx, rt.name(ctx, msg.UserID), res)
}

func (rt *Router) bingoStop(ctx context.Context, msg models.InboundMessage, _ []string) string {
	err := rt.Reg.Chat(msg.ChatID).StopBingo(msg.UserID)
	switch {
	case errors.Is(err, contest.ErrNoSession):
		return "No bingo game is active."
	case errors.Is(err, contest.ErrNotHost):
		return "Only the host can end the game!"
	case err != nil:
		return rt.internalError(err)
	}
	return "The bingo game was ended by the host."
}

func (rt *Router) forceStop(ctx context.Context, msg models.InboundMessage, _ []string) string {
	mod, err := rt.Roles.IsModerator(ctx, msg.ChatID, msg.UserID)
	if err != nil {
		return rt.internalError(err)
	}
	if !mod {
		return "Only moderators and admins can force-stop games!"
	}
	if err := rt.Reg.Chat(msg.ChatID).ForceStopBingo(); err != nil {
		return "No active games to stop."
	}
	return "Moderator " + rt.name(ctx, msg.UserID) + " force-stopped the bingo game."
}

// --- Lottery handlers ---

func (rt *Router) lotteryCreate(ctx context.Context, msg models.InboundMessage, _ []string) string {
	admin, err := rt.Roles.IsAdmin(ctx, msg.ChatID, msg.UserID)
	if err != nil {
		return rt.internalError(err)
	}
	if !admin {
		return "Only the chat creator and admins can create lotteries!"
	}
	_, err = rt.Reg.Chat(msg.ChatID).CreateLottery(msg.UserID)
	if errors.Is(err, contest.ErrAlreadyActive) {
		return "A lottery is already active in this chat! End it with 'lottery stop'."
	} else if err != nil {
		return rt.internalError(err)
	}
	return formatLotteryCreated(rt.name(ctx, msg.UserID))
}

func (rt *Router) lotteryTickets(ctx context.Context, msg models.InboundMessage, args []string) string {
	const usage = "Usage: 'lottery tickets <user> <count>' (1 to 10), or reply to a message with 'lottery tickets <count>'."
	var targetID int64
	var countArg string
	if msg.ReplyToUserID != nil && len(args) >= 1 {
		targetID = *msg.ReplyToUserID
		countArg = args[0]
	} else if len(args) >= 2 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return usage
		}
		targetID = id
		countArg = args[1]
	} else {
		return usage
	}
	count, err := strconv.Atoi(countArg)
	if err != nil {
		return usage
	}

	batch, sum, err := rt.Reg.Chat(msg.ChatID).IssueTickets(msg.UserID, targetID, count)
	switch {
	case errors.Is(err, contest.ErrNoSession):
		return "No active lottery in this chat. Create one with 'lottery'."
	case errors.Is(err, contest.ErrNotAdmin):
		return "Only the lottery admin can issue tickets!"
	case errors.Is(err, contest.ErrInvalidCount):
		return "You can issue between 1 and 10 tickets at a time."
	case err != nil:
		return rt.internalError(err)
	}
	return formatTicketsIssued(rt.name(ctx, msg.UserID), rt.name(ctx, targetID), batch, sum)
}

func (rt *Router) lotteryMy(ctx context.Context, msg models.InboundMessage, _ []string) string {
	tickets, sum, err := rt.Reg.Chat(msg.ChatID).MyTickets(msg.UserID)
	if errors.Is(err, contest.ErrNoSession) {
		return "No active lottery in this chat."
	} else if err != nil {
		return rt.internalError(err)
	}
	if len(tickets) == 0 {
		return "You have no tickets in this lottery."
	}
	return formatMyTickets(rt.name(ctx, msg.UserID), tickets, sum)
}

func (rt *Router) lotteryList(ctx context.Context, msg models.InboundMessage, _ []string) string {
	rows, sum, err := rt.Reg.Chat(msg.ChatID).LotteryInfo()
	if errors.Is(err, contest.ErrNoSession) {
		return "No active lottery in this chat."
	} else if err != nil {
		return rt.internalError(err)
	}
	if len(rows) == 0 {
		return "The lottery has no participants yet."
	}
	return rt.formatParticipants(ctx, rows, sum)
}

func (rt *Router) lotteryDraw(ctx context.Context, msg models.InboundMessage, _ []string) string {
	out, err := rt.Reg.Chat(msg.ChatID).DrawLottery(msg.UserID)
	switch {
	case errors.Is(err, contest.ErrNoSession):
		return "No active lottery in this chat."
	case errors.Is(err, contest.ErrNotAdmin):
		return "Only the lottery admin can conduct the draw!"
	case errors.Is(err, contest.ErrNoTickets):
		return "Nobody holds a ticket yet!"
	case err != nil:
		return rt.internalError(err)
	}
	return rt.formatLotteryResults(ctx, out)
}

func (rt *Router) lotteryStop(ctx context.Context, msg models.InboundMessage, _ []string) string {
	stats, err := rt.Reg.Chat(msg.ChatID).StopLottery(msg.UserID)
	switch {
	case errors.Is(err, contest.ErrNoSession):
		return "No active lottery in this chat."
	case errors.Is(err, contest.ErrNotAdmin):
		return "Only the lottery admin can stop it!"
	case err != nil:
		return rt.internalError(err)
	}
	return formatLotteryStopped(rt.name(ctx, msg.UserID), stats)
}

func (rt *Router) lotteryRPOn(ctx context.Context, msg models.InboundMessage, _ []string) string {
	return rt.setRPMode(ctx, msg, true)
}

func (rt *Router) lotteryRPOff(ctx context.Context, msg models.InboundMessage, _ []string) string {
	return rt.setRPMode(ctx, msg, false)
}

func (rt *Router) setRPMode(ctx context.Context, msg models.InboundMessage, enabled bool) string {
	creator, err := rt.Roles.IsCreator(ctx, msg.ChatID, msg.UserID)
	if err != nil {
		return rt.internalError(err)
	}
	if !creator {
		return "This command is only available to the chat creator!"
	}
	if err := rt.Reg.Chat(msg.ChatID).SetRPMode(enabled); err != nil {
		return "You cannot change the mode while a lottery is active! End it with 'lottery stop'."
	}
	return formatRPMode(rt.name(ctx, msg.UserID), enabled)
}

func (rt *Router) lotteryPrice(ctx context.Context, msg models.InboundMessage, args []string) string {
	creator, err := rt.Roles.IsCreator(ctx, msg.ChatID, msg.UserID)
	if err != nil {
		return rt.internalError(err)
	}
	if !creator {
		return "This command is only available to the chat creator!"
	}
	if len(args) < 1 {
		return "Usage: 'lottery price <number>'. Example: 'lottery price 150'."
	}
	price, convErr := strconv.Atoi(args[0])
	if convErr != nil {
		return "Please give a valid number! Example: 'lottery price 150'."
	}
	err = rt.Reg.Chat(msg.ChatID).SetTicketPrice(price)
	switch {
	case errors.Is(err, contest.ErrSettingsLocked):
		return "You cannot change the ticket price while a lottery is active!"
	case errors.Is(err, contest.ErrRPModeDisabled):
		return "The ticket price can only be set while roleplay mode is on. Enable it with 'lottery rp on'."
	case errors.Is(err, contest.ErrInvalidCount):
		return "The ticket price must be between 1 and 10000 gold!"
	case err != nil:
		return rt.internalError(err)
	}
	return formatPriceSet(rt.name(ctx, msg.UserID), price)
}

func (rt *Router) lotteryWinners(ctx context.Context, msg models.InboundMessage, args []string) string {
	admin, err := rt.Roles.IsAdmin(ctx, msg.ChatID, msg.UserID)
	if err != nil {
		return rt.internalError(err)
	}
	if !admin {
		return "This command is only available to the chat creator or admins!"
	}
	if len(args) < 1 {
		return "Usage: 'lottery winners <number>'. Example: 'lottery winners 5'."
	}
	count, convErr := strconv.Atoi(args[0])
	if convErr != nil {
		return "Please give a valid number! Example: 'lottery winners 5'."
	}
	err = rt.Reg.Chat(msg.ChatID).SetWinnerCount(count)
	switch {
	case errors.Is(err, contest.ErrInvalidCount):
		return "The winner count must be between 1 and 10!"
	case errors.Is(err, contest.ErrSettingsLocked):
		return "You cannot change the winner count while a lottery is active!"
	case err != nil:
		return rt.internalError(err)
	}
	return formatWinnerCountSet(rt.name(ctx, msg.UserID), count)
}

// --- Role handlers ---

func (rt *Router) claimCreator(ctx context.Context, msg models.InboundMessage, _ []string) string {
	err := rt.Roles.SetCreator(ctx, msg.ChatID, msg.UserID)
	if errors.Is(err, roles.ErrDuplicateCreator) {
		staff, sErr := rt.Roles.StaffList(ctx, msg.ChatID)
		if sErr == nil && staff.Creator != nil {
			return "This chat already has a creator: " + rt.name(ctx, *staff.Creator) + "!"
		}
		return "This chat already has a creator!"
	} else if err != nil {
		return rt.internalError(err)
	}
	return rt.name(ctx, msg.UserID) + " is now the chat creator!"
}

func (rt *Router) staff(ctx context.Context, msg models.InboundMessage, _ []string) string {
	staff, err := rt.Roles.StaffList(ctx, msg.ChatID)
	if err != nil {
		return rt.internalError(err)
	}
	return rt.formatStaff(ctx, staff)
}

func (rt *Router) myRights(ctx context.Context, msg models.InboundMessage, _ []string) string {
	level, err := rt.Roles.Level(ctx, msg.ChatID, msg.UserID)
	if err != nil {
		return rt.internalError(err)
	}
	return formatRights(rt.name(ctx, msg.UserID), level)
}

func (rt *Router) rights(ctx context.Context, msg models.InboundMessage, args []string) string {
	targetID, ok := target(msg, args)
	if !ok {
		return "Reply to a message from the user whose rights you want to check."
	}
	level, err := rt.Roles.Level(ctx, msg.ChatID, targetID)
	if err != nil {
		return rt.internalError(err)
	}
	return formatRights(rt.name(ctx, targetID), level)
}

func (rt *Router) promote(ctx context.Context, msg models.InboundMessage, args []string) string {
	targetID, ok := target(msg, args)
	if !ok {
		return "Reply to a message from the user you want to promote."
	}
	newRole, err := rt.Roles.Promote(ctx, msg.ChatID, msg.UserID, targetID)
	switch {
	case errors.Is(err, roles.ErrAlreadyHasRole):
		return rt.name(ctx, targetID) + " cannot be promoted any further!"
	case errors.Is(err, roles.ErrNotAuthorized):
		return "You do not have the rank to promote this user!"
	case err != nil:
		return rt.internalError(err)
	}
	return rt.name(ctx, targetID) + " was promoted to " + string(newRole) + " by " + rt.name(ctx, msg.UserID) + "!"
}

func (rt *Router) demote(ctx context.Context, msg models.InboundMessage, args []string) string {
	targetID, ok := target(msg, args)
	if !ok {
		return "Reply to a message from the user you want to demote."
	}
	newRole, err := rt.Roles.Demote(ctx, msg.ChatID, msg.UserID, targetID)
	switch {
	case errors.Is(err, roles.ErrAlreadyHasRole):
		return "The creator cannot be demoted!"
	case errors.Is(err, roles.ErrNotAuthorized):
		return "You do not have the rank to demote this user!"
	case errors.Is(err, roles.ErrNoRole):
		return rt.name(ctx, targetID) + " holds no role to demote."
	case err != nil:
		return rt.internalError(err)
	}
	if newRole == roles.RoleNone {
		return rt.name(ctx, targetID) + " was demoted to a regular member by " + rt.name(ctx, msg.UserID) + "."
	}
	return rt.name(ctx, targetID) + " was demoted to " + string(newRole) + " by " + rt.name(ctx, msg.UserID) + "."
}

func (rt *Router) transfer(ctx context.Context, msg models.InboundMessage, args []string) string {
	targetID, ok := target(msg, args)
	if !ok {
		return "Reply to a message from the user you want to make creator."
	}
	err := rt.Roles.TransferCreator(ctx, msg.ChatID, msg.UserID, targetID)
	switch {
	case errors.Is(err, roles.ErrNotAuthorized):
		return "Only the creator can transfer their rights!"
	case errors.Is(err, roles.ErrSelfTransfer):
		return "You cannot transfer the rights to yourself!"
	case err != nil:
		return rt.internalError(err)
	}
	return rt.name(ctx, msg.UserID) + " handed the creator rights to " + rt.name(ctx, targetID) + "! The former creator is now an admin."
}

func (rt *Router) internalError(err error) string {
	rt.Log.WithError(err).Error("command failed")
	return "Something went wrong, please try again later."
}

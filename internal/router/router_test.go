// internal/router/router_test.go
package router

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelikov/guildbot/internal/contest"
	"github.com/avelikov/guildbot/internal/identity"
	"github.com/avelikov/guildbot/internal/models"
	"github.com/avelikov/guildbot/internal/roles"
)

func newTestRouter(seed int64) *Router {
	reg := contest.NewRegistry(nil, nil)
	reg.NewSource = func() contest.Source { return contest.NewSource(seed) }
	reg.Now = func() time.Time { return time.Unix(1000, 0) }

	names := identity.Static{1: "Alice", 2: "Bob", 3: "Carol"}
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return New(reg, roles.NewService(roles.NewMemoryStore()), names, log)
}

func msg(chatID, userID int64, text string) models.InboundMessage {
	return models.InboundMessage{ChatID: chatID, UserID: userID, Text: text}
}

func reply(chatID, userID int64, text string, replyTo int64) models.InboundMessage {
	m := msg(chatID, userID, text)
	m.ReplyToUserID = &replyTo
	return m
}

func TestHandleMessageIgnoresNonCommands(t *testing.T) {
	rt := newTestRouter(1)
	ctx := context.Background()

	assert.Empty(t, rt.HandleMessage(ctx, msg(100, 1, "good morning")))
	assert.Empty(t, rt.HandleMessage(ctx, msg(100, 1, "")))
	assert.Empty(t, rt.HandleMessage(ctx, msg(100, 1, "bingo?")))
}

func TestBingoFlowThroughRouter(t *testing.T) {
	rt := newTestRouter(2)
	ctx := context.Background()

	out := rt.HandleMessage(ctx, msg(100, 1, "bingo"))
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "bingo join")

	out = rt.HandleMessage(ctx, msg(100, 2, "bingo join"))
	assert.Contains(t, out, "Bob joined")
	assert.Contains(t, out, "Players (2)")

	out = rt.HandleMessage(ctx, msg(100, 2, "bingo join"))
	assert.Equal(t, "You have already joined the game.", out)

	// Only the host may start.
	out = rt.HandleMessage(ctx, msg(100, 2, "bingo start"))
	assert.Equal(t, "Only the host can start the game!", out)

	out = rt.HandleMessage(ctx, msg(100, 1, "bingo start"))
	assert.Contains(t, out, "BINGO HAS STARTED")
	assert.Contains(t, out, "Alice's card:")
	assert.Contains(t, out, "Bob's card:")

	out = rt.HandleMessage(ctx, msg(100, 2, "bingo draw"))
	assert.Equal(t, "Only the host draws numbers!", out)

	out = rt.HandleMessage(ctx, msg(100, 1, "bingo draw"))
	assert.Contains(t, out, "Number drawn:")
	assert.Contains(t, out, "Drawn so far: 1 of 90")

	out = rt.HandleMessage(ctx, msg(100, 2, "bingo card"))
	assert.Contains(t, out, "Your card:")
	assert.Contains(t, out, "Marked:")

	out = rt.HandleMessage(ctx, msg(100, 3, "bingo card"))
	assert.Equal(t, "You are not playing in this game.", out)

	out = rt.HandleMessage(ctx, msg(100, 2, "bingo standings"))
	assert.Contains(t, out, "CURRENT STANDINGS")

	out = rt.HandleMessage(ctx, msg(100, 1, "bingo stop"))
	assert.Equal(t, "The bingo game was ended by the host.", out)
}

func TestBingoWithoutSession(t *testing.T) {
	rt := newTestRouter(1)
	ctx := context.Background()

	assert.Equal(t, "No bingo game is active.", rt.HandleMessage(ctx, msg(100, 1, "bingo draw")))
	assert.Equal(t, "No bingo lobby is open right now.", rt.HandleMessage(ctx, msg(100, 1, "bingo join")))
	assert.Equal(t, "There is no lobby to start.", rt.HandleMessage(ctx, msg(100, 1, "bingo start")))
}

func TestForceStopRequiresModerator(t *testing.T) {
	rt := newTestRouter(3)
	ctx := context.Background()

	rt.HandleMessage(ctx, msg(100, 1, "bingo"))
	rt.HandleMessage(ctx, msg(100, 2, "bingo join"))
	rt.HandleMessage(ctx, msg(100, 1, "bingo start"))

	out := rt.HandleMessage(ctx, msg(100, 3, "stop games"))
	assert.Equal(t, "Only moderators and admins can force-stop games!", out)

	// The creator passes the moderator check.
	rt.HandleMessage(ctx, msg(100, 3, "claim creator"))
	out = rt.HandleMessage(ctx, msg(100, 3, "stop games"))
	assert.Contains(t, out, "force-stopped")

	out = rt.HandleMessage(ctx, msg(100, 3, "stop games"))
	assert.Equal(t, "No active games to stop.", out)
}

func TestLotteryRoleGating(t *testing.T) {
	rt := newTestRouter(4)
	ctx := context.Background()

	out := rt.HandleMessage(ctx, msg(100, 1, "lottery"))
	assert.Equal(t, "Only the chat creator and admins can create lotteries!", out)

	rt.HandleMessage(ctx, msg(100, 1, "claim creator"))

	out = rt.HandleMessage(ctx, msg(100, 2, "lottery rp on"))
	assert.Equal(t, "This command is only available to the chat creator!", out)

	out = rt.HandleMessage(ctx, msg(100, 1, "lottery rp on"))
	assert.Contains(t, out, "roleplay mode")

	out = rt.HandleMessage(ctx, msg(100, 1, "lottery price 150"))
	assert.Contains(t, out, "150 gold")

	out = rt.HandleMessage(ctx, msg(100, 1, "lottery winners 5"))
	assert.Contains(t, out, "5")

	out = rt.HandleMessage(ctx, msg(100, 1, "lottery winners 11"))
	assert.Equal(t, "The winner count must be between 1 and 10!", out)

	out = rt.HandleMessage(ctx, msg(100, 1, "lottery"))
	assert.Contains(t, out, "Lottery created!")
	assert.Contains(t, out, "Alice")

	// Settings lock while active.
	out = rt.HandleMessage(ctx, msg(100, 1, "lottery rp off"))
	assert.Contains(t, out, "while a lottery is active")
}

func TestLotteryTicketFlow(t *testing.T) {
	rt := newTestRouter(5)
	ctx := context.Background()

	rt.HandleMessage(ctx, msg(100, 1, "claim creator"))
	rt.HandleMessage(ctx, msg(100, 1, "lottery"))

	out := rt.HandleMessage(ctx, msg(100, 1, "lottery tickets 2"))
	assert.Contains(t, out, "Usage:")

	out = rt.HandleMessage(ctx, reply(100, 1, "lottery tickets 3", 2))
	assert.Contains(t, out, "issued 3 tickets to Bob")
	assert.Contains(t, out, "#")

	out = rt.HandleMessage(ctx, msg(100, 1, "lottery tickets 3 2"))
	assert.Contains(t, out, "issued 2 tickets to Carol")

	out = rt.HandleMessage(ctx, msg(100, 2, "lottery my"))
	assert.Contains(t, out, "your tickets (3)")

	out = rt.HandleMessage(ctx, msg(100, 2, "lottery list"))
	assert.Contains(t, out, "LOTTERY PARTICIPANTS (2)")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "Carol")

	out = rt.HandleMessage(ctx, msg(100, 2, "lottery draw"))
	assert.Equal(t, "Only the lottery admin can conduct the draw!", out)

	out = rt.HandleMessage(ctx, msg(100, 1, "lottery draw"))
	assert.Contains(t, out, "LOTTERY RESULTS")
	assert.Contains(t, out, "1st place:")

	out = rt.HandleMessage(ctx, msg(100, 2, "lottery my"))
	assert.Equal(t, "No active lottery in this chat.", out)
}

func TestRoleCommands(t *testing.T) {
	rt := newTestRouter(6)
	ctx := context.Background()

	out := rt.HandleMessage(ctx, msg(100, 1, "claim creator"))
	assert.Equal(t, "Alice is now the chat creator!", out)

	out = rt.HandleMessage(ctx, msg(100, 2, "claim creator"))
	assert.Equal(t, "This chat already has a creator: Alice!", out)

	out = rt.HandleMessage(ctx, msg(100, 1, "promote"))
	assert.Contains(t, out, "Reply to a message")

	out = rt.HandleMessage(ctx, reply(100, 1, "promote", 2))
	assert.Equal(t, "Bob was promoted to moderator by Alice!", out)

	out = rt.HandleMessage(ctx, reply(100, 1, "promote", 2))
	assert.Equal(t, "Bob was promoted to admin by Alice!", out)

	// The target's standing is checked before the actor's rank.
	out = rt.HandleMessage(ctx, reply(100, 3, "promote", 2))
	assert.Equal(t, "Bob cannot be promoted any further!", out)

	out = rt.HandleMessage(ctx, reply(100, 3, "promote", 4))
	assert.Equal(t, "You do not have the rank to promote this user!", out)

	out = rt.HandleMessage(ctx, msg(100, 2, "my rights"))
	assert.Contains(t, out, "Bob is an admin")

	out = rt.HandleMessage(ctx, reply(100, 3, "rights", 2))
	assert.Contains(t, out, "Bob is an admin")

	out = rt.HandleMessage(ctx, msg(100, 3, "staff"))
	assert.Contains(t, out, "Creator: Alice")
	assert.Contains(t, out, "Admins: Bob")

	out = rt.HandleMessage(ctx, reply(100, 1, "demote", 2))
	assert.Equal(t, "Bob was demoted to moderator by Alice.", out)

	out = rt.HandleMessage(ctx, reply(100, 1, "transfer power", 2))
	assert.Contains(t, out, "Alice handed the creator rights to Bob")

	out = rt.HandleMessage(ctx, msg(100, 1, "my rights"))
	assert.Contains(t, out, "Alice is an admin")
}

func TestResolverLearnsNames(t *testing.T) {
	reg := contest.NewRegistry(nil, nil)
	reg.NewSource = func() contest.Source { return contest.NewSource(1) }
	names := identity.NewMemory()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	rt := New(reg, roles.NewService(roles.NewMemoryStore()), names, log)

	m := msg(100, 1, "bingo")
	m.SenderName = "Dana"
	out := rt.HandleMessage(context.Background(), m)
	require.Contains(t, out, "Dana")
}

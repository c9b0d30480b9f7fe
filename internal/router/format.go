// internal/router/format.go
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/avelikov/guildbot/internal/contest"
	"github.com/avelikov/guildbot/internal/roles"
)

func ordinal(place int) string {
	switch place {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", place)
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func formatLobbyOpened(host string) string {
	return fmt.Sprintf(
		"BINGO! %s is gathering players!\n"+
			"Type 'bingo join' within 5 minutes to enter.\n"+
			"The host starts the game with 'bingo start' (at least 2 players).",
		host)
}

func formatJoined(name string, participants []string) string {
	return fmt.Sprintf(
		"%s joined the bingo game!\nPlayers (%d): %s\nThe host can type 'bingo start' to begin.",
		name, len(participants), strings.Join(participants, ", "))
}

func (rt *Router) formatGameStarted(ctx context.Context, start *contest.GameStart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BINGO HAS STARTED! %d players are in.\n\n", len(start.Order))
	for _, id := range start.Order {
		fmt.Fprintf(&b, "%s's card:\n%s\n", rt.name(ctx, id), start.Cards[id])
	}
	b.WriteString("The host draws numbers with 'bingo draw'.\n")
	b.WriteString("Check your card with 'bingo card'. First completed line wins!")
	return b.String()
}

func (rt *Router) formatPlacements(ctx context.Context, winners []int64, places map[int][]int64, marked map[int64]int) string {
	var b strings.Builder
	names := make([]string, 0, len(winners))
	for _, id := range winners {
		names = append(names, rt.name(ctx, id))
	}
	fmt.Fprintf(&b, "1st place: %s\n", strings.Join(names, ", "))
	for place := 2; place <= 3; place++ {
		ids, ok := places[place]
		if !ok {
			continue
		}
		for _, id := range ids {
			fmt.Fprintf(&b, "%s place: %s (%d numbers marked)\n", ordinal(place), rt.name(ctx, id), marked[id])
		}
	}
	b.WriteString("Game over!")
	return b.String()
}

func (rt *Router) formatDraw(ctx context.Context, res *contest.DrawResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Number drawn: %d\nDrawn so far: %d of %d\n", res.Number, res.DrawnSoFar, contest.PoolSize)
	if !res.Finished {
		b.WriteString("Check your card with 'bingo card'!")
		return b.String()
	}
	b.WriteString("\nLINE COMPLETE!\n")
	b.WriteString(rt.formatPlacements(ctx, res.Winners, res.Places, res.Marked))
	return b.String()
}

func formatCardView(view *contest.CardView) string {
	var b strings.Builder
	b.WriteString("Your card:\n")
	b.WriteString(view.Card.Render(view.Drawn))
	fmt.Fprintf(&b, "Marked: %d of %d\n", view.Marked, view.Total)
	for _, line := range view.Lines {
		switch {
		case line.Marked == line.Total:
			fmt.Fprintf(&b, "Line %d: COMPLETE!\n", line.Row)
		case len(line.Remaining) == 1:
			fmt.Fprintf(&b, "Line %d: one number left (%d)\n", line.Row, line.Remaining[0])
		case len(line.Remaining) == 2:
			fmt.Fprintf(&b, "Line %d: two numbers left (%d, %d)\n", line.Row, line.Remaining[0], line.Remaining[1])
		default:
			fmt.Fprintf(&b, "Line %d: %d of %d marked\n", line.Row, line.Marked, line.Total)
		}
	}
	return b.String()
}

func formatDrawnNumbers(nums []int) string {
	if len(nums) == 0 {
		return "No numbers have been drawn yet."
	}
	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return fmt.Sprintf("Drawn numbers (%d):\n%s", len(nums), strings.Join(parts, " "))
}

func (rt *Router) formatStandings(ctx context.Context, rows []contest.StandingRow) string {
	var b strings.Builder
	b.WriteString("CURRENT STANDINGS:\n")
	for i, row := range rows {
		if row.Excluded {
			fmt.Fprintf(&b, "%d. %s: excluded for cheating\n", i+1, rt.name(ctx, row.UserID))
			continue
		}
		fmt.Fprintf(&b, "%d. %s: %d of %d numbers, %d %s complete\n",
			i+1, rt.name(ctx, row.UserID), row.Marked, row.Total,
			row.Lines, plural(row.Lines, "line", "lines"))
	}
	return b.String()
}

func (rt *Router) formatCheat(ctx context.Context, cheater string, res *contest.CheatResult) string {
	var b strings.Builder
	if res.Detected {
		fmt.Fprintf(&b, "CHEATER CAUGHT!\n%s tried to sneak number %d onto their card and was spotted!\n", cheater, res.Number)
		fmt.Fprintf(&b, "%s is excluded from the game.\n", cheater)
		switch {
		case res.DefaultWinner != nil:
			fmt.Fprintf(&b, "%s wins by default! Game over!", rt.name(ctx, *res.DefaultWinner))
		case res.AllExcluded:
			b.WriteString("Everyone has been excluded. Game over!")
		default:
			b.WriteString("The game goes on.")
		}
		return b.String()
	}
	fmt.Fprintf(&b, "%s quietly marked number %d... nobody noticed a thing.\n", cheater, res.Number)
	if res.WonByCheat {
		b.WriteString("\nLINE COMPLETE!\n")
		b.WriteString(rt.formatPlacements(ctx, res.Winners, res.Places, res.Marked))
	}
	return b.String()
}

func formatLotteryCreated(admin string) string {
	return fmt.Sprintf(
		"Lottery created! Admin: %s\n"+
			"The admin issues tickets with 'lottery tickets <user> <count>'.\n"+
			"'lottery my' shows your tickets, 'lottery list' all participants.\n"+
			"'lottery draw' picks the winners, 'lottery stop' cancels.",
		admin)
}

func formatTicketsIssued(admin, owner string, batch []int, sum contest.LotterySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s issued %d %s to %s!\n", admin, len(batch), plural(len(batch), "ticket", "tickets"), owner)
	for _, t := range batch {
		fmt.Fprintf(&b, "#%06d\n", t)
	}
	if sum.RPMode {
		fmt.Fprintf(&b, "Ticket price: %d gold. Prize pool: %d gold.", sum.TicketPrice, sum.PrizePool)
	}
	return b.String()
}

func formatMyTickets(name string, tickets []int, sum contest.LotterySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, your tickets (%d):\n", name, len(tickets))
	for _, t := range tickets {
		fmt.Fprintf(&b, "#%06d\n", t)
	}
	fmt.Fprintf(&b, "Tickets in play: %d", sum.TotalTickets)
	if sum.RPMode {
		fmt.Fprintf(&b, "\nPrize pool: %d gold", sum.PrizePool)
	}
	return b.String()
}

func (rt *Router) formatParticipants(ctx context.Context, rows []contest.ParticipantRow, sum contest.LotterySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "LOTTERY PARTICIPANTS (%d):\n", len(rows))
	for i, row := range rows {
		fmt.Fprintf(&b, "%d. %s: %d %s (%.1f%% chance)\n",
			i+1, rt.name(ctx, row.UserID), row.Tickets,
			plural(row.Tickets, "ticket", "tickets"), row.Chance*100)
	}
	fmt.Fprintf(&b, "Tickets in play: %d\n", sum.TotalTickets)
	if sum.RPMode {
		fmt.Fprintf(&b, "Prize pool: %d gold\n", sum.PrizePool)
	}
	fmt.Fprintf(&b, "Admin: %s", rt.name(ctx, sum.AdminID))
	return b.String()
}

func (rt *Router) formatLotteryResults(ctx context.Context, out *contest.DrawOutcome) string {
	var b strings.Builder
	b.WriteString("LOTTERY RESULTS!\n\n")
	for _, win := range out.Wins {
		fmt.Fprintf(&b, "%s place: %s with ticket #%06d", ordinal(win.Place), rt.name(ctx, win.Owner), win.Ticket)
		if out.RPMode {
			fmt.Fprintf(&b, ", prize %d gold", win.Prize)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nTickets in play: %d", out.TotalTickets)
	if out.RPMode {
		fmt.Fprintf(&b, "\nPrize pool: %d gold", out.PrizePool)
	}
	b.WriteString("\nCongratulations to the winners!")
	return b.String()
}

func formatLotteryStopped(admin string, stats *contest.StopStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The lottery was stopped by %s without a draw.\n", admin)
	fmt.Fprintf(&b, "Participants: %d, tickets issued: %d", stats.Participants, stats.TotalTickets)
	if stats.RPMode {
		fmt.Fprintf(&b, ", prize pool: %d gold", stats.PrizePool)
	}
	return b.String()
}

func formatRPMode(name string, enabled bool) string {
	if enabled {
		return fmt.Sprintf(
			"%s enabled roleplay mode!\n"+
				"Tickets now cost %d gold each and the pool is paid out to the winners.\n"+
				"Change the price with 'lottery price <number>'.",
			name, contest.DefaultTicketPrice)
	}
	return fmt.Sprintf("%s disabled roleplay mode. Lotteries run without gold again.", name)
}

func formatPriceSet(name string, price int) string {
	return fmt.Sprintf("%s set the ticket price to %d gold.", name, price)
}

func formatWinnerCountSet(name string, count int) string {
	return fmt.Sprintf("%s set the number of prize places to %d.", name, count)
}

func (rt *Router) formatStaff(ctx context.Context, staff roles.Staff) string {
	var b strings.Builder
	b.WriteString("CHAT STAFF:\n")
	if staff.Creator != nil {
		fmt.Fprintf(&b, "Creator: %s\n", rt.name(ctx, *staff.Creator))
	} else {
		b.WriteString("Creator: not claimed ('claim creator' to take it)\n")
	}
	if len(staff.Admins) > 0 {
		names := make([]string, 0, len(staff.Admins))
		for _, id := range staff.Admins {
			names = append(names, rt.name(ctx, id))
		}
		fmt.Fprintf(&b, "Admins: %s\n", strings.Join(names, ", "))
	}
	if len(staff.Moderators) > 0 {
		names := make([]string, 0, len(staff.Moderators))
		for _, id := range staff.Moderators {
			names = append(names, rt.name(ctx, id))
		}
		fmt.Fprintf(&b, "Moderators: %s\n", strings.Join(names, ", "))
	}
	if len(staff.Admins) == 0 && len(staff.Moderators) == 0 {
		b.WriteString("No admins or moderators yet.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRights(name string, level roles.Role) string {
	switch level {
	case roles.RoleCreator:
		return name + " is the chat creator: full control over games, lotteries and staff."
	case roles.RoleAdmin:
		return name + " is an admin: can create lotteries, set winner counts and manage moderators."
	case roles.RoleModerator:
		return name + " is a moderator: can force-stop games."
	default:
		return name + " is a regular member with no special rights."
	}
}

// internal/contest/draw_test.go
package contest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawPoolExhaustsWithoutRepeats(t *testing.T) {
	pool := NewDrawPool()
	src := NewSource(42)

	seen := make(map[int]bool)
	for i := 0; i < PoolSize; i++ {
		require.Equal(t, PoolSize-i, pool.Remaining())
		n, err := pool.Draw(src)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, PoolSize)
		require.False(t, seen[n], "number %d drawn twice", n)
		seen[n] = true
	}

	assert.Equal(t, 0, pool.Remaining())
	_, err := pool.Draw(src)
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestDrawPlacesRemovesWinnerTickets(t *testing.T) {
	entries := []TicketEntry{
		{Ticket: 100001, Owner: 1},
		{Ticket: 100002, Owner: 1},
		{Ticket: 100003, Owner: 1},
		{Ticket: 100004, Owner: 2},
		{Ticket: 100005, Owner: 3},
	}

	for seed := int64(0); seed < 50; seed++ {
		wins := DrawPlaces(NewSource(seed), entries, 3)
		require.Len(t, wins, 3, "seed %d", seed)

		owners := make(map[int64]bool)
		for i, w := range wins {
			assert.Equal(t, i+1, w.Place)
			require.False(t, owners[w.Owner], "seed %d: owner %d won twice", seed, w.Owner)
			owners[w.Owner] = true
		}
	}
}

func TestDrawPlacesFewerOwnersThanPlaces(t *testing.T) {
	entries := []TicketEntry{
		{Ticket: 100001, Owner: 1},
		{Ticket: 100002, Owner: 2},
	}
	wins := DrawPlaces(NewSource(1), entries, 5)
	assert.Len(t, wins, 2)
}

// TestDrawPlacesWeighting checks that win probability tracks ticket count:
// an owner holding 8 of 10 tickets should take first place close to 80%
// of the time.
func TestDrawPlacesWeighting(t *testing.T) {
	var entries []TicketEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, TicketEntry{Ticket: 100000 + i, Owner: 1})
	}
	entries = append(entries,
		TicketEntry{Ticket: 200001, Owner: 2},
		TicketEntry{Ticket: 200002, Owner: 3},
	)

	const trials = 5000
	firstPlaceWins := 0
	for seed := int64(0); seed < trials; seed++ {
		wins := DrawPlaces(NewSource(seed), entries, 1)
		require.Len(t, wins, 1)
		if wins[0].Owner == 1 {
			firstPlaceWins++
		}
	}

	ratio := float64(firstPlaceWins) / float64(trials)
	assert.InDelta(t, 0.8, ratio, 0.03)
}

func TestIssueTicketAvoidsCollisions(t *testing.T) {
	src := NewSource(5)
	used := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		n := IssueTicket(src, used)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
		require.False(t, used[n])
		used[n] = true
	}
}

// internal/contest/ranking_test.go
package contest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineWinnersSkipsExcluded(t *testing.T) {
	cardA := GenerateCard(NewSource(1))
	cardB := GenerateCard(NewSource(2))

	drawn := make(map[int]bool)
	for _, v := range cardA.RowValues(0) {
		drawn[v] = true
	}
	for _, v := range cardB.RowValues(0) {
		drawn[v] = true
	}

	cards := map[int64]Card{10: cardA, 20: cardB}

	winners := LineWinners(cards, drawn, nil)
	assert.Equal(t, []int64{10, 20}, winners)

	winners = LineWinners(cards, drawn, map[int64]bool{10: true})
	assert.Equal(t, []int64{20}, winners)
}

func TestRunnerUpPlaces(t *testing.T) {
	marked := map[int64]int{1: 5, 2: 4, 3: 3, 4: 2}
	places := RunnerUpPlaces(marked, []int64{1}, nil)

	assert.Equal(t, []int64{2}, places[2])
	assert.Equal(t, []int64{3}, places[3])
	assert.NotContains(t, places, 4)
}

// A two-way tie for 2nd place consumes the 3rd-place slot.
func TestRunnerUpPlacesTieInflation(t *testing.T) {
	marked := map[int64]int{1: 5, 2: 4, 3: 4, 4: 3}
	places := RunnerUpPlaces(marked, []int64{1}, nil)

	assert.ElementsMatch(t, []int64{2, 3}, places[2])
	assert.NotContains(t, places, 3)
	assert.NotContains(t, places, 4)
}

func TestRunnerUpPlacesSkipsExcluded(t *testing.T) {
	marked := map[int64]int{1: 5, 2: 4, 3: 3}
	places := RunnerUpPlaces(marked, []int64{1}, map[int64]bool{2: true})

	assert.Equal(t, []int64{3}, places[2])
	assert.NotContains(t, places, 3)
}

func TestPrizeShares(t *testing.T) {
	assert.Nil(t, PrizeShares(0))
	assert.Equal(t, []float64{1.0}, PrizeShares(1))
	assert.Equal(t, []float64{0.7, 0.3}, PrizeShares(2))
	assert.Equal(t, []float64{0.6, 0.3, 0.1}, PrizeShares(3))

	for places := 4; places <= MaxWinnerCount; places++ {
		shares := PrizeShares(places)
		require.Len(t, shares, places)
		assert.Equal(t, 0.4, shares[0])

		sum := 0.0
		for _, s := range shares {
			sum += s
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "places=%d", places)
	}
}

func TestPrizeAmountsTruncate(t *testing.T) {
	amounts := PrizeAmounts(1000, 3)
	assert.Equal(t, []int{600, 300, 100}, amounts)

	// Shares truncate per place, so the sum never exceeds the pool.
	pool := 999
	amounts = PrizeAmounts(pool, 4)
	sum := 0
	for _, a := range amounts {
		sum += a
	}
	assert.LessOrEqual(t, sum, pool)
	assert.Equal(t, int(float64(pool)*0.4), amounts[0])
}

// internal/contest/ranking.go
package contest

import "sort"

// LineWinners returns every non-excluded participant whose card has at
// least one fully marked row. Results are sorted by participant id so the
// announcement order is stable.
func LineWinners(cards map[int64]Card, drawn map[int]bool, excluded map[int64]bool) []int64 {
	var winners []int64
	for id, card := range cards {
		if excluded[id] {
			continue
		}
		if card.HasLine(drawn) {
			winners = append(winners, id)
		}
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i] < winners[j] })
	return winners
}

// RunnerUpPlaces ranks the remaining participants into 2nd and 3rd place
// by descending marked-number count. Participants tied at the same count
// share a place, and the next distinct place is offset by the size of the
// tied group: a two-way tie for 2nd consumes the 3rd-place slot, so no 3rd
// place is reported. Only places 2 and 3 are ever materialized.
func RunnerUpPlaces(marked map[int64]int, winners []int64, excluded map[int64]bool) map[int][]int64 {
	skip := make(map[int64]bool, len(winners))
	for _, w := range winners {
		skip[w] = true
	}

	type entry struct {
		id     int64
		marked int
	}
	var rest []entry
	for id, m := range marked {
		if skip[id] || excluded[id] {
			continue
		}
		rest = append(rest, entry{id, m})
	}
	sort.Slice(rest, func(i, j int) bool {
		if rest[i].marked != rest[j].marked {
			return rest[i].marked > rest[j].marked
		}
		return rest[i].id < rest[j].id
	})

	places := make(map[int][]int64)
	place := 2
	for i := 0; i < len(rest) && place <= 3; {
		group := []int64{rest[i].id}
		score := rest[i].marked
		i++
		for i < len(rest) && rest[i].marked == score {
			group = append(group, rest[i].id)
			i++
		}
		places[place] = group
		place += len(group)
	}
	return places
}

// PrizeShares returns the fraction of the prize pool per place for the
// given number of prize places: 1 place takes everything, 2 split 70/30,
// 3 split 60/30/10, and for 4 or more the first place takes 40% with the
// remaining 60% divided evenly across the rest.
func PrizeShares(places int) []float64 {
	switch {
	case places <= 0:
		return nil
	case places == 1:
		return []float64{1.0}
	case places == 2:
		return []float64{0.7, 0.3}
	case places == 3:
		return []float64{0.6, 0.3, 0.1}
	default:
		shares := make([]float64, places)
		shares[0] = 0.4
		rest := 0.6 / float64(places-1)
		for i := 1; i < places; i++ {
			shares[i] = rest
		}
		return shares
	}
}

// PrizeAmounts converts the prize pool into per-place integer prizes,
// truncating each share.
func PrizeAmounts(pool, places int) []int {
	shares := PrizeShares(places)
	out := make([]int, len(shares))
	for i, s := range shares {
		out[i] = int(float64(pool) * s)
	}
	return out
}

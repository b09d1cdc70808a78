package draft

import (
	"sort"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

// RefineResult reports the improved assignment together with the number of
// applied swaps and the final spread, both exposed for observability.
type RefineResult struct {
	Assignment map[string]int
	Iterations int
	Spread     float64
}

// Refine runs a bounded greedy local search over the builder's output: each
// pass evaluates every legal pairwise swap between the highest- and
// lowest-scoring teams and applies the one with the largest strict spread
// reduction. Pinned participants and reserves are never candidates, and no
// swap may break a separation pair or strip a team of its only goalkeeper
// while the per-team policy is on. The pass count is capped so runtime stays
// bounded; once the search converges a second run performs zero swaps.
func Refine(pool []participant.Participant, cs ConstraintSet, assignment map[string]int) RefineResult {
	weights := cs.Weights()
	scores := make(map[string]float64, len(pool))
	isGK := make(map[string]bool, len(pool))
	for _, p := range pool {
		scores[p.ID] = Score(p, weights)
		isGK[p.ID] = p.Position == participant.PositionGoalkeeper
	}

	work := make(map[string]int, len(assignment))
	for id, team := range assignment {
		work[id] = team
	}

	n := cs.TeamCount()
	members := make([][]string, n)
	gkCounts := make([]int, n)
	for id, team := range work {
		members[team] = append(members[team], id)
		if isGK[id] {
			gkCounts[team]++
		}
	}
	for team := range members {
		sort.Strings(members[team])
	}

	// Totals are summed in pool order so identical input yields bit-identical
	// floats on every run.
	totals := teamTotals(pool, scores, work, n)

	iterations := 0
	for iterations < cs.RefineIterationCap() {
		hi, lo := extremeTeams(totals)
		spread := totals[hi] - totals[lo]
		if hi == lo || spread <= 0 {
			break
		}

		a, b, improved := bestSwap(cs, scores, isGK, members, totals, gkCounts, hi, lo)
		if !improved {
			break
		}

		applySwap(work, scores, isGK, members, totals, gkCounts, hi, a, lo, b)
		iterations++
	}

	// Recompute from scratch so the reported spread matches what anyone
	// summing the final assignment would get, free of incremental drift.
	totals = teamTotals(pool, scores, work, n)
	hi, lo := extremeTeams(totals)
	finalSpread := 0.0
	if hi != lo {
		finalSpread = totals[hi] - totals[lo]
	}

	return RefineResult{Assignment: work, Iterations: iterations, Spread: finalSpread}
}

func teamTotals(pool []participant.Participant, scores map[string]float64, assignment map[string]int, n int) []float64 {
	totals := make([]float64, n)
	for _, p := range pool {
		if team, ok := assignment[p.ID]; ok {
			totals[team] += scores[p.ID]
		}
	}

	return totals
}

// extremeTeams returns the indices of the highest- and lowest-scoring teams,
// lowest index winning ties so runs stay reproducible.
func extremeTeams(totals []float64) (hi, lo int) {
	for team := 1; team < len(totals); team++ {
		if totals[team] > totals[hi] {
			hi = team
		}
		if totals[team] < totals[lo] {
			lo = team
		}
	}

	return hi, lo
}

// bestSwap evaluates every candidate pair between the two extreme teams and
// returns the swap with the largest strict spread reduction. Candidates are
// enumerated in ID order so equal reductions resolve the same way every run.
func bestSwap(
	cs ConstraintSet,
	scores map[string]float64,
	isGK map[string]bool,
	members [][]string,
	totals []float64,
	gkCounts []int,
	hi, lo int,
) (string, string, bool) {
	spread := currentSpread(totals)

	bestA, bestB := "", ""
	bestSpread := spread
	for _, a := range members[hi] {
		if _, pinned := cs.PinnedTeam(a); pinned {
			continue
		}
		for _, b := range members[lo] {
			if _, pinned := cs.PinnedTeam(b); pinned {
				continue
			}
			if !swapKeepsGoalkeepers(cs, isGK, gkCounts, hi, a, lo, b) {
				continue
			}
			if !swapKeepsSeparations(cs, members, hi, a, lo, b) {
				continue
			}

			delta := scores[a] - scores[b]
			newSpread := spreadAfter(totals, hi, totals[hi]-delta, lo, totals[lo]+delta)
			if newSpread < bestSpread {
				bestSpread = newSpread
				bestA, bestB = a, b
			}
		}
	}

	return bestA, bestB, bestA != ""
}

func currentSpread(totals []float64) float64 {
	hi, lo := extremeTeams(totals)
	return totals[hi] - totals[lo]
}

// spreadAfter computes the global spread with two team totals replaced.
func spreadAfter(totals []float64, teamA int, totalA float64, teamB int, totalB float64) float64 {
	maxTotal, minTotal := totalA, totalA
	consider := func(v float64) {
		if v > maxTotal {
			maxTotal = v
		}
		if v < minTotal {
			minTotal = v
		}
	}
	consider(totalB)
	for team, total := range totals {
		if team == teamA || team == teamB {
			continue
		}
		consider(total)
	}

	return maxTotal - minTotal
}

func swapKeepsGoalkeepers(cs ConstraintSet, isGK map[string]bool, gkCounts []int, hi int, a string, lo int, b string) bool {
	if !cs.RequireGoalkeeperPerTeam() {
		return true
	}

	hiAfter := gkCounts[hi] - boolToInt(isGK[a]) + boolToInt(isGK[b])
	loAfter := gkCounts[lo] - boolToInt(isGK[b]) + boolToInt(isGK[a])
	if gkCounts[hi] > 0 && hiAfter == 0 {
		return false
	}
	if gkCounts[lo] > 0 && loAfter == 0 {
		return false
	}

	return true
}

func swapKeepsSeparations(cs ConstraintSet, members [][]string, hi int, a string, lo int, b string) bool {
	for _, teammate := range members[hi] {
		if teammate == a {
			continue
		}
		if cs.Separated(b, teammate) {
			return false
		}
	}
	for _, teammate := range members[lo] {
		if teammate == b {
			continue
		}
		if cs.Separated(a, teammate) {
			return false
		}
	}

	return true
}

func applySwap(
	assignment map[string]int,
	scores map[string]float64,
	isGK map[string]bool,
	members [][]string,
	totals []float64,
	gkCounts []int,
	hi int, a string,
	lo int, b string,
) {
	assignment[a] = lo
	assignment[b] = hi

	members[hi] = replaceMember(members[hi], a, b)
	members[lo] = replaceMember(members[lo], b, a)
	sort.Strings(members[hi])
	sort.Strings(members[lo])

	delta := scores[a] - scores[b]
	totals[hi] -= delta
	totals[lo] += delta

	gkDelta := boolToInt(isGK[a]) - boolToInt(isGK[b])
	gkCounts[hi] -= gkDelta
	gkCounts[lo] += gkDelta
}

func replaceMember(ids []string, leaving, joining string) []string {
	for i, id := range ids {
		if id == leaving {
			ids[i] = joining
			break
		}
	}

	return ids
}

func boolToInt(v bool) int {
	if v {
		return 1
	}

	return 0
}

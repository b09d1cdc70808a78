package draft

import (
	"fmt"
	"testing"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

// testPool builds a deterministic pool with the given position spread. IDs
// are p01, p02, ... in declaration order and skill descends with the index so
// every participant has a distinct score.
func testPool(t *testing.T, counts map[participant.Position]int) []participant.Participant {
	t.Helper()

	order := []participant.Position{
		participant.PositionGoalkeeper,
		participant.PositionDefender,
		participant.PositionMidfielder,
		participant.PositionForward,
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	pool := make([]participant.Participant, 0, total)
	i := 0
	for _, pos := range order {
		for range counts[pos] {
			i++
			skill := 1 - float64(i)/float64(total+1)
			pool = append(pool, participant.Participant{
				ID:              fmt.Sprintf("p%02d", i),
				TenantID:        "tenant-1",
				Name:            fmt.Sprintf("Player %02d", i),
				Position:        pos,
				RankingPoints:   skill,
				WinRate:         skill,
				GoalsPerMatch:   skill,
				AssistsPerMatch: skill,
				StarRating:      1 + i%5,
			})
		}
	}

	return pool
}

func mustConstraints(t *testing.T, input ConstraintSetInput, pool []participant.Participant) ConstraintSet {
	t.Helper()

	cs, err := NewConstraintSet(input, pool)
	if err != nil {
		t.Fatalf("build constraint set: %v", err)
	}

	return cs
}

func teamSizes(assignment map[string]int, teamCount int) []int {
	sizes := make([]int, teamCount)
	for _, team := range assignment {
		sizes[team]++
	}

	return sizes
}

func goalkeepersPerTeam(pool []participant.Participant, assignment map[string]int, teamCount int) []int {
	byID := make(map[string]participant.Participant, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}

	counts := make([]int, teamCount)
	for id, team := range assignment {
		if byID[id].Position == participant.PositionGoalkeeper {
			counts[team]++
		}
	}

	return counts
}

package draft

import (
	"reflect"
	"testing"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

func buildSpread(pool []participant.Participant, cs ConstraintSet, assignment map[string]int) float64 {
	weights := cs.Weights()
	totals := make([]float64, cs.TeamCount())
	for _, p := range pool {
		if team, ok := assignment[p.ID]; ok {
			totals[team] += Score(p, weights)
		}
	}

	hi, lo := extremeTeams(totals)
	return totals[hi] - totals[lo]
}

func TestRefine_NeverIncreasesSpread(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{
		participant.PositionGoalkeeper: 2,
		participant.PositionDefender:   6,
		participant.PositionMidfielder: 6,
		participant.PositionForward:    6,
	})

	cs := mustConstraints(t, ConstraintSetInput{
		TeamCount:                4,
		TeamSize:                 5,
		RequireGoalkeeperPerTeam: true,
	}, pool)

	built := Build(pool, cs)
	before := buildSpread(pool, cs, built.Assignment)

	refined := Refine(pool, cs, built.Assignment)
	if refined.Spread > before {
		t.Fatalf("refiner increased spread: %f -> %f", before, refined.Spread)
	}
	if got := buildSpread(pool, cs, refined.Assignment); got != refined.Spread {
		t.Fatalf("reported spread %f does not match assignment spread %f", refined.Spread, got)
	}
}

func TestRefine_ImprovesLopsidedAssignment(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{participant.PositionMidfielder: 8})
	cs := mustConstraints(t, ConstraintSetInput{TeamCount: 2, TeamSize: 4}, pool)

	// Worst case: the four strongest on team 0, the four weakest on team 1.
	lopsided := map[string]int{
		"p01": 0, "p02": 0, "p03": 0, "p04": 0,
		"p05": 1, "p06": 1, "p07": 1, "p08": 1,
	}
	before := buildSpread(pool, cs, lopsided)

	refined := Refine(pool, cs, lopsided)
	if refined.Iterations == 0 {
		t.Fatal("expected at least one improving swap")
	}
	if refined.Spread >= before {
		t.Fatalf("expected spread below %f, got %f", before, refined.Spread)
	}
	// Input snapshot must stay untouched.
	if lopsided["p01"] != 0 || lopsided["p08"] != 1 {
		t.Fatal("refiner mutated the caller's assignment")
	}
}

func TestRefine_ConvergedRunIsIdempotent(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{
		participant.PositionDefender:   6,
		participant.PositionMidfielder: 6,
	})
	cs := mustConstraints(t, ConstraintSetInput{TeamCount: 3, TeamSize: 4}, pool)

	first := Refine(pool, cs, Build(pool, cs).Assignment)
	second := Refine(pool, cs, first.Assignment)

	if second.Iterations != 0 {
		t.Fatalf("second run performed %d swaps, want 0", second.Iterations)
	}
	if !reflect.DeepEqual(first.Assignment, second.Assignment) {
		t.Fatal("second run changed a converged assignment")
	}
	if second.Spread != first.Spread {
		t.Fatalf("spread drifted between runs: %f -> %f", first.Spread, second.Spread)
	}
}

func TestRefine_RespectsPinsAndSeparations(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{participant.PositionMidfielder: 8})
	cs := mustConstraints(t, ConstraintSetInput{
		TeamCount:       2,
		TeamSize:        4,
		SeparationPairs: []Pair{{A: "p02", B: "p05"}},
		Pins:            []Pin{{ParticipantID: "p01", Team: 0}},
	}, pool)

	lopsided := map[string]int{
		"p01": 0, "p02": 0, "p03": 0, "p04": 0,
		"p05": 1, "p06": 1, "p07": 1, "p08": 1,
	}

	refined := Refine(pool, cs, lopsided)
	if refined.Assignment["p01"] != 0 {
		t.Fatal("refiner moved a pinned participant")
	}
	if refined.Assignment["p02"] == refined.Assignment["p05"] {
		t.Fatal("refiner put a separated pair on the same team")
	}
}

func TestRefine_RespectsGoalkeeperPolicy(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{
		participant.PositionGoalkeeper: 2,
		participant.PositionMidfielder: 6,
	})
	cs := mustConstraints(t, ConstraintSetInput{
		TeamCount:                2,
		TeamSize:                 4,
		RequireGoalkeeperPerTeam: true,
	}, pool)

	// Both goalkeepers are the strongest participants; a naive refiner would
	// trade one away to balance scores.
	assignment := map[string]int{
		"p01": 0, "p03": 0, "p04": 0, "p05": 0,
		"p02": 1, "p06": 1, "p07": 1, "p08": 1,
	}

	refined := Refine(pool, cs, assignment)
	for team, gks := range goalkeepersPerTeam(pool, refined.Assignment, 2) {
		if gks != 1 {
			t.Fatalf("team %d ended with %d goalkeepers, want 1", team, gks)
		}
	}
}

func TestRefine_HonorsIterationCap(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{participant.PositionMidfielder: 12})
	cs := mustConstraints(t, ConstraintSetInput{
		TeamCount:           3,
		TeamSize:            4,
		MaxRefineIterations: 1,
	}, pool)

	lopsided := map[string]int{
		"p01": 0, "p02": 0, "p03": 0, "p04": 0,
		"p05": 1, "p06": 1, "p07": 1, "p08": 1,
		"p09": 2, "p10": 2, "p11": 2, "p12": 2,
	}

	refined := Refine(pool, cs, lopsided)
	if refined.Iterations > 1 {
		t.Fatalf("iteration cap ignored: %d swaps", refined.Iterations)
	}
}

func TestRefine_Deterministic(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{
		participant.PositionGoalkeeper: 2,
		participant.PositionDefender:   6,
		participant.PositionMidfielder: 6,
		participant.PositionForward:    6,
	})
	cs := mustConstraints(t, ConstraintSetInput{
		TeamCount:                4,
		TeamSize:                 5,
		RequireGoalkeeperPerTeam: true,
	}, pool)

	built := Build(pool, cs)
	first := Refine(pool, cs, built.Assignment)
	for range 10 {
		again := Refine(pool, cs, built.Assignment)
		if !reflect.DeepEqual(first.Assignment, again.Assignment) {
			t.Fatal("refined assignment differs between identical runs")
		}
		if again.Iterations != first.Iterations || again.Spread != first.Spread {
			t.Fatal("refiner observability output differs between identical runs")
		}
	}
}

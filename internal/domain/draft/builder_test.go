package draft

import (
	"reflect"
	"testing"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

func TestBuild_FullSessionWithGoalkeeperPolicy(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{
		participant.PositionGoalkeeper: 4,
		participant.PositionDefender:   6,
		participant.PositionMidfielder: 5,
		participant.PositionForward:    5,
	})

	cs := mustConstraints(t, ConstraintSetInput{
		TeamCount:                4,
		TeamSize:                 5,
		RequireGoalkeeperPerTeam: true,
		SeparationPairs:          []Pair{{A: "p03", B: "p07"}},
	}, pool)

	result := Build(pool, cs)

	if len(result.Reserves) != 0 {
		t.Fatalf("expected zero reserves, got %v", result.Reserves)
	}
	for team, size := range teamSizes(result.Assignment, 4) {
		if size != 5 {
			t.Fatalf("team %d has %d participants, want 5", team, size)
		}
	}
	for team, gks := range goalkeepersPerTeam(pool, result.Assignment, 4) {
		if gks != 1 {
			t.Fatalf("team %d has %d goalkeepers, want exactly 1", team, gks)
		}
	}
	if result.Assignment["p03"] == result.Assignment["p07"] {
		t.Fatalf("separated pair landed on the same team %d", result.Assignment["p03"])
	}
}

func TestBuild_TwoGoalkeepersLandOnDifferentTeams(t *testing.T) {
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

	result := Build(pool, cs)
	if len(result.Reserves) != 0 {
		t.Fatalf("expected zero reserves, got %v", result.Reserves)
	}

	// Two goalkeepers cannot cover four teams, but they must never cluster.
	for team, gks := range goalkeepersPerTeam(pool, result.Assignment, 4) {
		if gks > 1 {
			t.Fatalf("team %d hoards %d goalkeepers", team, gks)
		}
	}
}

func TestBuild_SurplusBecomesReserves(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{
		participant.PositionGoalkeeper: 2,
		participant.PositionDefender:   6,
		participant.PositionMidfielder: 6,
		participant.PositionForward:    6,
	})

	// Capacity 19 < 20 participants: one reserve, never an error.
	cs := mustConstraints(t, ConstraintSetInput{TeamCount: 19, TeamSize: 1}, pool)

	result := Build(pool, cs)
	if len(result.Assignment) != 19 {
		t.Fatalf("expected 19 assigned, got %d", len(result.Assignment))
	}
	if len(result.Reserves) != 1 {
		t.Fatalf("expected exactly one reserve, got %v", result.Reserves)
	}
	if _, assigned := result.Assignment[result.Reserves[0]]; assigned {
		t.Fatalf("reserve %s must not appear in the assignment", result.Reserves[0])
	}
}

func TestBuild_PinsAreHonored(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{
		participant.PositionDefender:   4,
		participant.PositionMidfielder: 4,
	})

	cs := mustConstraints(t, ConstraintSetInput{
		TeamCount: 2,
		TeamSize:  4,
		Pins: []Pin{
			{ParticipantID: "p01", Team: 1},
			{ParticipantID: "p08", Team: 1},
		},
	}, pool)

	result := Build(pool, cs)
	if result.Assignment["p01"] != 1 || result.Assignment["p08"] != 1 {
		t.Fatalf("pins not honored: p01=%d p08=%d", result.Assignment["p01"], result.Assignment["p08"])
	}
	for team, size := range teamSizes(result.Assignment, 2) {
		if size != 4 {
			t.Fatalf("team %d has %d participants, want 4", team, size)
		}
	}
}

func TestBuild_SeparationOverflowDegradesToReserve(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{participant.PositionDefender: 4})

	// p01 conflicts with everyone, so once the other three fill the two
	// 2-slot teams in some order, any leftover conflicting slot must turn
	// p01 into a reserve instead of failing the draft. With p01 drafted
	// first it lands somewhere; pin the conflicts to force the corner.
	cs := mustConstraints(t, ConstraintSetInput{
		TeamCount: 2,
		TeamSize:  2,
		SeparationPairs: []Pair{
			{A: "p01", B: "p02"},
			{A: "p01", B: "p03"},
			{A: "p01", B: "p04"},
		},
		Pins: []Pin{
			{ParticipantID: "p02", Team: 0},
			{ParticipantID: "p03", Team: 1},
		},
	}, pool)

	result := Build(pool, cs)
	if len(result.Reserves) != 1 || result.Reserves[0] != "p01" {
		t.Fatalf("expected p01 as the only reserve, got %v", result.Reserves)
	}
	if len(result.Assignment) != 3 {
		t.Fatalf("expected 3 assigned participants, got %d", len(result.Assignment))
	}
}

func TestBuild_Deterministic(t *testing.T) {
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
		SeparationPairs:          []Pair{{A: "p03", B: "p07"}},
	}, pool)

	first := Build(pool, cs)
	for range 10 {
		again := Build(pool, cs)
		if !reflect.DeepEqual(first.Assignment, again.Assignment) {
			t.Fatal("assignment differs between identical runs")
		}
		if !reflect.DeepEqual(first.Reserves, again.Reserves) {
			t.Fatal("reserves differ between identical runs")
		}
	}
}

func TestBuild_SpreadsSkillAcrossTeams(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{participant.PositionMidfielder: 8})

	cs := mustConstraints(t, ConstraintSetInput{TeamCount: 2, TeamSize: 4}, pool)
	result := Build(pool, cs)

	// Snake order over a score-sorted group: the top two picks must not end
	// up together.
	if result.Assignment["p01"] == result.Assignment["p02"] {
		t.Fatal("top two participants clustered on one team")
	}
}

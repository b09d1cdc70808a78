package draft

import (
	"math"
	"testing"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

func TestScore_EqualWeightsAverageInputs(t *testing.T) {
	p := participant.Participant{
		ID:              "p1",
		RankingPoints:   1,
		WinRate:         1,
		GoalsPerMatch:   1,
		AssistsPerMatch: 1,
		StarRating:      5,
	}

	got := Score(p, DefaultScoreWeights())
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected perfect score 1, got %f", got)
	}

	zero := Score(participant.Participant{ID: "p2"}, DefaultScoreWeights())
	if zero != 0 {
		t.Fatalf("expected zero score for empty history, got %f", zero)
	}
}

func TestScore_ClampsMalformedInputs(t *testing.T) {
	p := participant.Participant{
		ID:              "p1",
		RankingPoints:   math.NaN(),
		WinRate:         -3,
		GoalsPerMatch:   7,
		AssistsPerMatch: math.NaN(),
		StarRating:      9,
	}

	got := Score(p, DefaultScoreWeights())
	// NaN and negatives clamp to 0, overshoots clamp to their max:
	// goals=1, stars=5/5 -> 0.2 + 0.2 = 0.4 under equal weights.
	if math.Abs(got-0.4) > 1e-9 {
		t.Fatalf("expected clamped score 0.4, got %f", got)
	}
	if math.IsNaN(got) {
		t.Fatal("score must never be NaN")
	}
}

func TestScore_WeightEmphasis(t *testing.T) {
	veteran := participant.Participant{ID: "vet", WinRate: 0.9, StarRating: 1}
	rookie := participant.Participant{ID: "rook", WinRate: 0.1, StarRating: 5}

	starsOnly := ScoreWeights{Stars: 1}
	if Score(rookie, starsOnly) <= Score(veteran, starsOnly) {
		t.Fatal("stars-only weights must favor the higher star rating")
	}

	historyOnly := ScoreWeights{WinRate: 1}
	if Score(veteran, historyOnly) <= Score(rookie, historyOnly) {
		t.Fatal("history-only weights must favor the higher win rate")
	}
}

func TestScore_Deterministic(t *testing.T) {
	p := participant.Participant{
		ID:              "p1",
		RankingPoints:   0.31,
		WinRate:         0.62,
		GoalsPerMatch:   0.12,
		AssistsPerMatch: 0.48,
		StarRating:      3,
	}

	first := Score(p, DefaultScoreWeights())
	for range 100 {
		if Score(p, DefaultScoreWeights()) != first {
			t.Fatal("score must be identical for identical input")
		}
	}
}

func TestTierOf(t *testing.T) {
	cases := []struct {
		score float64
		want  int
	}{
		{0, 1},
		{0.19, 1},
		{0.2, 2},
		{0.45, 3},
		{0.6, 4},
		{0.99, 5},
		{1, 5},
	}

	for _, tc := range cases {
		if got := TierOf(tc.score); got != tc.want {
			t.Fatalf("TierOf(%f) = %d, want %d", tc.score, got, tc.want)
		}
	}
}

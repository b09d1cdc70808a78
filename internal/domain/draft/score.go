package draft

import "github.com/racha-hq/racha-manager/internal/domain/participant"

// Score maps a participant to a single comparable skill value in [0,1].
// Inputs are assumed normalized (participant.Normalize runs at ingestion);
// identical input always yields an identical score, ties are broken by
// participant ID wherever ordering matters.
func Score(p participant.Participant, w ScoreWeights) float64 {
	p = p.Normalize()

	score := w.Ranking*p.RankingPoints +
		w.WinRate*p.WinRate +
		w.Goals*p.GoalsPerMatch +
		w.Assists*p.AssistsPerMatch +
		w.Stars*(float64(p.StarRating)/5)

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}

	return score
}

// TierOf buckets a score into 1..5, tier 5 being the strongest. Tiers show
// up in admin-facing summaries and keep bucket ordering stable when scores
// are close.
func TierOf(score float64) int {
	switch {
	case score >= 0.8:
		return 5
	case score >= 0.6:
		return 4
	case score >= 0.4:
		return 3
	case score >= 0.2:
		return 2
	default:
		return 1
	}
}

package participant

import "context"

// Member is a confirmed roster entry before stats are joined in.
type Member struct {
	ID             string
	Name           string
	Nickname       string
	Position       Position
	IsMonthlyPayer bool
}

// Performance carries the match-history aggregates for one participant.
// All values are normalized to [0,1] by the aggregator.
type Performance struct {
	RankingPoints   float64
	WinRate         float64
	GoalsPerMatch   float64
	AssistsPerMatch float64
}

// RosterSource lists members confirmed for the tenant's next session.
type RosterSource interface {
	ListConfirmed(ctx context.Context, tenantID string) ([]Member, error)
}

// RatingSource exposes admin-entered star ratings keyed by participant ID.
type RatingSource interface {
	StarRatings(ctx context.Context, tenantID string) (map[string]int, error)
}

// HistorySource exposes match-history aggregates keyed by participant ID.
type HistorySource interface {
	Performance(ctx context.Context, tenantID string) (map[string]Performance, error)
}

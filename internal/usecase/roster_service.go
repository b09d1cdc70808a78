package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

// RosterService joins the three participant sources into one scored pool:
// confirmed members, admin star ratings and match-history aggregates. The
// sources are independent services, so they are fetched concurrently.
type RosterService struct {
	roster  participant.RosterSource
	ratings participant.RatingSource
	history participant.HistorySource
}

func NewRosterService(
	roster participant.RosterSource,
	ratings participant.RatingSource,
	history participant.HistorySource,
) *RosterService {
	return &RosterService{
		roster:  roster,
		ratings: ratings,
		history: history,
	}
}

// Snapshot returns the tenant's confirmed participants with ratings and
// history joined in, normalized and sorted by ID. Missing ratings or history
// rows leave the corresponding fields at zero; the roster decides who plays.
func (s *RosterService) Snapshot(ctx context.Context, tenantID string) ([]participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Snapshot")
	defer span.End()

	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}
	if s.roster == nil || s.ratings == nil || s.history == nil {
		return nil, fmt.Errorf("%w: roster service is not fully configured", ErrDependencyUnavailable)
	}

	var (
		members     []participant.Member
		starsByID   map[string]int
		historyByID map[string]participant.Performance
	)

	group := pool.New().WithContext(ctx).WithCancelOnError()
	group.Go(func(ctx context.Context) error {
		items, err := s.roster.ListConfirmed(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("list confirmed members tenant=%s: %w", tenantID, err)
		}
		members = items
		return nil
	})
	group.Go(func(ctx context.Context) error {
		items, err := s.ratings.StarRatings(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("fetch star ratings tenant=%s: %w", tenantID, err)
		}
		starsByID = items
		return nil
	})
	group.Go(func(ctx context.Context) error {
		items, err := s.history.Performance(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("fetch performance aggregates tenant=%s: %w", tenantID, err)
		}
		historyByID = items
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	out := make([]participant.Participant, 0, len(members))
	for _, m := range members {
		perf := historyByID[m.ID]
		p := participant.Participant{
			ID:              m.ID,
			TenantID:        tenantID,
			Name:            m.Name,
			Nickname:        m.Nickname,
			Position:        m.Position,
			RankingPoints:   perf.RankingPoints,
			WinRate:         perf.WinRate,
			GoalsPerMatch:   perf.GoalsPerMatch,
			AssistsPerMatch: perf.AssistsPerMatch,
			StarRating:      starsByID[m.ID],
			IsMonthlyPayer:  m.IsMonthlyPayer,
		}
		p = p.Normalize()
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: participant id=%s: %v", ErrInvalidInput, m.ID, err)
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

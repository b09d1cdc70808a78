package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

type stubRosterSource struct {
	members []participant.Member
	err     error
}

func (s stubRosterSource) ListConfirmed(_ context.Context, _ string) ([]participant.Member, error) {
	return s.members, s.err
}

type stubRatingSource struct {
	stars map[string]int
	err   error
}

func (s stubRatingSource) StarRatings(_ context.Context, _ string) (map[string]int, error) {
	return s.stars, s.err
}

type stubHistorySource struct {
	perf map[string]participant.Performance
	err  error
}

func (s stubHistorySource) Performance(_ context.Context, _ string) (map[string]participant.Performance, error) {
	return s.perf, s.err
}

func TestRosterService_Snapshot_JoinsSources(t *testing.T) {
	t.Parallel()

	svc := NewRosterService(
		stubRosterSource{members: []participant.Member{
			{ID: "p02", Name: "Bruno", Position: participant.PositionMidfielder},
			{ID: "p01", Name: "Alisson", Position: participant.PositionGoalkeeper, IsMonthlyPayer: true},
		}},
		stubRatingSource{stars: map[string]int{"p01": 4}},
		stubHistorySource{perf: map[string]participant.Performance{
			"p02": {RankingPoints: 0.8, WinRate: 0.6, GoalsPerMatch: 0.4, AssistsPerMatch: 0.5},
		}},
	)

	pool, err := svc.Snapshot(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(pool))
	}
	if pool[0].ID != "p01" || pool[1].ID != "p02" {
		t.Fatalf("expected pool sorted by ID, got %s, %s", pool[0].ID, pool[1].ID)
	}

	keeper := pool[0]
	if keeper.StarRating != 4 {
		t.Fatalf("expected star rating joined in, got %d", keeper.StarRating)
	}
	if !keeper.IsMonthlyPayer {
		t.Fatal("expected monthly payer flag carried over")
	}
	if keeper.TenantID != "tenant-1" {
		t.Fatalf("expected tenant stamped on participant, got %q", keeper.TenantID)
	}
	if keeper.WinRate != 0 {
		t.Fatalf("expected zero history for participant without aggregates, got %v", keeper.WinRate)
	}

	mid := pool[1]
	if mid.RankingPoints != 0.8 || mid.GoalsPerMatch != 0.4 {
		t.Fatalf("expected history joined in, got %+v", mid)
	}
	if mid.StarRating != 0 {
		t.Fatalf("expected zero stars for unrated participant, got %d", mid.StarRating)
	}
}

func TestRosterService_Snapshot_ClampsOutOfRangeStats(t *testing.T) {
	t.Parallel()

	svc := NewRosterService(
		stubRosterSource{members: []participant.Member{
			{ID: "p01", Name: "Casemiro", Position: participant.PositionDefender},
		}},
		stubRatingSource{stars: map[string]int{"p01": 9}},
		stubHistorySource{perf: map[string]participant.Performance{
			"p01": {RankingPoints: 1.7, WinRate: -0.3},
		}},
	)

	pool, err := svc.Snapshot(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if got := pool[0].RankingPoints; got != 1 {
		t.Fatalf("expected ranking clamped to 1, got %v", got)
	}
	if got := pool[0].WinRate; got != 0 {
		t.Fatalf("expected win rate clamped to 0, got %v", got)
	}
	if got := pool[0].StarRating; got != 5 {
		t.Fatalf("expected stars clamped to 5, got %d", got)
	}
}

func TestRosterService_Snapshot_SourceFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	svc := NewRosterService(
		stubRosterSource{err: errors.New("roster service timeout")},
		stubRatingSource{},
		stubHistorySource{},
	)

	_, err := svc.Snapshot(context.Background(), "tenant-1")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestRosterService_Snapshot_RequiresTenant(t *testing.T) {
	t.Parallel()

	svc := NewRosterService(stubRosterSource{}, stubRatingSource{}, stubHistorySource{})

	_, err := svc.Snapshot(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

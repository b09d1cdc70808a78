package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/racha-hq/racha-manager/internal/domain/draft"
)

const (
	recomputeStatusSuccess = "success"
	recomputeStatusFailed  = "failed"
	recomputeStatusSkipped = "skipped"
)

type RecomputeInput struct {
	// TenantIDs narrows the run; empty means every tenant with an active
	// session.
	TenantIDs  []string
	MaxWorkers int
}

type RecomputeResult struct {
	TenantCount  int                   `json:"tenant_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	SkippedCount int                   `json:"skipped_count"`
	WorkerCount  int                   `json:"worker_count"`
	Tasks        []RecomputeTaskResult `json:"tasks"`
}

type RecomputeTaskResult struct {
	TenantID   string  `json:"tenant_id"`
	SessionID  string  `json:"session_id,omitempty"`
	Status     string  `json:"status"`
	Spread     float64 `json:"spread"`
	Iterations int     `json:"iterations"`
	DurationMs int64   `json:"duration_ms"`
	Message    string  `json:"message,omitempty"`
}

// RecomputeService re-runs the draft pipeline for tenants whose active
// session may have gone stale after roster or rating changes. It is driven
// by the internal jobs endpoint, fanning tenants out over a bounded pool.
type RecomputeService struct {
	historyRepo draft.HistoryStore
	drafts      *DraftService
}

func NewRecomputeService(historyRepo draft.HistoryStore, drafts *DraftService) *RecomputeService {
	return &RecomputeService{
		historyRepo: historyRepo,
		drafts:      drafts,
	}
}

func (s *RecomputeService) RecomputeAll(ctx context.Context, input RecomputeInput) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.RecomputeAll")
	defer span.End()

	if s.historyRepo == nil || s.drafts == nil {
		return RecomputeResult{}, fmt.Errorf("%w: recompute service is not fully configured", ErrDependencyUnavailable)
	}

	tenants, err := s.resolveTenants(ctx, input.TenantIDs)
	if err != nil {
		return RecomputeResult{}, err
	}

	workerCount := normalizeRecomputeWorkerCount(input.MaxWorkers, len(tenants))
	result := RecomputeResult{
		TenantCount: len(tenants),
		WorkerCount: workerCount,
		Tasks:       make([]RecomputeTaskResult, 0, len(tenants)),
	}
	if len(tenants) == 0 {
		return result, nil
	}

	rows := make(chan RecomputeTaskResult, len(tenants))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, tenantID := range tenants {
		tenantID := tenantID
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.recomputeTenant(ctx, tenantID)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case recomputeStatusSuccess:
				successCount.Add(1)
			case recomputeStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return RecomputeResult{}, fmt.Errorf("submit tenant to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].TenantID < result.Tasks[j].TenantID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	return result, nil
}

func (s *RecomputeService) recomputeTenant(ctx context.Context, tenantID string) RecomputeTaskResult {
	row := RecomputeTaskResult{TenantID: tenantID}

	active, exists, err := s.historyRepo.GetActive(ctx, tenantID)
	if err != nil {
		row.Status = recomputeStatusFailed
		row.Message = err.Error()
		return row
	}
	if !exists {
		row.Status = recomputeStatusSkipped
		row.Message = "no active session"
		return row
	}
	row.SessionID = active.ID

	// A session with manual swaps belongs to an organizer; the background
	// job never overwrites their edits.
	if active.Status == draft.StatusAdjusted {
		row.Status = recomputeStatusSkipped
		row.Message = "session has manual adjustments"
		return row
	}

	session, err := s.drafts.Compute(ctx, ComputeDraftInput{
		TenantID:    tenantID,
		Version:     active.Version,
		Constraints: active.Constraints.Input(),
	})
	if err != nil {
		row.Status = recomputeStatusFailed
		row.Message = err.Error()
		return row
	}

	row.SessionID = session.ID
	row.Status = recomputeStatusSuccess
	row.Spread = session.Spread
	row.Iterations = session.Iterations
	return row
}

func (s *RecomputeService) resolveTenants(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		seen := make(map[string]struct{}, len(requested))
		out := make([]string, 0, len(requested))
		for _, tenantID := range requested {
			tenantID = strings.TrimSpace(tenantID)
			if tenantID == "" {
				return nil, fmt.Errorf("%w: tenant id cannot be empty", ErrInvalidInput)
			}
			if _, exists := seen[tenantID]; exists {
				continue
			}
			seen[tenantID] = struct{}{}
			out = append(out, tenantID)
		}
		sort.Strings(out)
		return out, nil
	}

	tenants, err := s.historyRepo.ListTenantsWithActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants with active sessions: %w", err)
	}
	sort.Strings(tenants)
	return tenants, nil
}

func normalizeRecomputeWorkerCount(value int, tenantCount int) int {
	if tenantCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > 4 {
		value = 4
	}
	if value > tenantCount {
		value = tenantCount
	}
	return value
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/racha-hq/racha-manager/internal/domain/draft"
	"github.com/racha-hq/racha-manager/internal/domain/participant"
	"github.com/racha-hq/racha-manager/internal/platform/cache"
	"github.com/racha-hq/racha-manager/internal/platform/id"
)

const defaultHistoryLimit = 10
const maxHistoryLimit = 50

type rosterSnapshotter interface {
	Snapshot(ctx context.Context, tenantID string) ([]participant.Participant, error)
}

type ComputeDraftInput struct {
	TenantID string
	// Version is the caller's last-seen version of the active session. Zero
	// means the caller expects no active session to exist.
	Version     int64
	Constraints draft.ConstraintSetInput
}

type SwapInput struct {
	TenantID     string
	SessionID    string
	Version      int64
	TeamA        int
	ParticipantA string
	TeamB        int
	ParticipantB string
}

type AssignReserveInput struct {
	TenantID      string
	SessionID     string
	Version       int64
	ParticipantID string
	Team          int
}

type PublishInput struct {
	TenantID  string
	SessionID string
	Version   int64
	// AcknowledgeReserves lets the organizer publish while participants
	// remain on the bench.
	AcknowledgeReserves bool
}

type DiscardInput struct {
	TenantID  string
	SessionID string
	Version   int64
}

// DraftService owns the draft session lifecycle for every tenant. All
// mutations for one tenant are serialized through a per-tenant lock so the
// single-active-session rule cannot be raced.
type DraftService struct {
	historyRepo draft.HistoryStore
	roster      rosterSnapshotter
	idGen       id.Generator
	teamsCache  *cache.Store
	now         func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewDraftService(historyRepo draft.HistoryStore, roster rosterSnapshotter, teamsCache *cache.Store) *DraftService {
	return &DraftService{
		historyRepo: historyRepo,
		roster:      roster,
		idGen:       id.NewPrefixedGenerator("drf"),
		teamsCache:  teamsCache,
		now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (s *DraftService) lockTenant(tenantID string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[tenantID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[tenantID] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Compute snapshots the roster, validates the constraints and runs the full
// build-then-refine pipeline. When a tenant already has an active session the
// caller must present its current version; a mismatch means another organizer
// changed the session in the meantime and the recompute is refused.
func (s *DraftService) Compute(ctx context.Context, input ComputeDraftInput) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Compute")
	defer span.End()

	tenantID := strings.TrimSpace(input.TenantID)
	if tenantID == "" {
		return draft.Session{}, fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}
	if s.historyRepo == nil || s.roster == nil {
		return draft.Session{}, fmt.Errorf("%w: draft service is not fully configured", ErrDependencyUnavailable)
	}

	unlock := s.lockTenant(tenantID)
	defer unlock()

	existing, exists, err := s.historyRepo.GetActive(ctx, tenantID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("get active session tenant=%s: %w", tenantID, err)
	}
	if exists {
		if err := existing.CheckVersion(input.Version); err != nil {
			return draft.Session{}, err
		}
	} else if input.Version != 0 {
		return draft.Session{}, fmt.Errorf("%w: no active session, caller saw %d", draft.ErrStaleVersion, input.Version)
	}

	pool, err := s.roster.Snapshot(ctx, tenantID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("load roster snapshot: %w", err)
	}
	if len(pool) == 0 {
		return draft.Session{}, fmt.Errorf("%w: no confirmed participants for tenant=%s", ErrInvalidInput, tenantID)
	}

	constraints, err := draft.NewConstraintSet(input.Constraints, pool)
	if err != nil {
		return draft.Session{}, err
	}

	built := draft.Build(pool, constraints)
	refined := draft.Refine(pool, constraints, built.Assignment)

	now := s.now().UTC()

	var session draft.Session
	if exists {
		session = existing
		session.Version++
	} else {
		sessionID, err := s.idGen.NewID()
		if err != nil {
			return draft.Session{}, fmt.Errorf("generate session id: %w", err)
		}
		session = draft.Session{
			ID:        sessionID,
			TenantID:  tenantID,
			Version:   1,
			CreatedAt: now,
		}
	}

	session.Status = draft.StatusComputed
	session.Constraints = constraints
	session.Participants = pool
	session.Assignment = refined.Assignment
	session.Reserves = built.Reserves
	session.Spread = refined.Spread
	session.Iterations = refined.Iterations
	session.UpdatedAt = now

	if err := s.historyRepo.Save(ctx, session); err != nil {
		return draft.Session{}, fmt.Errorf("save computed session tenant=%s: %w", tenantID, err)
	}

	return session, nil
}

// ManualSwap exchanges two participants between teams as an organizer
// override. Pins and separation pairs still hold; the per-team goalkeeper
// preference does not bind a deliberate manual edit.
func (s *DraftService) ManualSwap(ctx context.Context, input SwapInput) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ManualSwap")
	defer span.End()

	session, unlock, err := s.loadForMutation(ctx, input.TenantID, input.SessionID, input.Version)
	if err != nil {
		return draft.Session{}, err
	}
	defer unlock()

	if err := session.ValidateSwap(input.TeamA, input.ParticipantA, input.TeamB, input.ParticipantB); err != nil {
		return draft.Session{}, err
	}

	session.ApplySwap(input.TeamA, input.ParticipantA, input.TeamB, input.ParticipantB)
	session.Status = draft.StatusAdjusted
	session.Version++
	session.UpdatedAt = s.now().UTC()

	if err := s.historyRepo.Save(ctx, session); err != nil {
		return draft.Session{}, fmt.Errorf("save adjusted session tenant=%s: %w", session.TenantID, err)
	}

	return session, nil
}

// AssignReserve moves a reserve onto a team that still has a free slot.
func (s *DraftService) AssignReserve(ctx context.Context, input AssignReserveInput) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.AssignReserve")
	defer span.End()

	participantID := strings.TrimSpace(input.ParticipantID)
	if participantID == "" {
		return draft.Session{}, fmt.Errorf("%w: participant_id is required", ErrInvalidInput)
	}

	session, unlock, err := s.loadForMutation(ctx, input.TenantID, input.SessionID, input.Version)
	if err != nil {
		return draft.Session{}, err
	}
	defer unlock()

	if err := session.ValidateReserveAssignment(participantID, input.Team); err != nil {
		return draft.Session{}, err
	}

	session.ApplyReserveAssignment(participantID, input.Team)
	session.Status = draft.StatusAdjusted
	session.Version++
	session.UpdatedAt = s.now().UTC()

	if err := s.historyRepo.Save(ctx, session); err != nil {
		return draft.Session{}, fmt.Errorf("save adjusted session tenant=%s: %w", session.TenantID, err)
	}

	return session, nil
}

// Publish freezes the session and makes it the tenant's teams of the day.
// The previously published session, if any, is archived in the same call.
func (s *DraftService) Publish(ctx context.Context, input PublishInput) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Publish")
	defer span.End()

	session, unlock, err := s.loadForMutation(ctx, input.TenantID, input.SessionID, input.Version)
	if err != nil {
		return draft.Session{}, err
	}
	defer unlock()

	if len(session.Assignment) == 0 {
		return draft.Session{}, fmt.Errorf("%w: session has no computed assignment", draft.ErrIncompleteDraft)
	}
	if len(session.Reserves) > 0 && !input.AcknowledgeReserves {
		return draft.Session{}, fmt.Errorf("%w: %d reserves still on the bench", draft.ErrIncompleteDraft, len(session.Reserves))
	}

	now := s.now().UTC()

	previous, exists, err := s.historyRepo.GetLatestPublished(ctx, session.TenantID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("get latest published session tenant=%s: %w", session.TenantID, err)
	}
	if exists && previous.Status == draft.StatusPublished {
		previous.Status = draft.StatusArchived
		previous.Version++
		previous.UpdatedAt = now
		if err := s.historyRepo.Save(ctx, previous); err != nil {
			return draft.Session{}, fmt.Errorf("archive previous session id=%s tenant=%s: %w", previous.ID, previous.TenantID, err)
		}
	}

	session.Status = draft.StatusPublished
	session.PublishedAt = &now
	session.Version++
	session.UpdatedAt = now

	if err := s.historyRepo.Save(ctx, session); err != nil {
		return draft.Session{}, fmt.Errorf("save published session tenant=%s: %w", session.TenantID, err)
	}

	if s.teamsCache != nil {
		s.teamsCache.Delete(ctx, teamsOfDayCacheKey(session.TenantID))
	}

	return session, nil
}

// Discard removes an unpublished session entirely.
func (s *DraftService) Discard(ctx context.Context, input DiscardInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Discard")
	defer span.End()

	session, unlock, err := s.loadSession(ctx, input.TenantID, input.SessionID, input.Version)
	if err != nil {
		return err
	}
	defer unlock()

	if !session.Active() {
		return fmt.Errorf("%w: only an unpublished session can be discarded", draft.ErrSessionImmutable)
	}

	if err := s.historyRepo.Delete(ctx, session.TenantID, session.ID); err != nil {
		return fmt.Errorf("delete session id=%s tenant=%s: %w", session.ID, session.TenantID, err)
	}

	return nil
}

func (s *DraftService) GetActive(ctx context.Context, tenantID string) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetActive")
	defer span.End()

	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return draft.Session{}, fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}

	session, exists, err := s.historyRepo.GetActive(ctx, tenantID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("get active session tenant=%s: %w", tenantID, err)
	}
	if !exists {
		return draft.Session{}, fmt.Errorf("%w: no active session for tenant=%s", ErrNotFound, tenantID)
	}

	return session, nil
}

func (s *DraftService) GetByID(ctx context.Context, tenantID, sessionID string) (draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetByID")
	defer span.End()

	tenantID = strings.TrimSpace(tenantID)
	sessionID = strings.TrimSpace(sessionID)
	if tenantID == "" || sessionID == "" {
		return draft.Session{}, fmt.Errorf("%w: tenant_id and session_id are required", ErrInvalidInput)
	}

	session, exists, err := s.historyRepo.GetByID(ctx, tenantID, sessionID)
	if err != nil {
		return draft.Session{}, fmt.Errorf("get session id=%s tenant=%s: %w", sessionID, tenantID, err)
	}
	if !exists {
		return draft.Session{}, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}

	return session, nil
}

// ListHistory returns the tenant's published sessions, newest first.
func (s *DraftService) ListHistory(ctx context.Context, tenantID string, limit int) ([]draft.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ListHistory")
	defer span.End()

	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	sessions, err := s.historyRepo.ListPublished(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list published sessions tenant=%s: %w", tenantID, err)
	}

	return sessions, nil
}

func (s *DraftService) loadForMutation(ctx context.Context, tenantID, sessionID string, version int64) (draft.Session, func(), error) {
	session, unlock, err := s.loadSession(ctx, tenantID, sessionID, version)
	if err != nil {
		return draft.Session{}, nil, err
	}

	if !session.Mutable() {
		unlock()
		if session.Status == draft.StatusDraft {
			return draft.Session{}, nil, fmt.Errorf("%w: session has not been computed yet", draft.ErrInvalidTransition)
		}
		return draft.Session{}, nil, fmt.Errorf("%w: session=%s status=%s", draft.ErrSessionImmutable, session.ID, session.Status)
	}

	return session, unlock, nil
}

func (s *DraftService) loadSession(ctx context.Context, tenantID, sessionID string, version int64) (draft.Session, func(), error) {
	tenantID = strings.TrimSpace(tenantID)
	sessionID = strings.TrimSpace(sessionID)
	if tenantID == "" || sessionID == "" {
		return draft.Session{}, nil, fmt.Errorf("%w: tenant_id and session_id are required", ErrInvalidInput)
	}
	if s.historyRepo == nil {
		return draft.Session{}, nil, fmt.Errorf("%w: draft service is not fully configured", ErrDependencyUnavailable)
	}

	unlock := s.lockTenant(tenantID)

	session, exists, err := s.historyRepo.GetByID(ctx, tenantID, sessionID)
	if err != nil {
		unlock()
		return draft.Session{}, nil, fmt.Errorf("get session id=%s tenant=%s: %w", sessionID, tenantID, err)
	}
	if !exists {
		unlock()
		return draft.Session{}, nil, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}
	if err := session.CheckVersion(version); err != nil {
		unlock()
		return draft.Session{}, nil, err
	}

	return session, unlock, nil
}

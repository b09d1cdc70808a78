package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/racha-hq/racha-manager/internal/domain/draft"
)

// DraftHistoryRepository keeps sessions per tenant. Every read returns a
// deep copy so callers can never mutate stored state in place.
type DraftHistoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]map[string]draft.Session
}

func NewDraftHistoryRepository() *DraftHistoryRepository {
	return &DraftHistoryRepository{sessions: make(map[string]map[string]draft.Session)}
}

func (r *DraftHistoryRepository) Save(_ context.Context, session draft.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID, ok := r.sessions[session.TenantID]
	if !ok {
		byID = make(map[string]draft.Session)
		r.sessions[session.TenantID] = byID
	}
	byID[session.ID] = session.Clone()
	return nil
}

func (r *DraftHistoryRepository) GetActive(_ context.Context, tenantID string) (draft.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, session := range r.sessions[tenantID] {
		if session.Active() {
			return session.Clone(), true, nil
		}
	}
	return draft.Session{}, false, nil
}

func (r *DraftHistoryRepository) GetByID(_ context.Context, tenantID, sessionID string) (draft.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[tenantID][sessionID]
	if !ok {
		return draft.Session{}, false, nil
	}
	return session.Clone(), true, nil
}

func (r *DraftHistoryRepository) GetLatestPublished(_ context.Context, tenantID string) (draft.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest draft.Session
	found := false
	for _, session := range r.sessions[tenantID] {
		if session.Status != draft.StatusPublished || session.PublishedAt == nil {
			continue
		}
		if !found || session.PublishedAt.After(*latest.PublishedAt) {
			latest = session
			found = true
		}
	}
	if !found {
		return draft.Session{}, false, nil
	}
	return latest.Clone(), true, nil
}

func (r *DraftHistoryRepository) ListPublished(_ context.Context, tenantID string, limit int) ([]draft.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]draft.Session, 0)
	for _, session := range r.sessions[tenantID] {
		if session.PublishedAt == nil {
			continue
		}
		out = append(out, session.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(*out[j].PublishedAt) {
			return out[i].PublishedAt.After(*out[j].PublishedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *DraftHistoryRepository) ListTenantsWithActive(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.sessions))
	for tenantID, byID := range r.sessions {
		for _, session := range byID {
			if session.Active() {
				out = append(out, tenantID)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *DraftHistoryRepository) Delete(_ context.Context, tenantID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions[tenantID], sessionID)
	return nil
}

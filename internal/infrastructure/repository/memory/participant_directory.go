package memory

import (
	"context"
	"sync"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

// ParticipantDirectory backs all three participant sources with in-memory
// tables. It stands in for the roster, rating and match-history services in
// local runs and tests.
type ParticipantDirectory struct {
	mu      sync.RWMutex
	members map[string][]participant.Member
	stars   map[string]map[string]int
	perf    map[string]map[string]participant.Performance
}

func NewParticipantDirectory() *ParticipantDirectory {
	return &ParticipantDirectory{
		members: make(map[string][]participant.Member),
		stars:   make(map[string]map[string]int),
		perf:    make(map[string]map[string]participant.Performance),
	}
}

func (d *ParticipantDirectory) ListConfirmed(_ context.Context, tenantID string) ([]participant.Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]participant.Member(nil), d.members[tenantID]...), nil
}

func (d *ParticipantDirectory) StarRatings(_ context.Context, tenantID string) (map[string]int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]int, len(d.stars[tenantID]))
	for id, stars := range d.stars[tenantID] {
		out[id] = stars
	}
	return out, nil
}

func (d *ParticipantDirectory) Performance(_ context.Context, tenantID string) (map[string]participant.Performance, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]participant.Performance, len(d.perf[tenantID]))
	for id, perf := range d.perf[tenantID] {
		out[id] = perf
	}
	return out, nil
}

func (d *ParticipantDirectory) SetMembers(tenantID string, members []participant.Member) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.members[tenantID] = append([]participant.Member(nil), members...)
}

func (d *ParticipantDirectory) SetStarRating(tenantID, participantID string, stars int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stars[tenantID] == nil {
		d.stars[tenantID] = make(map[string]int)
	}
	d.stars[tenantID][participantID] = stars
}

func (d *ParticipantDirectory) SetPerformance(tenantID, participantID string, perf participant.Performance) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.perf[tenantID] == nil {
		d.perf[tenantID] = make(map[string]participant.Performance)
	}
	d.perf[tenantID][participantID] = perf
}

package draft

import (
	"fmt"
	"sort"
	"time"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

// Status is the draft session lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusComputed  Status = "COMPUTED"
	StatusAdjusted  Status = "ADJUSTED"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

var AllStatuses = map[Status]struct{}{
	StatusDraft:     {},
	StatusComputed:  {},
	StatusAdjusted:  {},
	StatusPublished: {},
	StatusArchived:  {},
}

// Session is the unit of draft work for one tenant: a snapshot of the
// participants taken at compute time, the validated constraints, the current
// assignment and the lifecycle/version bookkeeping. Sessions follow a
// snapshot-and-replace discipline: mutations produce a new value that is
// saved whole, guarded by the optimistic Version check.
type Session struct {
	ID           string
	TenantID     string
	Status       Status
	Constraints  ConstraintSet
	Participants []participant.Participant
	Assignment   map[string]int
	Reserves     []string
	Spread       float64
	Iterations   int
	Version      int64
	PublishedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the session occupies the tenant's single
// active-draft slot.
func (s Session) Active() bool {
	switch s.Status {
	case StatusDraft, StatusComputed, StatusAdjusted:
		return true
	default:
		return false
	}
}

// Mutable reports whether manual edits are still accepted.
func (s Session) Mutable() bool {
	return s.Status == StatusComputed || s.Status == StatusAdjusted
}

// CheckVersion rejects a mutation whose caller saw an older snapshot.
func (s Session) CheckVersion(seen int64) error {
	if seen != s.Version {
		return fmt.Errorf("%w: have %d, caller saw %d", ErrStaleVersion, s.Version, seen)
	}

	return nil
}

// Team is a derived view over the assignment map: teams are recomputed from
// the session, never mutated independently.
type Team struct {
	Index           int
	ParticipantIDs  []string
	Score           float64
	StarSum         int
	GoalkeeperCount int
}

// Teams recomputes the per-team views, members ordered by score descending
// with ID as the tie-break.
func (s Session) Teams() []Team {
	weights := s.Constraints.Weights()
	byID := make(map[string]participant.Participant, len(s.Participants))
	for _, p := range s.Participants {
		byID[p.ID] = p
	}

	teams := make([]Team, s.Constraints.TeamCount())
	for i := range teams {
		teams[i].Index = i
	}

	for id, idx := range s.Assignment {
		p, ok := byID[id]
		if !ok {
			continue
		}
		teams[idx].ParticipantIDs = append(teams[idx].ParticipantIDs, id)
		teams[idx].Score += Score(p, weights)
		teams[idx].StarSum += p.Normalize().StarRating
		if p.Position == participant.PositionGoalkeeper {
			teams[idx].GoalkeeperCount++
		}
	}

	for i := range teams {
		ids := teams[i].ParticipantIDs
		sort.Slice(ids, func(a, b int) bool {
			sa, sb := Score(byID[ids[a]], weights), Score(byID[ids[b]], weights)
			if sa != sb {
				return sa > sb
			}
			return ids[a] < ids[b]
		})
	}

	return teams
}

// ValidateSwap checks a manual pairwise swap against the hard constraints:
// both participants must sit on the stated teams, pinned participants never
// move, and neither landing spot may break a separation pair. The goalkeeper
// policy is deliberately not enforced here; a manual override is the admin's
// call.
func (s Session) ValidateSwap(teamA int, participantA string, teamB int, participantB string) error {
	if !s.Mutable() {
		if s.Status == StatusPublished || s.Status == StatusArchived {
			return fmt.Errorf("%w: session %s is %s", ErrSessionImmutable, s.ID, s.Status)
		}
		return fmt.Errorf("%w: cannot swap in status %s", ErrInvalidTransition, s.Status)
	}
	if teamA == teamB {
		return fmt.Errorf("%w: swap requires two distinct teams", ErrInvalidTransition)
	}
	if participantA == participantB {
		return fmt.Errorf("%w: swap requires two distinct participants", ErrInvalidTransition)
	}

	for _, check := range []struct {
		id   string
		team int
	}{{participantA, teamA}, {participantB, teamB}} {
		assigned, ok := s.Assignment[check.id]
		if !ok {
			return fmt.Errorf("%w: %s is not assigned to any team", ErrUnknownParticipant, check.id)
		}
		if assigned != check.team {
			return fmt.Errorf("%w: %s is on team %d, not team %d", ErrUnknownParticipant, check.id, assigned, check.team)
		}
		if _, pinned := s.Constraints.PinnedTeam(check.id); pinned {
			return fmt.Errorf("%w: %s", ErrParticipantPinned, check.id)
		}
	}

	if offender, conflict := s.Constraints.SeparatedFromAny(participantB, s.teamMembersExcept(teamA, participantA)); conflict {
		return fmt.Errorf("%w: %s and %s", ErrSeparationBroken, participantB, offender)
	}
	if offender, conflict := s.Constraints.SeparatedFromAny(participantA, s.teamMembersExcept(teamB, participantB)); conflict {
		return fmt.Errorf("%w: %s and %s", ErrSeparationBroken, participantA, offender)
	}

	return nil
}

// ApplySwap mutates the assignment after ValidateSwap passed.
func (s *Session) ApplySwap(teamA int, participantA string, teamB int, participantB string) {
	s.Assignment[participantA] = teamB
	s.Assignment[participantB] = teamA
}

// ValidateReserveAssignment checks a manual placement of a reserve onto a
// team: the participant must actually be a reserve, the team must have a free
// slot and the placement may not break a separation pair.
func (s Session) ValidateReserveAssignment(participantID string, team int) error {
	if !s.Mutable() {
		if s.Status == StatusPublished || s.Status == StatusArchived {
			return fmt.Errorf("%w: session %s is %s", ErrSessionImmutable, s.ID, s.Status)
		}
		return fmt.Errorf("%w: cannot assign reserves in status %s", ErrInvalidTransition, s.Status)
	}
	if team < 0 || team >= s.Constraints.TeamCount() {
		return fmt.Errorf("%w: team %d", ErrPinOutOfRange, team)
	}
	if !s.isReserve(participantID) {
		return fmt.Errorf("%w: %s is not a reserve", ErrUnknownParticipant, participantID)
	}

	members := s.teamMembersExcept(team, "")
	if len(members) >= s.Constraints.TeamSize() {
		return fmt.Errorf("%w: team %d", ErrTeamFull, team)
	}
	if offender, conflict := s.Constraints.SeparatedFromAny(participantID, members); conflict {
		return fmt.Errorf("%w: %s and %s", ErrSeparationBroken, participantID, offender)
	}

	return nil
}

// ApplyReserveAssignment places the reserve after validation passed.
func (s *Session) ApplyReserveAssignment(participantID string, team int) {
	s.Assignment[participantID] = team
	remaining := make([]string, 0, len(s.Reserves))
	for _, id := range s.Reserves {
		if id != participantID {
			remaining = append(remaining, id)
		}
	}
	s.Reserves = remaining
}

func (s Session) isReserve(participantID string) bool {
	for _, id := range s.Reserves {
		if id == participantID {
			return true
		}
	}

	return false
}

func (s Session) teamMembersExcept(team int, excluded string) []string {
	var members []string
	for id, idx := range s.Assignment {
		if idx == team && id != excluded {
			members = append(members, id)
		}
	}
	sort.Strings(members)

	return members
}

// Clone deep-copies the session so stores and services can hand out
// snapshots without sharing mutable state.
func (s Session) Clone() Session {
	cloned := s
	cloned.Participants = append([]participant.Participant(nil), s.Participants...)
	cloned.Reserves = append([]string(nil), s.Reserves...)
	if s.Assignment != nil {
		cloned.Assignment = make(map[string]int, len(s.Assignment))
		for id, team := range s.Assignment {
			cloned.Assignment[id] = team
		}
	}
	if s.PublishedAt != nil {
		at := *s.PublishedAt
		cloned.PublishedAt = &at
	}

	return cloned
}

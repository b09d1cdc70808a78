package draft

import (
	"errors"
	"testing"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

func testSession(t *testing.T) Session {
	t.Helper()

	pool := testPool(t, map[participant.Position]int{
		participant.PositionGoalkeeper: 2,
		participant.PositionDefender:   3,
		participant.PositionMidfielder: 3,
	})
	cs := mustConstraints(t, ConstraintSetInput{
		TeamCount:                2,
		TeamSize:                 4,
		RequireGoalkeeperPerTeam: true,
		SeparationPairs:          []Pair{{A: "p03", B: "p06"}},
		Pins:                     []Pin{{ParticipantID: "p01", Team: 0}},
	}, pool)

	built := Build(pool, cs)
	refined := Refine(pool, cs, built.Assignment)

	return Session{
		ID:           "session-1",
		TenantID:     "tenant-1",
		Status:       StatusComputed,
		Constraints:  cs,
		Participants: pool,
		Assignment:   refined.Assignment,
		Reserves:     built.Reserves,
		Spread:       refined.Spread,
		Iterations:   refined.Iterations,
		Version:      1,
	}
}

func TestSession_CheckVersion(t *testing.T) {
	s := testSession(t)

	if err := s.CheckVersion(1); err != nil {
		t.Fatalf("matching version rejected: %v", err)
	}
	if err := s.CheckVersion(0); !errors.Is(err, ErrStaleVersion) {
		t.Fatalf("expected ErrStaleVersion, got %v", err)
	}
}

func TestSession_ValidateSwap(t *testing.T) {
	s := testSession(t)

	var memberOfA, memberOfB string
	for id, team := range s.Assignment {
		if _, pinned := s.Constraints.PinnedTeam(id); pinned {
			continue
		}
		if id == "p03" || id == "p06" {
			continue
		}
		switch team {
		case 0:
			if memberOfA == "" {
				memberOfA = id
			}
		case 1:
			if memberOfB == "" {
				memberOfB = id
			}
		}
	}
	if memberOfA == "" || memberOfB == "" {
		t.Fatal("fixture did not produce swappable members on both teams")
	}

	if err := s.ValidateSwap(0, memberOfA, 1, memberOfB); err != nil {
		t.Fatalf("legal swap rejected: %v", err)
	}

	if err := s.ValidateSwap(0, "p01", 1, memberOfB); !errors.Is(err, ErrParticipantPinned) {
		t.Fatalf("expected ErrParticipantPinned for p01, got %v", err)
	}

	if err := s.ValidateSwap(1, memberOfA, 0, memberOfB); !errors.Is(err, ErrUnknownParticipant) {
		t.Fatalf("expected rejection for wrong team claim, got %v", err)
	}

	published := s
	published.Status = StatusPublished
	if err := published.ValidateSwap(0, memberOfA, 1, memberOfB); !errors.Is(err, ErrSessionImmutable) {
		t.Fatalf("expected ErrSessionImmutable, got %v", err)
	}
}

func TestSession_SwapCannotReuniteSeparatedPair(t *testing.T) {
	s := testSession(t)

	teamOf3 := s.Assignment["p03"]
	teamOf6 := s.Assignment["p06"]
	if teamOf3 == teamOf6 {
		t.Fatal("fixture broke the separation pair")
	}

	// Swapping p06 onto p03's team must be rejected; the counterpart is any
	// non-pinned teammate of p03.
	var counterpart string
	for id, team := range s.Assignment {
		if team != teamOf3 || id == "p03" {
			continue
		}
		if _, pinned := s.Constraints.PinnedTeam(id); pinned {
			continue
		}
		counterpart = id
		break
	}
	if counterpart == "" {
		t.Fatal("no swappable counterpart on p03's team")
	}

	err := s.ValidateSwap(teamOf3, counterpart, teamOf6, "p06")
	if !errors.Is(err, ErrSeparationBroken) {
		t.Fatalf("expected ErrSeparationBroken, got %v", err)
	}
}

func TestSession_ApplySwap(t *testing.T) {
	s := testSession(t)

	var a, b string
	for id, team := range s.Assignment {
		if _, pinned := s.Constraints.PinnedTeam(id); pinned {
			continue
		}
		if id == "p03" || id == "p06" {
			continue
		}
		if team == 0 && a == "" {
			a = id
		}
		if team == 1 && b == "" {
			b = id
		}
	}

	s.ApplySwap(0, a, 1, b)
	if s.Assignment[a] != 1 || s.Assignment[b] != 0 {
		t.Fatalf("swap not applied: %s=%d %s=%d", a, s.Assignment[a], b, s.Assignment[b])
	}
}

func TestSession_ReserveAssignment(t *testing.T) {
	pool := testPool(t, map[participant.Position]int{participant.PositionDefender: 5})
	cs := mustConstraints(t, ConstraintSetInput{TeamCount: 2, TeamSize: 2}, pool)
	built := Build(pool, cs)

	s := Session{
		ID:           "session-1",
		TenantID:     "tenant-1",
		Status:       StatusComputed,
		Constraints:  cs,
		Participants: pool,
		Assignment:   built.Assignment,
		Reserves:     built.Reserves,
		Version:      1,
	}
	if len(s.Reserves) != 1 {
		t.Fatalf("fixture expected one reserve, got %v", s.Reserves)
	}
	reserve := s.Reserves[0]

	if err := s.ValidateReserveAssignment(reserve, 0); !errors.Is(err, ErrTeamFull) {
		t.Fatalf("expected ErrTeamFull on a full team, got %v", err)
	}
	if err := s.ValidateReserveAssignment("p01", 0); !errors.Is(err, ErrUnknownParticipant) {
		t.Fatalf("expected rejection for non-reserve, got %v", err)
	}

	// Free a slot, then the placement must validate and apply.
	var leaving string
	for id, team := range s.Assignment {
		if team == 0 {
			leaving = id
			break
		}
	}
	delete(s.Assignment, leaving)

	if err := s.ValidateReserveAssignment(reserve, 0); err != nil {
		t.Fatalf("legal reserve placement rejected: %v", err)
	}
	s.ApplyReserveAssignment(reserve, 0)
	if s.Assignment[reserve] != 0 {
		t.Fatalf("reserve not assigned: %d", s.Assignment[reserve])
	}
	if len(s.Reserves) != 0 {
		t.Fatalf("reserve list not cleared: %v", s.Reserves)
	}
}

func TestSession_TeamsDerivedViews(t *testing.T) {
	s := testSession(t)

	teams := s.Teams()
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}

	totalMembers := 0
	for _, team := range teams {
		totalMembers += len(team.ParticipantIDs)
		if len(team.ParticipantIDs) > s.Constraints.TeamSize() {
			t.Fatalf("team %d exceeds capacity: %d", team.Index, len(team.ParticipantIDs))
		}
		if team.Score <= 0 {
			t.Fatalf("team %d has no aggregate score", team.Index)
		}
		if team.GoalkeeperCount == 0 {
			t.Fatalf("team %d lost its goalkeeper view", team.Index)
		}
	}
	if totalMembers != len(s.Assignment) {
		t.Fatalf("team views cover %d members, assignment has %d", totalMembers, len(s.Assignment))
	}
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := testSession(t)
	cloned := s.Clone()

	cloned.Assignment["p02"] = 99
	cloned.Participants[0].Name = "changed"

	if s.Assignment["p02"] == 99 {
		t.Fatal("clone shares the assignment map")
	}
	if s.Participants[0].Name == "changed" {
		t.Fatal("clone shares the participants slice")
	}
}

package postgres

import (
	"testing"
	"time"

	"github.com/racha-hq/racha-manager/internal/domain/draft"
	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

func storedTestSession(t *testing.T) draft.Session {
	t.Helper()

	pool := []participant.Participant{
		{ID: "mbr-andri", TenantID: "racha-jakarta-kamis", Name: "Andritany Pratama", Position: participant.PositionGoalkeeper, StarRating: 4},
		{ID: "mbr-teja", TenantID: "racha-jakarta-kamis", Name: "Teja Saputra", Position: participant.PositionGoalkeeper, StarRating: 3},
		{ID: "mbr-klok", TenantID: "racha-jakarta-kamis", Name: "Marc Kurniawan", Position: participant.PositionMidfielder, RankingPoints: 0.91, StarRating: 5},
		{ID: "mbr-gustavo", TenantID: "racha-jakarta-kamis", Name: "Gustavo Ramadhan", Position: participant.PositionForward, GoalsPerMatch: 0.74, StarRating: 5},
	}
	constraints, err := draft.NewConstraintSet(draft.ConstraintSetInput{
		TeamCount:                2,
		TeamSize:                 2,
		RequireGoalkeeperPerTeam: true,
		SeparationPairs:          []draft.Pair{{A: "mbr-klok", B: "mbr-gustavo"}},
		Pins:                     []draft.Pin{{ParticipantID: "mbr-andri", Team: 0}},
	}, pool)
	if err != nil {
		t.Fatalf("NewConstraintSet error: %v", err)
	}

	publishedAt := time.Date(2026, 8, 27, 21, 0, 0, 0, time.UTC)
	return draft.Session{
		ID:           "drf-7f3a",
		TenantID:     "racha-jakarta-kamis",
		Status:       draft.StatusPublished,
		Constraints:  constraints,
		Participants: pool,
		Assignment:   map[string]int{"mbr-andri": 0, "mbr-klok": 0, "mbr-teja": 1, "mbr-gustavo": 1},
		Reserves:     []string{},
		Spread:       0.12,
		Iterations:   3,
		Version:      4,
		PublishedAt:  &publishedAt,
		CreatedAt:    time.Date(2026, 8, 27, 19, 0, 0, 0, time.UTC),
		UpdatedAt:    publishedAt,
	}
}

func TestDraftSessionRowRoundTrip(t *testing.T) {
	t.Parallel()

	session := storedTestSession(t)

	insertModel, err := draftSessionToInsertModel(session)
	if err != nil {
		t.Fatalf("draftSessionToInsertModel error: %v", err)
	}

	restored, err := draftSessionFromRow(draftSessionTableModel{
		SessionID:    insertModel.SessionID,
		TenantID:     insertModel.TenantID,
		Status:       insertModel.Status,
		Constraints:  insertModel.Constraints,
		Participants: insertModel.Participants,
		Assignment:   insertModel.Assignment,
		Reserves:     insertModel.Reserves,
		Spread:       insertModel.Spread,
		Iterations:   insertModel.Iterations,
		Version:      insertModel.Version,
		PublishedAt:  insertModel.PublishedAt,
		CreatedAt:    insertModel.CreatedAt,
		UpdatedAt:    insertModel.UpdatedAt,
	})
	if err != nil {
		t.Fatalf("draftSessionFromRow error: %v", err)
	}

	if restored.ID != session.ID || restored.Status != session.Status || restored.Version != session.Version {
		t.Fatalf("session identity changed: %+v", restored)
	}
	if len(restored.Participants) != len(session.Participants) {
		t.Fatalf("expected %d participants, got %d", len(session.Participants), len(restored.Participants))
	}
	for id, team := range session.Assignment {
		if restored.Assignment[id] != team {
			t.Fatalf("assignment for %s changed: %d != %d", id, restored.Assignment[id], team)
		}
	}

	// The rule set is rebuilt from its stored input, so derived state must
	// survive the round trip too.
	if pinned, ok := restored.Constraints.PinnedTeam("mbr-andri"); !ok || pinned != 0 {
		t.Fatalf("expected pin restored, got (%d, %v)", pinned, ok)
	}
	if !restored.Constraints.Separated("mbr-klok", "mbr-gustavo") {
		t.Fatal("expected separation pair restored")
	}
	if !restored.Constraints.RequireGoalkeeperPerTeam() {
		t.Fatal("expected goalkeeper policy restored")
	}
}

func TestDecodeConstraints_RejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	if _, err := decodeConstraints(`{"team_count": "two"}`); err == nil {
		t.Fatal("expected decode error for malformed payload")
	}
}

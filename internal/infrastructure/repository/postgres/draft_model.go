package postgres

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"

	"github.com/racha-hq/racha-manager/internal/domain/draft"
	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

type draftSessionTableModel struct {
	ID           int64          `db:"id"`
	SessionID    string         `db:"session_public_id"`
	TenantID     string         `db:"tenant_id"`
	Status       string         `db:"status"`
	Constraints  string         `db:"constraints"`
	Participants string         `db:"participants"`
	Assignment   string         `db:"assignment"`
	Reserves     pq.StringArray `db:"reserves"`
	Spread       float64        `db:"spread"`
	Iterations   int            `db:"iterations"`
	Version      int64          `db:"version"`
	PublishedAt  *time.Time     `db:"published_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

type draftSessionInsertModel struct {
	SessionID    string         `db:"session_public_id"`
	TenantID     string         `db:"tenant_id"`
	Status       string         `db:"status"`
	Constraints  string         `db:"constraints"`
	Participants string         `db:"participants"`
	Assignment   string         `db:"assignment"`
	Reserves     pq.StringArray `db:"reserves"`
	Spread       float64        `db:"spread"`
	Iterations   int            `db:"iterations"`
	Version      int64          `db:"version"`
	PublishedAt  *time.Time     `db:"published_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// JSONB payload shapes. Constraints persist as the raw admin input so the
// rule set can be re-validated against the stored participant snapshot on
// load; teams are never persisted, they stay derived.

type scoreWeightsPayload struct {
	Ranking float64 `json:"ranking"`
	WinRate float64 `json:"win_rate"`
	Goals   float64 `json:"goals"`
	Assists float64 `json:"assists"`
	Stars   float64 `json:"stars"`
}

type pinPayload struct {
	ParticipantID string `json:"participant_id"`
	Team          int    `json:"team"`
}

type pairPayload struct {
	A string `json:"a"`
	B string `json:"b"`
}

type constraintsPayload struct {
	TeamCount                int                  `json:"team_count"`
	TeamSize                 int                  `json:"team_size"`
	SeparationPairs          []pairPayload        `json:"separation_pairs,omitempty"`
	Pins                     []pinPayload         `json:"pins,omitempty"`
	RequireGoalkeeperPerTeam bool                 `json:"require_goalkeeper_per_team"`
	ScoreWeights             *scoreWeightsPayload `json:"score_weights,omitempty"`
	MaxRefineIterations      int                  `json:"max_refine_iterations,omitempty"`
}

type participantPayload struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Nickname        string  `json:"nickname,omitempty"`
	Position        string  `json:"position"`
	RankingPoints   float64 `json:"ranking_points"`
	WinRate         float64 `json:"win_rate"`
	GoalsPerMatch   float64 `json:"goals_per_match"`
	AssistsPerMatch float64 `json:"assists_per_match"`
	StarRating      int     `json:"star_rating"`
	IsMonthlyPayer  bool    `json:"is_monthly_payer"`
}

func encodeConstraints(input draft.ConstraintSetInput) (string, error) {
	payload := constraintsPayload{
		TeamCount:                input.TeamCount,
		TeamSize:                 input.TeamSize,
		RequireGoalkeeperPerTeam: input.RequireGoalkeeperPerTeam,
		MaxRefineIterations:      input.MaxRefineIterations,
	}
	for _, pair := range input.SeparationPairs {
		payload.SeparationPairs = append(payload.SeparationPairs, pairPayload{A: pair.A, B: pair.B})
	}
	for _, pin := range input.Pins {
		payload.Pins = append(payload.Pins, pinPayload{ParticipantID: pin.ParticipantID, Team: pin.Team})
	}
	if input.ScoreWeights != nil {
		payload.ScoreWeights = &scoreWeightsPayload{
			Ranking: input.ScoreWeights.Ranking,
			WinRate: input.ScoreWeights.WinRate,
			Goals:   input.ScoreWeights.Goals,
			Assists: input.ScoreWeights.Assists,
			Stars:   input.ScoreWeights.Stars,
		}
	}

	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeConstraints(raw string) (draft.ConstraintSetInput, error) {
	var payload constraintsPayload
	if err := sonic.Unmarshal([]byte(raw), &payload); err != nil {
		return draft.ConstraintSetInput{}, err
	}

	input := draft.ConstraintSetInput{
		TeamCount:                payload.TeamCount,
		TeamSize:                 payload.TeamSize,
		RequireGoalkeeperPerTeam: payload.RequireGoalkeeperPerTeam,
		MaxRefineIterations:      payload.MaxRefineIterations,
	}
	for _, pair := range payload.SeparationPairs {
		input.SeparationPairs = append(input.SeparationPairs, draft.Pair{A: pair.A, B: pair.B})
	}
	for _, pin := range payload.Pins {
		input.Pins = append(input.Pins, draft.Pin{ParticipantID: pin.ParticipantID, Team: pin.Team})
	}
	if payload.ScoreWeights != nil {
		input.ScoreWeights = &draft.ScoreWeights{
			Ranking: payload.ScoreWeights.Ranking,
			WinRate: payload.ScoreWeights.WinRate,
			Goals:   payload.ScoreWeights.Goals,
			Assists: payload.ScoreWeights.Assists,
			Stars:   payload.ScoreWeights.Stars,
		}
	}
	return input, nil
}

func encodeParticipants(pool []participant.Participant) (string, error) {
	payload := make([]participantPayload, 0, len(pool))
	for _, p := range pool {
		payload = append(payload, participantPayload{
			ID:              p.ID,
			Name:            p.Name,
			Nickname:        p.Nickname,
			Position:        string(p.Position),
			RankingPoints:   p.RankingPoints,
			WinRate:         p.WinRate,
			GoalsPerMatch:   p.GoalsPerMatch,
			AssistsPerMatch: p.AssistsPerMatch,
			StarRating:      p.StarRating,
			IsMonthlyPayer:  p.IsMonthlyPayer,
		})
	}

	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeParticipants(raw, tenantID string) ([]participant.Participant, error) {
	var payload []participantPayload
	if err := sonic.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}

	out := make([]participant.Participant, 0, len(payload))
	for _, row := range payload {
		out = append(out, participant.Participant{
			ID:              row.ID,
			TenantID:        tenantID,
			Name:            row.Name,
			Nickname:        row.Nickname,
			Position:        participant.Position(row.Position),
			RankingPoints:   row.RankingPoints,
			WinRate:         row.WinRate,
			GoalsPerMatch:   row.GoalsPerMatch,
			AssistsPerMatch: row.AssistsPerMatch,
			StarRating:      row.StarRating,
			IsMonthlyPayer:  row.IsMonthlyPayer,
		})
	}
	return out, nil
}

func encodeAssignment(assignment map[string]int) (string, error) {
	if assignment == nil {
		assignment = map[string]int{}
	}
	encoded, err := sonic.Marshal(assignment)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeAssignment(raw string) (map[string]int, error) {
	out := make(map[string]int)
	if raw == "" {
		return out, nil
	}
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func draftSessionToInsertModel(session draft.Session) (draftSessionInsertModel, error) {
	constraints, err := encodeConstraints(session.Constraints.Input())
	if err != nil {
		return draftSessionInsertModel{}, err
	}
	participants, err := encodeParticipants(session.Participants)
	if err != nil {
		return draftSessionInsertModel{}, err
	}
	assignment, err := encodeAssignment(session.Assignment)
	if err != nil {
		return draftSessionInsertModel{}, err
	}

	return draftSessionInsertModel{
		SessionID:    session.ID,
		TenantID:     session.TenantID,
		Status:       string(session.Status),
		Constraints:  constraints,
		Participants: participants,
		Assignment:   assignment,
		Reserves:     pq.StringArray(session.Reserves),
		Spread:       session.Spread,
		Iterations:   session.Iterations,
		Version:      session.Version,
		PublishedAt:  session.PublishedAt,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}, nil
}

func draftSessionFromRow(row draftSessionTableModel) (draft.Session, error) {
	pool, err := decodeParticipants(row.Participants, row.TenantID)
	if err != nil {
		return draft.Session{}, err
	}
	input, err := decodeConstraints(row.Constraints)
	if err != nil {
		return draft.Session{}, err
	}
	constraints, err := draft.NewConstraintSet(input, pool)
	if err != nil {
		return draft.Session{}, err
	}
	assignment, err := decodeAssignment(row.Assignment)
	if err != nil {
		return draft.Session{}, err
	}

	return draft.Session{
		ID:           row.SessionID,
		TenantID:     row.TenantID,
		Status:       draft.Status(row.Status),
		Constraints:  constraints,
		Participants: pool,
		Assignment:   assignment,
		Reserves:     append([]string(nil), row.Reserves...),
		Spread:       row.Spread,
		Iterations:   row.Iterations,
		Version:      row.Version,
		PublishedAt:  row.PublishedAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

package participant

import (
	"fmt"
	"math"
	"strings"
)

// Position represents football position categories used when drafting teams.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// longPositionNames maps the labels used by the legacy racha app to the
// short position codes used everywhere in this service.
var longPositionNames = map[string]Position{
	"GOALKEEPER": PositionGoalkeeper,
	"DEFENDER":   PositionDefender,
	"MIDFIELDER": PositionMidfielder,
	"FORWARD":    PositionForward,
}

func ParsePosition(raw string) (Position, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return "", fmt.Errorf("position is required")
	}
	if _, ok := AllPositions[Position(value)]; ok {
		return Position(value), nil
	}
	if pos, ok := longPositionNames[value]; ok {
		return pos, nil
	}

	return "", fmt.Errorf("invalid position: %s", raw)
}

// Participant is one candidate for a session draft. Historical performance
// fields are normalized to [0,1] at ingestion; StarRating stays on the 0..5
// scale admins enter it with.
type Participant struct {
	ID              string
	TenantID        string
	Name            string
	Nickname        string
	Position        Position
	RankingPoints   float64
	WinRate         float64
	GoalsPerMatch   float64
	AssistsPerMatch float64
	StarRating      int
	IsMonthlyPayer  bool
}

func (p Participant) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("participant id is required")
	}
	if p.TenantID == "" {
		return fmt.Errorf("participant tenant id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("participant name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid participant position: %s", p.Position)
	}

	return nil
}

// Normalize clamps every numeric input into its valid range. Participants
// with no match history carry zeroes, and upstream aggregates occasionally
// produce NaN on empty divisions; scoring expects clean values and never
// re-normalizes.
func (p Participant) Normalize() Participant {
	p.RankingPoints = clampUnit(p.RankingPoints)
	p.WinRate = clampUnit(p.WinRate)
	p.GoalsPerMatch = clampUnit(p.GoalsPerMatch)
	p.AssistsPerMatch = clampUnit(p.AssistsPerMatch)
	if p.StarRating < 0 {
		p.StarRating = 0
	}
	if p.StarRating > 5 {
		p.StarRating = 5
	}

	return p
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}

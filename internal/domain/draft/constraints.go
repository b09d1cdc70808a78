package draft

import (
	"fmt"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

const defaultRefineIterationCap = 50

// ScoreWeights tunes the relative emphasis of each performance input.
// Tenants with little match history typically raise Stars and lower the rest.
type ScoreWeights struct {
	Ranking float64
	WinRate float64
	Goals   float64
	Assists float64
	Stars   float64
}

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Ranking: 0.2, WinRate: 0.2, Goals: 0.2, Assists: 0.2, Stars: 0.2}
}

func (w ScoreWeights) sum() float64 {
	return w.Ranking + w.WinRate + w.Goals + w.Assists + w.Stars
}

func (w ScoreWeights) validate() error {
	if w.Ranking < 0 || w.WinRate < 0 || w.Goals < 0 || w.Assists < 0 || w.Stars < 0 {
		return ErrInvalidScoreWeights
	}
	if w.sum() <= 0 {
		return ErrInvalidScoreWeights
	}

	return nil
}

// normalized scales the weights to sum 1 so tenant overrides keep scores
// comparable in [0,1].
func (w ScoreWeights) normalized() ScoreWeights {
	total := w.sum()
	if total <= 0 {
		return DefaultScoreWeights()
	}

	return ScoreWeights{
		Ranking: w.Ranking / total,
		WinRate: w.WinRate / total,
		Goals:   w.Goals / total,
		Assists: w.Assists / total,
		Stars:   w.Stars / total,
	}
}

// Pin fixes one participant to a team before balancing runs.
type Pin struct {
	ParticipantID string
	Team          int
}

// Pair is an unordered pair of participants that must not share a team.
type Pair struct {
	A string
	B string
}

// ConstraintSetInput is the raw, caller-supplied configuration for one draft.
type ConstraintSetInput struct {
	TeamCount                int
	TeamSize                 int
	SeparationPairs          []Pair
	Pins                     []Pin
	RequireGoalkeeperPerTeam bool
	ScoreWeights             *ScoreWeights
	MaxRefineIterations      int
}

// ConstraintSet is the validated, immutable rule set for one draft. Build it
// with NewConstraintSet; the zero value is unusable.
type ConstraintSet struct {
	teamCount     int
	teamSize      int
	pairs         []Pair
	separated     map[string]map[string]struct{}
	pins          map[string]int
	requireGK     bool
	weights       ScoreWeights
	refineIterCap int
	input         ConstraintSetInput
}

// NewConstraintSet validates raw configuration against the draft pool and
// returns an immutable rule set, or a rule-specific error naming exactly what
// the admin has to fix.
func NewConstraintSet(input ConstraintSetInput, pool []participant.Participant) (ConstraintSet, error) {
	if input.TeamCount < 2 {
		return ConstraintSet{}, fmt.Errorf("%w (got %d)", ErrTeamCountTooSmall, input.TeamCount)
	}
	if input.TeamSize < 1 {
		return ConstraintSet{}, fmt.Errorf("%w (got %d)", ErrTeamSizeTooSmall, input.TeamSize)
	}

	known := make(map[string]struct{}, len(pool))
	for _, p := range pool {
		known[p.ID] = struct{}{}
	}

	separated := make(map[string]map[string]struct{}, len(input.SeparationPairs)*2)
	for _, pair := range input.SeparationPairs {
		if pair.A == "" || pair.B == "" || pair.A == pair.B {
			return ConstraintSet{}, fmt.Errorf("%w: %q/%q", ErrInvalidSeparationPair, pair.A, pair.B)
		}
		for _, id := range []string{pair.A, pair.B} {
			if _, ok := known[id]; !ok {
				return ConstraintSet{}, fmt.Errorf("%w: %s in separation pair", ErrUnknownParticipant, id)
			}
		}
		addSeparation(separated, pair.A, pair.B)
	}

	pins := make(map[string]int, len(input.Pins))
	pinsPerTeam := make(map[int]int, input.TeamCount)
	for _, pin := range input.Pins {
		if _, ok := known[pin.ParticipantID]; !ok {
			return ConstraintSet{}, fmt.Errorf("%w: %s in pinned assignments", ErrUnknownParticipant, pin.ParticipantID)
		}
		if pin.Team < 0 || pin.Team >= input.TeamCount {
			return ConstraintSet{}, fmt.Errorf("%w: %s -> team %d", ErrPinOutOfRange, pin.ParticipantID, pin.Team)
		}
		if _, dup := pins[pin.ParticipantID]; dup {
			return ConstraintSet{}, fmt.Errorf("%w: %s", ErrDuplicatePin, pin.ParticipantID)
		}
		pins[pin.ParticipantID] = pin.Team
		pinsPerTeam[pin.Team]++
		if pinsPerTeam[pin.Team] > input.TeamSize {
			return ConstraintSet{}, fmt.Errorf("%w: %d participants pinned to team %d with team size %d",
				ErrCapacityExceeded, pinsPerTeam[pin.Team], pin.Team, input.TeamSize)
		}
	}

	// A separation pair between two participants pinned to the same team can
	// never be satisfied; reject it with both names so the admin UI can point
	// at the exact contradiction.
	for id, team := range pins {
		for other := range separated[id] {
			if otherTeam, ok := pins[other]; ok && otherTeam == team {
				if id < other {
					return ConstraintSet{}, fmt.Errorf("%w: %s and %s on team %d", ErrPinSeparationConflict, id, other, team)
				}
			}
		}
	}

	weights := DefaultScoreWeights()
	if input.ScoreWeights != nil {
		if err := input.ScoreWeights.validate(); err != nil {
			return ConstraintSet{}, err
		}
		weights = input.ScoreWeights.normalized()
	}

	refineCap := input.MaxRefineIterations
	if refineCap <= 0 {
		refineCap = defaultRefineIterationCap
	}

	return ConstraintSet{
		teamCount:     input.TeamCount,
		teamSize:      input.TeamSize,
		pairs:         append([]Pair(nil), input.SeparationPairs...),
		separated:     separated,
		pins:          pins,
		requireGK:     input.RequireGoalkeeperPerTeam,
		weights:       weights,
		refineIterCap: refineCap,
		input:         cloneInput(input),
	}, nil
}

func (cs ConstraintSet) TeamCount() int { return cs.teamCount }
func (cs ConstraintSet) TeamSize() int  { return cs.teamSize }
func (cs ConstraintSet) Capacity() int  { return cs.teamCount * cs.teamSize }

func (cs ConstraintSet) RequireGoalkeeperPerTeam() bool { return cs.requireGK }
func (cs ConstraintSet) Weights() ScoreWeights          { return cs.weights }
func (cs ConstraintSet) RefineIterationCap() int        { return cs.refineIterCap }

// PinnedTeam reports the fixed team for a participant, if any.
func (cs ConstraintSet) PinnedTeam(participantID string) (int, bool) {
	team, ok := cs.pins[participantID]
	return team, ok
}

// Separated reports whether two participants must not share a team.
func (cs ConstraintSet) Separated(a, b string) bool {
	if peers, ok := cs.separated[a]; ok {
		if _, hit := peers[b]; hit {
			return true
		}
	}

	return false
}

// SeparatedFromAny reports whether placing the participant next to any of the
// given teammates would break a separation pair, returning the first
// offending teammate.
func (cs ConstraintSet) SeparatedFromAny(participantID string, teammates []string) (string, bool) {
	for _, teammate := range teammates {
		if cs.Separated(participantID, teammate) {
			return teammate, true
		}
	}

	return "", false
}

// Input returns a deep copy of the raw configuration, used to persist and
// later rebuild the set. The copy keeps the ConstraintSet itself immutable.
func (cs ConstraintSet) Input() ConstraintSetInput {
	return cloneInput(cs.input)
}

func addSeparation(separated map[string]map[string]struct{}, a, b string) {
	if separated[a] == nil {
		separated[a] = make(map[string]struct{})
	}
	if separated[b] == nil {
		separated[b] = make(map[string]struct{})
	}
	separated[a][b] = struct{}{}
	separated[b][a] = struct{}{}
}

func cloneInput(input ConstraintSetInput) ConstraintSetInput {
	cloned := input
	cloned.SeparationPairs = append([]Pair(nil), input.SeparationPairs...)
	cloned.Pins = append([]Pin(nil), input.Pins...)
	if input.ScoreWeights != nil {
		weights := *input.ScoreWeights
		cloned.ScoreWeights = &weights
	}

	return cloned
}

package draft

import (
	"sort"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

// BuildResult is the construction heuristic's output: a participant -> team
// assignment plus the participants no team could legally accept.
type BuildResult struct {
	Assignment map[string]int
	Reserves   []string
}

type teamState struct {
	members  []string
	capacity int
	gkCount  int
}

// Build produces the initial partition with a deterministic positional snake
// draft: pins first, then each position group sorted by score descending
// (ties by ID ascending) distributed across teams in alternating order.
// Goalkeepers are handed out first, and with the goalkeeper policy on they
// prefer teams that still lack one. A participant no team can legally take
// becomes a reserve; Build never fails, a live admin session always gets a
// usable result.
func Build(pool []participant.Participant, cs ConstraintSet) BuildResult {
	teams := make([]teamState, cs.TeamCount())
	for i := range teams {
		teams[i].capacity = cs.TeamSize()
	}

	assignment := make(map[string]int, len(pool))
	byID := make(map[string]participant.Participant, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}

	// Pinned assignments are hard constraints applied before any balancing.
	// Validation already guarantees they fit the team capacity.
	pinnedIDs := make([]string, 0, len(pool))
	for _, p := range pool {
		if _, ok := cs.PinnedTeam(p.ID); ok {
			pinnedIDs = append(pinnedIDs, p.ID)
		}
	}
	sort.Strings(pinnedIDs)
	for _, id := range pinnedIDs {
		team, _ := cs.PinnedTeam(id)
		place(teams, assignment, byID[id], team)
	}

	groups := groupByPosition(pool, cs)
	cursor := snakeCursor{n: cs.TeamCount(), dir: 1}

	var reserves []string
	for _, group := range groups {
		for _, p := range group {
			team, ok := pickTeam(teams, cs, p, cursor)
			if !ok {
				reserves = append(reserves, p.ID)
				continue
			}
			place(teams, assignment, p, team.current())
			cursor = team
			cursor.advance()
		}
	}

	sort.Strings(reserves)

	return BuildResult{Assignment: assignment, Reserves: reserves}
}

func place(teams []teamState, assignment map[string]int, p participant.Participant, team int) {
	teams[team].members = append(teams[team].members, p.ID)
	teams[team].capacity--
	if p.Position == participant.PositionGoalkeeper {
		teams[team].gkCount++
	}
	assignment[p.ID] = team
}

// groupByPosition returns the unpinned pool split by position, goalkeepers
// first, each group sorted by score descending with ID as the tie-break.
func groupByPosition(pool []participant.Participant, cs ConstraintSet) [][]participant.Participant {
	order := []participant.Position{
		participant.PositionGoalkeeper,
		participant.PositionDefender,
		participant.PositionMidfielder,
		participant.PositionForward,
	}

	grouped := make(map[participant.Position][]participant.Participant, len(order))
	for _, p := range pool {
		if _, pinned := cs.PinnedTeam(p.ID); pinned {
			continue
		}
		grouped[p.Position] = append(grouped[p.Position], p)
	}

	weights := cs.Weights()
	out := make([][]participant.Participant, 0, len(order))
	for _, pos := range order {
		group := grouped[pos]
		sort.Slice(group, func(i, j int) bool {
			si, sj := Score(group[i], weights), Score(group[j], weights)
			if si != sj {
				return si > sj
			}
			return group[i].ID < group[j].ID
		})
		out = append(out, group)
	}

	return out
}

// pickTeam scans forward from the cursor in snake order and returns the
// cursor positioned on the first team that can legally take the participant.
// Goalkeepers under the per-team policy first look for a team that still has
// none. A full scan of every team with no legal slot means reserve.
func pickTeam(teams []teamState, cs ConstraintSet, p participant.Participant, cursor snakeCursor) (snakeCursor, bool) {
	preferGKless := cs.RequireGoalkeeperPerTeam() && p.Position == participant.PositionGoalkeeper

	if preferGKless {
		probe := cursor
		for range 2 * len(teams) {
			team := probe.current()
			if teams[team].gkCount == 0 && legal(teams[team], cs, p) {
				return probe, true
			}
			probe.advance()
		}
	}

	probe := cursor
	for range 2 * len(teams) {
		team := probe.current()
		if legal(teams[team], cs, p) {
			return probe, true
		}
		probe.advance()
	}

	return cursor, false
}

func legal(team teamState, cs ConstraintSet, p participant.Participant) bool {
	if team.capacity <= 0 {
		return false
	}
	if _, conflict := cs.SeparatedFromAny(p.ID, team.members); conflict {
		return false
	}

	return true
}

// snakeCursor walks team indices 0..n-1 then n-1..0, repeating the endpoints,
// so consecutive picks from a sorted group land on different teams and the
// strongest and weakest of a group spread instead of clustering.
type snakeCursor struct {
	n   int
	idx int
	dir int
}

func (s snakeCursor) current() int { return s.idx }

func (s *snakeCursor) advance() {
	next := s.idx + s.dir
	if next < 0 || next >= s.n {
		s.dir = -s.dir
		return
	}
	s.idx = next
}

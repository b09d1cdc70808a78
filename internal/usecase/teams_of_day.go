package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/racha-hq/racha-manager/internal/domain/draft"
	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

type TeamMemberView struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Nickname string               `json:"nickname,omitempty"`
	Position participant.Position `json:"position"`
}

type TeamView struct {
	Index       int              `json:"index"`
	Score       float64          `json:"score"`
	StarSum     int              `json:"star_sum"`
	Goalkeepers int              `json:"goalkeepers"`
	Members     []TeamMemberView `json:"members"`
}

// TeamsOfDay is the read model served to players after publish.
type TeamsOfDay struct {
	SessionID   string           `json:"session_id"`
	TenantID    string           `json:"tenant_id"`
	PublishedAt time.Time        `json:"published_at"`
	Spread      float64          `json:"spread"`
	Teams       []TeamView       `json:"teams"`
	Reserves    []TeamMemberView `json:"reserves"`
}

func teamsOfDayCacheKey(tenantID string) string {
	return "teams-of-day::" + tenantID
}

// GetTeamsOfDay returns the latest published session rendered for players.
// The view is cached; Publish invalidates the tenant's entry.
func (s *DraftService) GetTeamsOfDay(ctx context.Context, tenantID string) (TeamsOfDay, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetTeamsOfDay")
	defer span.End()

	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return TeamsOfDay{}, fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}

	loader := func(ctx context.Context) (any, error) {
		session, exists, err := s.historyRepo.GetLatestPublished(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("get latest published session tenant=%s: %w", tenantID, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: no published session for tenant=%s", ErrNotFound, tenantID)
		}
		return renderTeamsOfDay(session), nil
	}

	if s.teamsCache == nil {
		value, err := loader(ctx)
		if err != nil {
			return TeamsOfDay{}, err
		}
		return value.(TeamsOfDay), nil
	}

	value, err := s.teamsCache.GetOrLoad(ctx, teamsOfDayCacheKey(tenantID), loader)
	if err != nil {
		return TeamsOfDay{}, err
	}

	view, ok := value.(TeamsOfDay)
	if !ok {
		return TeamsOfDay{}, fmt.Errorf("unexpected cached value type %T", value)
	}
	return view, nil
}

func renderTeamsOfDay(session draft.Session) TeamsOfDay {
	byID := make(map[string]participant.Participant, len(session.Participants))
	for _, p := range session.Participants {
		byID[p.ID] = p
	}

	teams := session.Teams()
	views := make([]TeamView, 0, len(teams))
	for _, team := range teams {
		view := TeamView{
			Index:       team.Index,
			Score:       team.Score,
			StarSum:     team.StarSum,
			Goalkeepers: team.GoalkeeperCount,
			Members:     make([]TeamMemberView, 0, len(team.ParticipantIDs)),
		}
		for _, memberID := range team.ParticipantIDs {
			view.Members = append(view.Members, memberView(byID[memberID]))
		}
		views = append(views, view)
	}

	reserves := make([]TeamMemberView, 0, len(session.Reserves))
	for _, reserveID := range session.Reserves {
		reserves = append(reserves, memberView(byID[reserveID]))
	}

	publishedAt := time.Time{}
	if session.PublishedAt != nil {
		publishedAt = *session.PublishedAt
	}

	return TeamsOfDay{
		SessionID:   session.ID,
		TenantID:    session.TenantID,
		PublishedAt: publishedAt,
		Spread:      session.Spread,
		Teams:       views,
		Reserves:    reserves,
	}
}

func memberView(p participant.Participant) TeamMemberView {
	return TeamMemberView{
		ID:       p.ID,
		Name:     p.Name,
		Nickname: p.Nickname,
		Position: p.Position,
	}
}

package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/racha-hq/racha-manager/internal/domain/draft"
	"github.com/racha-hq/racha-manager/internal/domain/participant"
	"github.com/racha-hq/racha-manager/internal/usecase"
)

func (h *Handler) GetRosterSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRosterSnapshot")
	defer span.End()

	tenantID, _, err := h.tenantAdmin(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	pool, err := h.rosterService.Snapshot(ctx, tenantID)
	if err != nil {
		h.logger.WarnContext(ctx, "roster snapshot failed", "tenant_id", tenantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	weights := draft.DefaultScoreWeights()
	items := make([]rosterEntryDTO, 0, len(pool))
	for _, p := range pool {
		items = append(items, rosterEntryToDTO(ctx, p, weights))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ComputeDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ComputeDraft")
	defer span.End()

	tenantID, _, err := h.tenantAdmin(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req computeDraftRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.draftService.Compute(ctx, usecase.ComputeDraftInput{
		TenantID:    tenantID,
		Version:     req.Version,
		Constraints: req.toConstraintInput(ctx),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "compute draft failed", "tenant_id", tenantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(ctx, session))
}

func (h *Handler) GetActiveDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetActiveDraft")
	defer span.End()

	tenantID, _, err := h.tenantAdmin(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.draftService.GetActive(ctx, tenantID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(ctx, session))
}

func (h *Handler) GetDraftSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraftSession")
	defer span.End()

	tenantID, _, err := h.tenantAdmin(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	session, err := h.draftService.GetByID(ctx, tenantID, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(ctx, session))
}

func (h *Handler) SwapDraftParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapDraftParticipants")
	defer span.End()

	tenantID, _, err := h.tenantAdmin(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req swapRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.draftService.ManualSwap(ctx, usecase.SwapInput{
		TenantID:     tenantID,
		SessionID:    strings.TrimSpace(r.PathValue("sessionID")),
		Version:      req.Version,
		TeamA:        req.TeamA,
		ParticipantA: req.ParticipantA,
		TeamB:        req.TeamB,
		ParticipantB: req.ParticipantB,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "manual swap failed", "tenant_id", tenantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(ctx, session))
}

func (h *Handler) AssignDraftReserve(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignDraftReserve")
	defer span.End()

	tenantID, _, err := h.tenantAdmin(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req assignReserveRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.draftService.AssignReserve(ctx, usecase.AssignReserveInput{
		TenantID:      tenantID,
		SessionID:     strings.TrimSpace(r.PathValue("sessionID")),
		Version:       req.Version,
		ParticipantID: req.ParticipantID,
		Team:          req.Team,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "assign reserve failed", "tenant_id", tenantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(ctx, session))
}

func (h *Handler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishDraft")
	defer span.End()

	tenantID, _, err := h.tenantAdmin(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req publishRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.draftService.Publish(ctx, usecase.PublishInput{
		TenantID:            tenantID,
		SessionID:           strings.TrimSpace(r.PathValue("sessionID")),
		Version:             req.Version,
		AcknowledgeReserves: req.AcknowledgeReserves,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "publish draft failed", "tenant_id", tenantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(ctx, session))
}

func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DiscardDraft")
	defer span.End()

	tenantID, _, err := h.tenantAdmin(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	version, err := parseVersionQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	err = h.draftService.Discard(ctx, usecase.DiscardInput{
		TenantID:  tenantID,
		SessionID: strings.TrimSpace(r.PathValue("sessionID")),
		Version:   version,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "discard draft failed", "tenant_id", tenantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "discarded"})
}

func (h *Handler) ListDraftHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDraftHistory")
	defer span.End()

	tenantID, _, err := h.tenantAdmin(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			writeError(ctx, w, invalidQueryError("limit", raw))
			return
		}
		limit = parsed
	}

	sessions, err := h.draftService.ListHistory(ctx, tenantID, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, sessionToDTO(ctx, session))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseVersionQuery(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("version"))
	if raw == "" {
		return 0, invalidQueryError("version", raw)
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidQueryError("version", raw)
	}
	return version, nil
}

func invalidQueryError(name, value string) error {
	return fmt.Errorf("%w: invalid %s query parameter: %q", usecase.ErrInvalidInput, name, value)
}

type computeDraftRequest struct {
	// Version echoes the active session's version when recomputing; it stays
	// zero for a tenant's first draw.
	Version                  int64            `json:"version" validate:"min=0"`
	TeamCount                int              `json:"team_count" validate:"required,min=2"`
	TeamSize                 int              `json:"team_size" validate:"required,min=1"`
	RequireGoalkeeperPerTeam bool             `json:"require_goalkeeper_per_team"`
	SeparationPairs          []pairDTO        `json:"separation_pairs" validate:"dive"`
	Pins                     []pinDTO         `json:"pins" validate:"dive"`
	ScoreWeights             *scoreWeightsDTO `json:"score_weights"`
	MaxRefineIterations      int              `json:"max_refine_iterations" validate:"min=0"`
}

func (req computeDraftRequest) toConstraintInput(ctx context.Context) draft.ConstraintSetInput {
	_, span := startSpan(ctx, "httpapi.computeDraftRequest.toConstraintInput")
	defer span.End()

	input := draft.ConstraintSetInput{
		TeamCount:                req.TeamCount,
		TeamSize:                 req.TeamSize,
		RequireGoalkeeperPerTeam: req.RequireGoalkeeperPerTeam,
		MaxRefineIterations:      req.MaxRefineIterations,
	}
	for _, pair := range req.SeparationPairs {
		input.SeparationPairs = append(input.SeparationPairs, draft.Pair{A: pair.A, B: pair.B})
	}
	for _, pin := range req.Pins {
		input.Pins = append(input.Pins, draft.Pin{ParticipantID: pin.ParticipantID, Team: pin.Team})
	}
	if req.ScoreWeights != nil {
		input.ScoreWeights = &draft.ScoreWeights{
			Ranking: req.ScoreWeights.Ranking,
			WinRate: req.ScoreWeights.WinRate,
			Goals:   req.ScoreWeights.Goals,
			Assists: req.ScoreWeights.Assists,
			Stars:   req.ScoreWeights.Stars,
		}
	}

	return input
}

type swapRequest struct {
	Version      int64  `json:"version" validate:"required,min=1"`
	TeamA        int    `json:"team_a" validate:"min=0"`
	ParticipantA string `json:"participant_a" validate:"required"`
	TeamB        int    `json:"team_b" validate:"min=0"`
	ParticipantB string `json:"participant_b" validate:"required"`
}

type assignReserveRequest struct {
	Version       int64  `json:"version" validate:"required,min=1"`
	ParticipantID string `json:"participant_id" validate:"required"`
	Team          int    `json:"team" validate:"min=0"`
}

type publishRequest struct {
	Version             int64 `json:"version" validate:"required,min=1"`
	AcknowledgeReserves bool  `json:"acknowledge_reserves"`
}

type pairDTO struct {
	A string `json:"a" validate:"required"`
	B string `json:"b" validate:"required"`
}

type pinDTO struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	Team          int    `json:"team" validate:"min=0"`
}

type scoreWeightsDTO struct {
	Ranking float64 `json:"ranking"`
	WinRate float64 `json:"win_rate"`
	Goals   float64 `json:"goals"`
	Assists float64 `json:"assists"`
	Stars   float64 `json:"stars"`
}

type rosterEntryDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Nickname       string  `json:"nickname,omitempty"`
	Position       string  `json:"position"`
	StarRating     int     `json:"star_rating"`
	Score          float64 `json:"score"`
	Tier           int     `json:"tier"`
	IsMonthlyPayer bool    `json:"is_monthly_payer"`
}

type sessionDTO struct {
	ID          string           `json:"id"`
	TenantID    string           `json:"tenant_id"`
	Status      string           `json:"status"`
	Version     int64            `json:"version"`
	Spread      float64          `json:"spread"`
	Iterations  int              `json:"iterations"`
	Constraints constraintsDTO   `json:"constraints"`
	Teams       []sessionTeamDTO `json:"teams"`
	Reserves    []memberDTO      `json:"reserves"`
	PublishedAt string           `json:"published_at,omitempty"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

type constraintsDTO struct {
	TeamCount                int              `json:"team_count"`
	TeamSize                 int              `json:"team_size"`
	RequireGoalkeeperPerTeam bool             `json:"require_goalkeeper_per_team"`
	SeparationPairs          []pairDTO        `json:"separation_pairs,omitempty"`
	Pins                     []pinDTO         `json:"pins,omitempty"`
	ScoreWeights             *scoreWeightsDTO `json:"score_weights,omitempty"`
	MaxRefineIterations      int              `json:"max_refine_iterations,omitempty"`
}

type sessionTeamDTO struct {
	Index       int         `json:"index"`
	Score       float64     `json:"score"`
	StarSum     int         `json:"star_sum"`
	Goalkeepers int         `json:"goalkeepers"`
	Members     []memberDTO `json:"members"`
}

type memberDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Nickname string  `json:"nickname,omitempty"`
	Position string  `json:"position"`
	Score    float64 `json:"score"`
	Tier     int     `json:"tier"`
}

func rosterEntryToDTO(ctx context.Context, p participant.Participant, weights draft.ScoreWeights) rosterEntryDTO {
	_, span := startSpan(ctx, "httpapi.rosterEntryToDTO")
	defer span.End()

	score := draft.Score(p, weights)
	return rosterEntryDTO{
		ID:             p.ID,
		Name:           p.Name,
		Nickname:       p.Nickname,
		Position:       string(p.Position),
		StarRating:     p.StarRating,
		Score:          score,
		Tier:           draft.TierOf(score),
		IsMonthlyPayer: p.IsMonthlyPayer,
	}
}

func sessionToDTO(ctx context.Context, session draft.Session) sessionDTO {
	ctx, span := startSpan(ctx, "httpapi.sessionToDTO")
	defer span.End()

	byID := make(map[string]participant.Participant, len(session.Participants))
	for _, p := range session.Participants {
		byID[p.ID] = p
	}
	weights := session.Constraints.Weights()

	teams := session.Teams()
	teamItems := make([]sessionTeamDTO, 0, len(teams))
	for _, team := range teams {
		members := make([]memberDTO, 0, len(team.ParticipantIDs))
		for _, id := range team.ParticipantIDs {
			members = append(members, memberToDTO(ctx, byID[id], weights))
		}
		teamItems = append(teamItems, sessionTeamDTO{
			Index:       team.Index,
			Score:       team.Score,
			StarSum:     team.StarSum,
			Goalkeepers: team.GoalkeeperCount,
			Members:     members,
		})
	}

	reserves := make([]memberDTO, 0, len(session.Reserves))
	for _, id := range session.Reserves {
		reserves = append(reserves, memberToDTO(ctx, byID[id], weights))
	}

	dto := sessionDTO{
		ID:          session.ID,
		TenantID:    session.TenantID,
		Status:      string(session.Status),
		Version:     session.Version,
		Spread:      session.Spread,
		Iterations:  session.Iterations,
		Constraints: constraintsToDTO(ctx, session.Constraints.Input()),
		Teams:       teamItems,
		Reserves:    reserves,
		CreatedAt:   session.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   session.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if session.PublishedAt != nil {
		dto.PublishedAt = session.PublishedAt.UTC().Format(time.RFC3339)
	}

	return dto
}

func constraintsToDTO(ctx context.Context, input draft.ConstraintSetInput) constraintsDTO {
	_, span := startSpan(ctx, "httpapi.constraintsToDTO")
	defer span.End()

	dto := constraintsDTO{
		TeamCount:                input.TeamCount,
		TeamSize:                 input.TeamSize,
		RequireGoalkeeperPerTeam: input.RequireGoalkeeperPerTeam,
		MaxRefineIterations:      input.MaxRefineIterations,
	}
	for _, pair := range input.SeparationPairs {
		dto.SeparationPairs = append(dto.SeparationPairs, pairDTO{A: pair.A, B: pair.B})
	}
	for _, pin := range input.Pins {
		dto.Pins = append(dto.Pins, pinDTO{ParticipantID: pin.ParticipantID, Team: pin.Team})
	}
	if input.ScoreWeights != nil {
		dto.ScoreWeights = &scoreWeightsDTO{
			Ranking: input.ScoreWeights.Ranking,
			WinRate: input.ScoreWeights.WinRate,
			Goals:   input.ScoreWeights.Goals,
			Assists: input.ScoreWeights.Assists,
			Stars:   input.ScoreWeights.Stars,
		}
	}

	return dto
}

func memberToDTO(ctx context.Context, p participant.Participant, weights draft.ScoreWeights) memberDTO {
	_, span := startSpan(ctx, "httpapi.memberToDTO")
	defer span.End()

	score := draft.Score(p, weights)
	return memberDTO{
		ID:       p.ID,
		Name:     p.Name,
		Nickname: p.Nickname,
		Position: string(p.Position),
		Score:    score,
		Tier:     draft.TierOf(score),
	}
}

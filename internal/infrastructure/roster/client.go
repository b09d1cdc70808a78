// Package roster talks to the attendance service that tracks who has
// confirmed for the next match day, alongside the admin star ratings and
// match-history aggregates it keeps per group.
package roster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/racha-hq/racha-manager/internal/domain/participant"
	"github.com/racha-hq/racha-manager/internal/platform/resilience"
)

const maxResponseBytes = 1 << 20

// errTransient marks failures that should trip the circuit breaker:
// network errors and upstream 5xx responses. Caller mistakes (4xx) do not.
var errTransient = errors.New("attendance service transient failure")

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *resilience.CircuitBreaker
}

func NewClient(httpClient *http.Client, baseURL, apiKey string, breakerCfg resilience.CircuitBreakerConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var breaker *resilience.CircuitBreaker
	if breakerCfg.Enabled {
		breaker = resilience.NewCircuitBreaker(breakerCfg)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		breaker:    breaker,
	}
}

var (
	_ participant.RosterSource  = (*Client)(nil)
	_ participant.RatingSource  = (*Client)(nil)
	_ participant.HistorySource = (*Client)(nil)
)

func (c *Client) ListConfirmed(ctx context.Context, tenantID string) ([]participant.Member, error) {
	var decoded confirmedResponse
	if err := c.getJSON(ctx, tenantID, "confirmed", &decoded); err != nil {
		return nil, err
	}

	members := make([]participant.Member, 0, len(decoded.Members))
	for _, row := range decoded.Members {
		position, err := participant.ParsePosition(row.Position)
		if err != nil {
			return nil, errors.Wrapf(err, "confirmed member %s", row.ID)
		}
		members = append(members, participant.Member{
			ID:             row.ID,
			Name:           row.Name,
			Nickname:       row.Nickname,
			Position:       position,
			IsMonthlyPayer: row.MonthlyPayer,
		})
	}

	return members, nil
}

func (c *Client) StarRatings(ctx context.Context, tenantID string) (map[string]int, error) {
	var decoded ratingsResponse
	if err := c.getJSON(ctx, tenantID, "star-ratings", &decoded); err != nil {
		return nil, err
	}

	ratings := make(map[string]int, len(decoded.Ratings))
	for _, row := range decoded.Ratings {
		ratings[row.ParticipantID] = row.Stars
	}

	return ratings, nil
}

func (c *Client) Performance(ctx context.Context, tenantID string) (map[string]participant.Performance, error) {
	var decoded performanceResponse
	if err := c.getJSON(ctx, tenantID, "performance", &decoded); err != nil {
		return nil, err
	}

	entries := make(map[string]participant.Performance, len(decoded.Entries))
	for _, row := range decoded.Entries {
		entries[row.ParticipantID] = participant.Performance{
			RankingPoints:   row.RankingPoints,
			WinRate:         row.WinRate,
			GoalsPerMatch:   row.GoalsPerMatch,
			AssistsPerMatch: row.AssistsPerMatch,
		}
	}

	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, tenantID, resource string, out any) error {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return errors.New("tenant id is required")
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return errors.Wrapf(err, "attendance service %s", resource)
		}
	}

	err := c.doJSON(ctx, tenantID, resource, out)
	if c.breaker != nil {
		if errors.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	return err
}

func (c *Client) doJSON(ctx context.Context, tenantID, resource string, out any) error {
	endpoint := fmt.Sprintf("%s/v1/tenants/%s/%s", c.baseURL, tenantID, resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrapf(err, "create %s request", resource)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(errTransient, "request %s: %v", resource, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrapf(errTransient, "read %s response: %v", resource, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return errors.Wrapf(errTransient, "%s returned status %d", resource, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return errors.Newf("%s returned status %d", resource, resp.StatusCode)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "decode %s response", resource)
	}

	return nil
}

type confirmedResponse struct {
	Members []memberRow `json:"members"`
}

type memberRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname"`
	Position     string `json:"position"`
	MonthlyPayer bool   `json:"monthly_payer"`
}

type ratingsResponse struct {
	Ratings []ratingRow `json:"ratings"`
}

type ratingRow struct {
	ParticipantID string `json:"participant_id"`
	Stars         int    `json:"stars"`
}

type performanceResponse struct {
	Entries []performanceRow `json:"entries"`
}

type performanceRow struct {
	ParticipantID   string  `json:"participant_id"`
	RankingPoints   float64 `json:"ranking_points"`
	WinRate         float64 `json:"win_rate"`
	GoalsPerMatch   float64 `json:"goals_per_match"`
	AssistsPerMatch float64 `json:"assists_per_match"`
}

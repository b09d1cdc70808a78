// Package gapura verifies admin access tokens against the gapura account
// service. Verified tokens are cached briefly so every request does not pay
// for a remote introspection round trip.
package gapura

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/racha-hq/racha-manager/internal/domain/admin"
	"github.com/racha-hq/racha-manager/internal/platform/cache"
	"github.com/racha-hq/racha-manager/internal/platform/logging"
	"github.com/racha-hq/racha-manager/internal/platform/resilience"
	"github.com/racha-hq/racha-manager/internal/usecase"
)

const (
	maxResponseBytes = 1 << 20
	tokenCacheTTL    = 30 * time.Second
)

// errTransient marks failures that should count against the circuit breaker.
var errTransient = errors.New("gapura transient failure")

type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	breaker       *resilience.CircuitBreaker
	tokens        *cache.Store
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, introspectPath, adminKey string, breakerCfg resilience.CircuitBreakerConfig, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.CircuitBreaker
	if breakerCfg.Enabled {
		breaker = resilience.NewCircuitBreaker(breakerCfg)
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, introspectPath),
		adminKey:      strings.TrimSpace(adminKey),
		breaker:       breaker,
		tokens:        cache.NewStore(tokenCacheTTL),
		logger:        logger,
	}
}

// VerifyAccessToken introspects the bearer token and returns the admin it
// belongs to. Unknown, expired, and revoked tokens map to ErrUnauthorized.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (admin.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return admin.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "token is required")
	}

	cacheKey := "token::" + hashToken(token)
	if cached, ok := c.tokens.Get(ctx, cacheKey); ok {
		if principal, ok := cached.(admin.Principal); ok {
			return principal, nil
		}
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return admin.Principal{}, errors.Wrapf(usecase.ErrDependencyUnavailable, "gapura introspection: %v", err)
		}
	}

	principal, err := c.introspect(ctx, token)
	if c.breaker != nil {
		if errors.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		if errors.Is(err, errTransient) {
			return admin.Principal{}, errors.Wrapf(usecase.ErrDependencyUnavailable, "gapura introspection: %v", err)
		}
		return admin.Principal{}, err
	}

	c.tokens.Set(ctx, cacheKey, principal)

	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (admin.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return admin.Principal{}, errors.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return admin.Principal{}, errors.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return admin.Principal{}, errors.Wrapf(errTransient, "request introspection: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return admin.Principal{}, errors.Wrapf(errTransient, "read introspect response: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return admin.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "introspection denied")
	case resp.StatusCode == http.StatusForbidden:
		// A rejected admin key is a deployment problem, not a caller problem.
		return admin.Principal{}, errors.Wrapf(errTransient, "introspection forbidden (status %d)", resp.StatusCode)
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.WarnContext(ctx, "gapura introspection failed", "status_code", resp.StatusCode)
		return admin.Principal{}, errors.Wrapf(errTransient, "introspection status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return admin.Principal{}, errors.Newf("introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return admin.Principal{}, errors.Wrap(err, "unmarshal introspect response")
	}

	if !decoded.Active {
		return admin.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "inactive token")
	}
	if strings.TrimSpace(decoded.AdminID) == "" {
		return admin.Principal{}, errors.New("invalid introspect response: admin_id is empty")
	}

	return admin.Principal{
		AdminID: decoded.AdminID,
		Email:   decoded.Email,
		Tenants: decoded.TenantIDs,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active    bool     `json:"active"`
	AdminID   string   `json:"admin_id"`
	Email     string   `json:"email"`
	TenantIDs []string `json:"tenant_ids"`
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}

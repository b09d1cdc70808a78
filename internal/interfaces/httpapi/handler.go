package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/racha-hq/racha-manager/internal/domain/admin"
	"github.com/racha-hq/racha-manager/internal/platform/logging"
	"github.com/racha-hq/racha-manager/internal/usecase"
)

type Handler struct {
	draftService     *usecase.DraftService
	rosterService    *usecase.RosterService
	recomputeService *usecase.RecomputeService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	draftService *usecase.DraftService,
	rosterService *usecase.RosterService,
	recomputeService *usecase.RecomputeService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		draftService:     draftService,
		rosterService:    rosterService,
		recomputeService: recomputeService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSONBody(r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// tenantAdmin resolves the tenant from the request path and checks the
// authenticated admin is allowed to manage it.
func (h *Handler) tenantAdmin(ctx context.Context, r *http.Request) (string, admin.Principal, error) {
	tenantID := strings.TrimSpace(r.PathValue("tenantID"))
	if tenantID == "" {
		return "", admin.Principal{}, fmt.Errorf("%w: tenant id is required", usecase.ErrInvalidInput)
	}

	principal, ok := principalFromContext(ctx)
	if !ok {
		return "", admin.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	if !principal.CanManage(tenantID) {
		return "", admin.Principal{}, fmt.Errorf("%w: admin %s does not manage tenant %s", usecase.ErrUnauthorized, principal.AdminID, tenantID)
	}

	return tenantID, principal, nil
}

package httpapi

import (
	"net/http"
	"strings"
)

// GetTeamsOfDay serves the latest published draft for a tenant. It is the
// only unauthenticated domain endpoint; players share the link in the group
// chat, so the payload carries no admin-facing detail.
func (h *Handler) GetTeamsOfDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamsOfDay")
	defer span.End()

	tenantID := strings.TrimSpace(r.PathValue("tenantID"))
	view, err := h.draftService.GetTeamsOfDay(ctx, tenantID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

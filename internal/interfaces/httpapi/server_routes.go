package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	// Players only ever see the published result, never draft internals.
	mux.HandleFunc("GET /v1/tenants/{tenantID}/teams-of-day", handler.GetTeamsOfDay)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/tenants/{tenantID}/roster", RequireAuth(verifier, http.HandlerFunc(handler.GetRosterSnapshot)))

	mux.Handle("POST /v1/tenants/{tenantID}/draft/compute", RequireAuth(verifier, http.HandlerFunc(handler.ComputeDraft)))
	mux.Handle("GET /v1/tenants/{tenantID}/draft", RequireAuth(verifier, http.HandlerFunc(handler.GetActiveDraft)))
	mux.Handle("GET /v1/tenants/{tenantID}/draft/sessions/{sessionID}", RequireAuth(verifier, http.HandlerFunc(handler.GetDraftSession)))
	mux.Handle("POST /v1/tenants/{tenantID}/draft/sessions/{sessionID}/swap", RequireAuth(verifier, http.HandlerFunc(handler.SwapDraftParticipants)))
	mux.Handle("POST /v1/tenants/{tenantID}/draft/sessions/{sessionID}/reserves", RequireAuth(verifier, http.HandlerFunc(handler.AssignDraftReserve)))
	mux.Handle("POST /v1/tenants/{tenantID}/draft/sessions/{sessionID}/publish", RequireAuth(verifier, http.HandlerFunc(handler.PublishDraft)))
	mux.Handle("DELETE /v1/tenants/{tenantID}/draft/sessions/{sessionID}", RequireAuth(verifier, http.HandlerFunc(handler.DiscardDraft)))
	mux.Handle("GET /v1/tenants/{tenantID}/draft/history", RequireAuth(verifier, http.HandlerFunc(handler.ListDraftHistory)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/recompute", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecomputeJob)))
}

package controllers

import (
	"net/http"

	"github.com/madebuy/madebuy-backend/api/middleware"
	"github.com/madebuy/madebuy-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func TenantPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "tenant", "status": "ok"}
		if tenant := middleware.TenantIDFromContext(r.Context()); tenant != "" {
			payload["tenant_id"] = tenant
		}
		responses.WriteSuccess(w, payload)
	}
}

package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/api/middleware"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
)

func tenantID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.TenantIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tenant id")
	}
	return id, nil
}

func buyerRef(r *http.Request) (string, error) {
	ref := middleware.BuyerRefFromContext(r.Context())
	if ref == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "buyer reference header required")
	}
	return ref, nil
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madebuy/madebuy-backend/api/responses"
	"github.com/madebuy/madebuy-backend/api/validators"
	personalizationsvc "github.com/madebuy/madebuy-backend/internal/personalization"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

// GetPersonalizationConfig returns the piece's personalization config.
func GetPersonalizationConfig(svc personalizationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pieceID, err := validators.ParseUUIDParam(chi.URLParam(r, "pieceID"), "pieceID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		config, err := svc.GetConfig(r.Context(), tenant, pieceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, config)
	}
}

// UpsertPersonalizationConfig creates or replaces the piece's config.
func UpsertPersonalizationConfig(svc personalizationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "personalization service unavailable"))
			return
		}

		tenant, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pieceID, err := validators.ParseUUIDParam(chi.URLParam(r, "pieceID"), "pieceID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertConfigRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		config, err := svc.UpsertConfig(r.Context(), tenant, pieceID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, config)
	}
}

// SetPersonalizationEnabled toggles the config without touching its fields.
func SetPersonalizationEnabled(svc personalizationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pieceID, err := validators.ParseUUIDParam(chi.URLParam(r, "pieceID"), "pieceID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setEnabledRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		config, err := svc.SetEnabled(r.Context(), tenant, pieceID, *payload.Enabled)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, config)
	}
}

type upsertConfigRequest struct {
	Enabled        bool                        `json:"enabled"`
	Instructions   *string                     `json:"instructions,omitempty"`
	ProcessingDays *int                        `json:"processing_days,omitempty" validate:"omitempty,min=0"`
	Fields         types.PersonalizationFields `json:"fields" validate:"required"`
}

func (r upsertConfigRequest) toInput() personalizationsvc.UpsertConfigInput {
	return personalizationsvc.UpsertConfigInput{
		Enabled:        r.Enabled,
		Instructions:   r.Instructions,
		ProcessingDays: r.ProcessingDays,
		Fields:         r.Fields,
	}
}

type setEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

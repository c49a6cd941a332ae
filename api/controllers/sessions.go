package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madebuy/madebuy-backend/api/responses"
	"github.com/madebuy/madebuy-backend/api/validators"
	personalizationsvc "github.com/madebuy/madebuy-backend/internal/personalization"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
)

// OpenFormSession starts a server-side personalization form for a piece.
func OpenFormSession(svc personalizationsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		session, err := svc.OpenSession(r.Context(), tenant, pieceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// GetFormSession returns the current state of an open form session.
func GetFormSession(svc personalizationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := validators.ParseUUIDParam(chi.URLParam(r, "sessionID"), "sessionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.GetSession(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// SetFormFieldValue writes one field's value and returns the refreshed state.
func SetFormFieldValue(svc personalizationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := validators.ParseUUIDParam(chi.URLParam(r, "sessionID"), "sessionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fieldID := chi.URLParam(r, "fieldID")

		var payload setFieldValueRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.SetFieldValue(r.Context(), sessionID, fieldID, payload.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// BlurFormField marks a field touched so its errors become visible.
func BlurFormField(svc personalizationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := validators.ParseUUIDParam(chi.URLParam(r, "sessionID"), "sessionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fieldID := chi.URLParam(r, "fieldID")

		session, err := svc.BlurField(r.Context(), sessionID, fieldID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// RemoveFormFile clears an uploaded file from a file field.
func RemoveFormFile(svc personalizationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := validators.ParseUUIDParam(chi.URLParam(r, "sessionID"), "sessionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fieldID := chi.URLParam(r, "fieldID")

		session, err := svc.RemoveFile(r.Context(), sessionID, fieldID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

type setFieldValueRequest struct {
	Value any `json:"value"`
}

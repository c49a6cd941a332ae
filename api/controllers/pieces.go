package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/madebuy/madebuy-backend/api/responses"
	"github.com/madebuy/madebuy-backend/api/validators"
	piecesvc "github.com/madebuy/madebuy-backend/internal/pieces"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/pagination"
)

// CreatePiece handles piece creation for a tenant.
func CreatePiece(svc piecesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "piece service unavailable"))
			return
		}

		tenant, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createPieceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		piece, err := svc.CreatePiece(r.Context(), tenant, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, piece)
	}
}

// UpdatePiece applies a partial update to a tenant's piece.
func UpdatePiece(svc piecesvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload updatePieceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		piece, err := svc.UpdatePiece(r.Context(), tenant, pieceID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, piece)
	}
}

// GetPiece returns a single piece owned by the tenant.
func GetPiece(svc piecesvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		piece, err := svc.GetPiece(r.Context(), tenant, pieceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, piece)
	}
}

// ListPieces returns a cursor-paginated page of the tenant's pieces.
func ListPieces(svc piecesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor := r.URL.Query().Get("cursor")
		if _, parseErr := pagination.ParseCursor(cursor); parseErr != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid cursor"))
			return
		}
		params := pagination.Params{Limit: limit, Cursor: cursor}

		result, err := svc.ListPieces(r.Context(), tenant, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// DeletePiece removes a piece and its dependents.
func DeletePiece(svc piecesvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.DeletePiece(r.Context(), tenant, pieceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createPieceRequest struct {
	SKU         string   `json:"sku" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description,omitempty"`
	PriceCents  int64    `json:"price_cents" validate:"min=0"`
	IsActive    bool     `json:"is_active"`
	Tags        []string `json:"tags,omitempty"`
}

func (r createPieceRequest) toInput() piecesvc.CreatePieceInput {
	return piecesvc.CreatePieceInput{
		SKU:         r.SKU,
		Title:       r.Title,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		IsActive:    r.IsActive,
		Tags:        r.Tags,
	}
}

type updatePieceRequest struct {
	SKU         *string   `json:"sku,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	PriceCents  *int64    `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool     `json:"is_active,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

func (r updatePieceRequest) toInput() piecesvc.UpdatePieceInput {
	return piecesvc.UpdatePieceInput{
		SKU:         r.SKU,
		Title:       r.Title,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		IsActive:    r.IsActive,
		Tags:        r.Tags,
	}
}

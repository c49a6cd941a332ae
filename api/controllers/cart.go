package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/api/responses"
	"github.com/madebuy/madebuy-backend/api/validators"
	cartsvc "github.com/madebuy/madebuy-backend/internal/cart"
	"github.com/madebuy/madebuy-backend/internal/personalization"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
)

// AddCartItem appends a (possibly personalized) line to the buyer's cart.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		tenant, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buyer, err := buyerRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddItem(r.Context(), tenant, payload.toInput(buyer))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, cart)
	}
}

// GetCart returns the buyer's active cart.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buyer, err := buyerRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.GetCart(r.Context(), tenant, buyer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

// RemoveCartItem deletes one line from the buyer's active cart.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := tenantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buyer, err := buyerRef(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParseUUIDParam(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), tenant, buyer, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cart)
	}
}

type addCartItemRequest struct {
	PieceID   uuid.UUID                                 `json:"piece_id" validate:"required"`
	Quantity  int                                       `json:"quantity" validate:"required,min=1"`
	SessionID *uuid.UUID                                `json:"session_id,omitempty"`
	Values    map[string]any                            `json:"values,omitempty"`
	Files     map[string]*personalization.FileInput     `json:"files,omitempty"`
}

func (r addCartItemRequest) toInput(buyer string) cartsvc.AddItemInput {
	return cartsvc.AddItemInput{
		BuyerRef:  buyer,
		PieceID:   r.PieceID,
		Quantity:  r.Quantity,
		SessionID: r.SessionID,
		Values:    r.Values,
		Files:     r.Files,
	}
}

package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/selection"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type selectVariantRequest struct {
	VariantID string `json:"variant_id" validate:"required,shopid"`
}

// selectionResponse carries a null selection once the record is gone.
type selectionResponse struct {
	Selection *selection.Record `json:"selection"`
}

func SelectionGet(svc selection.Service, logg *logger.Logger) http.HandlerFunc {
	return selectionHandler(svc, logg, func(r *http.Request, session, productID string) (*selection.Record, error) {
		return svc.Current(r.Context(), session, productID)
	})
}

func SelectionSelectVariant(svc selection.Service, logg *logger.Logger) http.HandlerFunc {
	return selectionHandler(svc, logg, func(r *http.Request, session, productID string) (*selection.Record, error) {
		var payload selectVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.SelectVariant(r.Context(), session, productID, payload.VariantID)
	})
}

func SelectionIncrease(svc selection.Service, logg *logger.Logger) http.HandlerFunc {
	return selectionHandler(svc, logg, func(r *http.Request, session, productID string) (*selection.Record, error) {
		return svc.Increase(r.Context(), session, productID)
	})
}

func SelectionDecrease(svc selection.Service, logg *logger.Logger) http.HandlerFunc {
	return selectionHandler(svc, logg, func(r *http.Request, session, productID string) (*selection.Record, error) {
		return svc.Decrease(r.Context(), session, productID)
	})
}

type selectionOp func(r *http.Request, session, productID string) (*selection.Record, error)

func selectionHandler(svc selection.Service, logg *logger.Logger, op selectionOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "selection service unavailable"))
			return
		}
		productID, err := validators.PathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		record, err := op(r, session, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, selectionResponse{Selection: record})
	}
}

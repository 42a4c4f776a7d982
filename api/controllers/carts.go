package controllers

import (
	"net/http"

	"github.com/takuma-ones/ec-app/api/middleware"
	"github.com/takuma-ones/ec-app/api/responses"
	"github.com/takuma-ones/ec-app/api/validators"
	cartsvc "github.com/takuma-ones/ec-app/internal/cart"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"github.com/takuma-ones/ec-app/pkg/logger"
)

type addCartItemRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// CartFetch returns the caller's cart, creating an empty one on first read.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := subjectFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// CartQuantity returns only the aggregate item count for badge rendering.
func CartQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := subjectFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetQuantity(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// CartAddItem merges a product line into the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := subjectFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddItem(r.Context(), userID, body.ProductID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// CartUpdateItem sets the absolute quantity of an existing line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := subjectFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseURLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateItem(r.Context(), userID, productID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// CartRemoveItem deletes a line entirely regardless of its quantity.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := subjectFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseURLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveItem(r.Context(), userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

func subjectFromContext(r *http.Request) (int, error) {
	if r == nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	subjectID := middleware.SubjectIDFromContext(r.Context())
	if subjectID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return subjectID, nil
}

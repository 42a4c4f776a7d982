package controllers

import (
	"net/http"

	"github.com/takuma-ones/ec-app/api/responses"
	"github.com/takuma-ones/ec-app/api/validators"
	categorysvc "github.com/takuma-ones/ec-app/internal/categories"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"github.com/takuma-ones/ec-app/pkg/logger"
)

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// AdminCategoryList returns every live category.
func AdminCategoryList(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		records, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// AdminCategoryDetail returns one live category.
func AdminCategoryDetail(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		categoryID, err := validators.ParseURLParamID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// AdminCategoryCreate registers a new category name.
func AdminCategoryCreate(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		var body categoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// AdminCategoryUpdate renames an existing category.
func AdminCategoryUpdate(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		categoryID, err := validators.ParseURLParamID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body categoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Rename(r.Context(), categoryID, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// AdminCategoryDelete soft deletes a category.
func AdminCategoryDelete(svc categorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		categoryID, err := validators.ParseURLParamID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

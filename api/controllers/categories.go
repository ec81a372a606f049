package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrbebidas/catalog-backend/api/responses"
	"github.com/mrbebidas/catalog-backend/api/validators"
	categoriessvc "github.com/mrbebidas/catalog-backend/internal/categories"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
)

// AdminListCategories returns every category with its product count.
func AdminListCategories(svc categoriessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		dtos, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

type upsertCategoryRequest struct {
	ID        *uuid.UUID `json:"id"`
	Name      string     `json:"name" validate:"required"`
	SortOrder *int       `json:"sort_order"`
}

// AdminUpsertCategory creates a category, or updates it when an id is
// supplied.
func AdminUpsertCategory(svc categoriessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		var body upsertCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFromContext(r.Context())
		if body.ID != nil {
			dto, err := svc.Update(r.Context(), actor, *body.ID, categoriessvc.UpdateInput{
				Name:      &body.Name,
				SortOrder: body.SortOrder,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, dto)
			return
		}

		dto, err := svc.Create(r.Context(), actor, categoriessvc.CreateInput{
			Name:      body.Name,
			SortOrder: body.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminDeleteCategory removes a category and its products.
func AdminDeleteCategory(svc categoriessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "categoryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}

		if err := svc.Delete(r.Context(), actorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

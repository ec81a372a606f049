package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrbebidas/catalog-backend/api/responses"
	"github.com/mrbebidas/catalog-backend/api/validators"
	productssvc "github.com/mrbebidas/catalog-backend/internal/products"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
)

// AdminListProducts returns products, optionally filtered by category.
func AdminListProducts(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, err := svc.List(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

type upsertProductRequest struct {
	ID          *uuid.UUID `json:"id"`
	CategoryID  uuid.UUID  `json:"category_id" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Description *string    `json:"description"`
	Price       string     `json:"price"`
}

// AdminUpsertProduct creates a product, or updates it when an id is
// supplied. Price is stored as typed; an unparsable value renders as
// price-on-request on the storefront rather than being rejected.
func AdminUpsertProduct(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		var body upsertProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFromContext(r.Context())
		if body.ID != nil {
			dto, err := svc.Update(r.Context(), actor, *body.ID, productssvc.UpdateInput{
				CategoryID:  &body.CategoryID,
				Name:        &body.Name,
				Description: body.Description,
				Price:       &body.Price,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, dto)
			return
		}

		dto, err := svc.Create(r.Context(), actor, productssvc.CreateInput{
			CategoryID:  body.CategoryID,
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminDeleteProduct removes a product.
func AdminDeleteProduct(svc productssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.Delete(r.Context(), actorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

package controllers

import (
	"net/http"

	"github.com/mrbebidas/catalog-backend/api/responses"
	"github.com/mrbebidas/catalog-backend/api/validators"
	"github.com/mrbebidas/catalog-backend/internal/catalog"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
)

const maxSearchLen = 128

// PublicCatalog serves the storefront snapshot with optional search and
// category filters.
func PublicCatalog(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		search := validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLen)
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Snapshot(r.Context(), search, categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snap)
	}
}

// AdminCatalog serves the unfiltered snapshot to the back office. Empty
// categories are included, unlike the storefront view.
func AdminCatalog(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		snap, err := svc.AdminSnapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snap)
	}
}

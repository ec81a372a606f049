package controllers

import (
	"net/http"

	"github.com/mrbebidas/catalog-backend/api/responses"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
	"github.com/mrbebidas/catalog-backend/pkg/migrate"
)

// AdminSchemaScript serves the SQL script an operator runs to provision
// the database when the storefront reports setup_required.
func AdminSchemaScript(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		script, err := migrate.BootstrapScript()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render schema script"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"script": script})
	}
}

package controllers

import (
	"net/http"

	"github.com/mrbebidas/catalog-backend/api/responses"
	"github.com/mrbebidas/catalog-backend/api/validators"
	checkoutsvc "github.com/mrbebidas/catalog-backend/internal/checkout"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName string `json:"customer_name" validate:"required"`
}

// CheckoutCompose turns the caller's cart into a WhatsApp handoff.
func CheckoutCompose(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		token := cartToken(w, r)

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Compose(r.Context(), token, body.CustomerName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrbebidas/catalog-backend/api/responses"
	"github.com/mrbebidas/catalog-backend/api/validators"
	settingssvc "github.com/mrbebidas/catalog-backend/internal/settings"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/logger"
)

// PublicSettings exposes the storefront-facing configuration.
func PublicSettings(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		dto, err := svc.StoreSettings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

type settingValueResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AdminGetSetting returns one configuration value by key.
func AdminGetSetting(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		key := chi.URLParam(r, "key")
		dto, err := svc.StoreSettings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch key {
		case models.SettingWhatsAppNumber:
			responses.WriteSuccess(w, settingValueResponse{Key: key, Value: dto.WhatsAppNumber})
		case models.SettingLogoURL:
			responses.WriteSuccess(w, settingValueResponse{Key: key, Value: dto.LogoURL})
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown setting"))
		}
	}
}

type updateSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

// AdminPutSetting stores one configuration value by key.
func AdminPutSetting(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		key := chi.URLParam(r, "key")

		var body updateSettingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input settingssvc.UpdateInput
		switch key {
		case models.SettingWhatsAppNumber:
			input.WhatsAppNumber = &body.Value
		case models.SettingLogoURL:
			input.LogoURL = &body.Value
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown setting"))
			return
		}

		dto, err := svc.Update(r.Context(), actorFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

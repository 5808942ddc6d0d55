package v1

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/validator"
)

func (h *Handler) getGeneralSettings(w http.ResponseWriter, r *http.Request) {
	setting, err := h.store.GetSystemGeneralSetting(r.Context())
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, setting)
}

func (h *Handler) setGeneralSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.SystemSettingGeneral
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateGeneralSettings(&settings); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	saved, err := h.store.UpsertGeneralSetting(r.Context(), &settings)
	if err != nil {
		log.Error("Failed to save general settings", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, saved)
}

// index returns the catalog counters of the home page.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.GetCatalogSummary(r.Context())
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, summary)
}

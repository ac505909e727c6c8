package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

func (h *Handler) GetAllWebsiteSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repository.GetAllWebsiteSettings()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取网站设置成功", settings)
}

func (h *Handler) GetWebsiteSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	setting, err := h.repository.GetWebsiteSetting(key)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "设置项不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取网站设置成功", setting)
}

func (h *Handler) UpsertWebsiteSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key" validate:"required"`
		Value string `json:"value" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	setting := &domain.WebsiteSetting{
		Key:   req.Key,
		Value: req.Value,
	}
	if err := h.repository.UpsertWebsiteSetting(setting); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "网站设置更新成功", setting)
}

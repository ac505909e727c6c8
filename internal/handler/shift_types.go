package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/utils"
)

func (h *Handler) CreateShiftType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name" validate:"required"`
		StartTime    string `json:"startTime" validate:"required"`
		EndTime      string `json:"endTime" validate:"required"`
		DisplayOrder int32  `json:"displayOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := &domain.ShiftType{
		Name:         req.Name,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		DisplayOrder: req.DisplayOrder,
	}

	if err := utils.ValidateShiftTypeTime(st); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShiftType(st); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "班次创建成功", st)
}

func (h *Handler) GetAllShiftTypes(w http.ResponseWriter, r *http.Request) {
	sts, err := h.repository.GetAllShiftTypes()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", sts)
}

func (h *Handler) GetShiftType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)
	h.successResponse(w, r, "获取班次成功", st)
}

func (h *Handler) UpdateShiftType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string `json:"name"`
		StartTime    *string `json:"startTime"`
		EndTime      *string `json:"endTime"`
		DisplayOrder *int32  `json:"displayOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.StartTime != nil {
		st.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		st.EndTime = *req.EndTime
	}
	if req.DisplayOrder != nil {
		st.DisplayOrder = *req.DisplayOrder
	}

	if err := utils.ValidateShiftTypeTime(st); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShiftType(st); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新班次失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新班次成功", st)
}

func (h *Handler) DeleteShiftType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ShiftTypeCtx).(*domain.ShiftType)

	if err := h.repository.DeleteShiftType(st.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}

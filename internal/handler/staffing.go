package handler

import (
	"net/http"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/utils"
)

func (h *Handler) GetAllRequirements(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.repository.GetAllRequirements()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取最低人数配置成功", reqs)
}

func (h *Handler) UpsertRequirement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayOfWeek      int32 `json:"dayOfWeek" validate:"gte=0,lte=6"`
		ShiftTypeID    int64 `json:"shiftTypeID" validate:"required"`
		MinOfficers    int32 `json:"minOfficers" validate:"gte=0"`
		MinSupervisors int32 `json:"minSupervisors" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	requirement := &domain.StaffingRequirement{
		DayOfWeek:      req.DayOfWeek,
		ShiftTypeID:    req.ShiftTypeID,
		MinOfficers:    req.MinOfficers,
		MinSupervisors: req.MinSupervisors,
	}

	if err := utils.ValidateRequirement(requirement); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpsertRequirement(requirement); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存最低人数配置成功", requirement)
}

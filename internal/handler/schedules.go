package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

const dateLayout = "2006-01-02"

func (h *Handler) CreateRecurringSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      int64   `json:"userID" validate:"required"`
		ShiftTypeID int64   `json:"shiftTypeID" validate:"required"`
		DayOfWeek   int32   `json:"dayOfWeek" validate:"gte=0,lte=6"`
		StartDate   string  `json:"startDate" validate:"required"`
		EndDate     *string `json:"endDate"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "开始日期格式错误")
		return
	}

	rs := &domain.RecurringSchedule{
		UserID:      req.UserID,
		ShiftTypeID: req.ShiftTypeID,
		DayOfWeek:   req.DayOfWeek,
		StartDate:   startDate,
	}

	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			h.errorResponse(w, r, "结束日期格式错误")
			return
		}
		if endDate.Before(startDate) {
			h.errorResponse(w, r, "结束日期不能早于开始日期")
			return
		}
		rs.EndDate = &endDate
	}

	if err := h.repository.CreateRecurringSchedule(rs); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "常规排班创建成功", rs)
}

func (h *Handler) GetMyRecurringSchedules(w http.ResponseWriter, r *http.Request) {
	subString := r.Context().Value(SubCtxKey).(string)
	sub, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	schedules, err := h.repository.GetRecurringSchedulesByUser(sub)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取常规排班成功", schedules)
}

func (h *Handler) DeleteRecurringSchedule(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "排班ID无效")
		return
	}

	if err := h.repository.DeleteRecurringSchedule(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除常规排班成功", nil)
}

func (h *Handler) CreateScheduleException(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      int64  `json:"userID" validate:"required"`
		ShiftTypeID int64  `json:"shiftTypeID" validate:"required"`
		Date        string `json:"date" validate:"required"`
		Kind        string `json:"kind" validate:"required,oneof=absence extra"`
		Reason      string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}

	se := &domain.ScheduleException{
		UserID:      req.UserID,
		ShiftTypeID: req.ShiftTypeID,
		Date:        date,
		Kind:        domain.ExceptionKind(req.Kind),
		Reason:      req.Reason,
	}

	if err := h.repository.CreateScheduleException(se); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班例外创建成功", se)
}

func (h *Handler) CreateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      int64  `json:"userID" validate:"required"`
		ShiftTypeID int64  `json:"shiftTypeID" validate:"required"`
		Date        string `json:"date" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}

	sa := &domain.ShiftAssignment{
		UserID:      req.UserID,
		ShiftTypeID: req.ShiftTypeID,
		Date:        date,
	}

	if err := h.repository.CreateShiftAssignment(sa); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "单次排班创建成功", sa)
}

// GetSnapshots 返回某一天所有班次的在岗快照，默认是今天
func (h *Handler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		parsed, err := time.Parse(dateLayout, dateParam)
		if err != nil {
			h.errorResponse(w, r, "日期格式错误")
			return
		}
		date = parsed
	}

	snapshots, err := h.reader.SnapshotsForDate(date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班快照成功", snapshots)
}

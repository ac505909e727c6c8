package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

func (h *Handler) GetVacancyAlerts(w http.ResponseWriter, r *http.Request) {
	status := domain.AlertStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.AlertStatusOpen, domain.AlertStatusFilled, domain.AlertStatusExpired:
	default:
		h.errorResponse(w, r, "无效的警报状态")
		return
	}

	alerts, err := h.repository.GetVacancyAlerts(status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取空缺警报列表成功", alerts)
}

// ScanVacancies 对未来 7 天做一次完整的评估 + 落库 + fan-out
func (h *Handler) ScanVacancies(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftTypeID int64 `json:"shiftTypeID"`
	}

	// 请求体可以为空，表示评估所有班次
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}

	summary := h.pipeline.Run(time.Now(), req.ShiftTypeID)

	h.successResponse(w, r, "空缺评估完成", summary)
}

func (h *Handler) GetVacancyAlert(w http.ResponseWriter, r *http.Request) {
	alert := r.Context().Value(VacancyAlertCtx).(*domain.VacancyAlert)
	h.successResponse(w, r, "获取空缺警报成功", alert)
}

func (h *Handler) UpdateVacancyAlertStatus(w http.ResponseWriter, r *http.Request) {
	alert := r.Context().Value(VacancyAlertCtx).(*domain.VacancyAlert)

	var req struct {
		Status string `json:"status" validate:"required,oneof=filled expired"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 只有 open 状态的警报才能流转，其余情况数据库不会更新任何行
	if err := h.repository.UpdateVacancyAlertStatus(alert, domain.AlertStatus(req.Status)); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "警报不是 open 状态，无法变更")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "警报状态更新成功", alert)
}

// ExportVacancyAlerts 导出空缺警报列表为 xlsx
func (h *Handler) ExportVacancyAlerts(w http.ResponseWriter, r *http.Request) {
	status := domain.AlertStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.AlertStatusOpen
	}

	alerts, err := h.repository.GetVacancyAlerts(status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shiftTypes, err := h.repository.GetAllShiftTypes()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	shiftNames := make(map[int64]string, len(shiftTypes))
	for _, st := range shiftTypes {
		shiftNames[st.ID] = st.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"ID", "Shift", "Date", "Current Staffing", "Minimum Required", "Status", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for row, alert := range alerts {
		name := shiftNames[alert.ShiftTypeID]
		if name == "" {
			name = "Unknown Shift"
		}
		values := []any{
			alert.ID,
			name,
			alert.Date.Format(dateLayout),
			alert.CurrentStaffing,
			alert.MinimumRequired,
			string(alert.Status),
			alert.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="vacancy_alerts_%s.xlsx"`, time.Now().Format(dateLayout)))

	if err := f.Write(w); err != nil {
		h.logInternalServerError(r, err)
	}
}

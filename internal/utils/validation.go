package utils

import (
	"fmt"
	"time"

	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
)

func ValidateShiftTypeTime(st *domain.ShiftType) error {
	startTime, err := time.Parse("15:04:05", st.StartTime)
	if err != nil {
		return fmt.Errorf("班次开始时间格式错误")
	}
	endTime, err := time.Parse("15:04:05", st.EndTime)
	if err != nil {
		return fmt.Errorf("班次结束时间格式错误")
	}
	if !endTime.After(startTime) {
		return fmt.Errorf("班次结束时间必须晚于开始时间")
	}
	return nil
}

func ValidateRequirement(req *domain.StaffingRequirement) error {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return fmt.Errorf("星期几必须在 0 到 6 之间")
	}
	if req.MinOfficers < 0 || req.MinSupervisors < 0 {
		return fmt.Errorf("最低人数不能为负数")
	}
	return nil
}

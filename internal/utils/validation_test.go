package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/watchdesk/staff-scheduler/backend/internal/domain"
	"github.com/watchdesk/staff-scheduler/backend/internal/utils"
)

func TestValidateShiftTypeTime(t *testing.T) {
	tests := map[string]struct {
		start   string
		end     string
		wantErr bool
	}{
		"正常班次":    {start: "07:00:00", end: "15:00:00", wantErr: false},
		"开始时间格式错": {start: "7am", end: "15:00:00", wantErr: true},
		"结束时间格式错": {start: "07:00:00", end: "bedtime", wantErr: true},
		"结束早于开始":  {start: "15:00:00", end: "07:00:00", wantErr: true},
		"开始等于结束":  {start: "07:00:00", end: "07:00:00", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := utils.ValidateShiftTypeTime(&domain.ShiftType{StartTime: tt.start, EndTime: tt.end})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRequirement(t *testing.T) {
	tests := map[string]struct {
		req     domain.StaffingRequirement
		wantErr bool
	}{
		"正常配置":  {req: domain.StaffingRequirement{DayOfWeek: 1, MinOfficers: 8, MinSupervisors: 1}, wantErr: false},
		"允许为零":  {req: domain.StaffingRequirement{DayOfWeek: 0}, wantErr: false},
		"星期几太大": {req: domain.StaffingRequirement{DayOfWeek: 7}, wantErr: true},
		"星期几为负": {req: domain.StaffingRequirement{DayOfWeek: -1}, wantErr: true},
		"人数为负":  {req: domain.StaffingRequirement{DayOfWeek: 3, MinOfficers: -1}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := utils.ValidateRequirement(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package domain

// 当 minimum_staffing 中没有对应 (dayOfWeek, shiftType) 的记录时使用的缺省值
const (
	DefaultMinSupervisors int32 = 1
	DefaultMinOfficers    int32 = 8
)

type StaffingRequirement struct {
	ID             int64 `json:"id"`
	DayOfWeek      int32 `json:"dayOfWeek"` // 0 = 周日，6 = 周六
	ShiftTypeID    int64 `json:"shiftTypeID"`
	MinOfficers    int32 `json:"minOfficers"`
	MinSupervisors int32 `json:"minSupervisors"`
	Version        int32 `json:"-"`
}

// DefaultRequirement 返回某个班次在缺少配置时的缺省人数要求
func DefaultRequirement(dayOfWeek int32, shiftTypeID int64) *StaffingRequirement {
	return &StaffingRequirement{
		DayOfWeek:      dayOfWeek,
		ShiftTypeID:    shiftTypeID,
		MinOfficers:    DefaultMinOfficers,
		MinSupervisors: DefaultMinSupervisors,
	}
}

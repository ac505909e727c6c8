package domain

import "time"

type RecurringSchedule struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userID"`
	ShiftTypeID int64      `json:"shiftTypeID"`
	DayOfWeek   int32      `json:"dayOfWeek"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"` // 为 nil 时表示长期有效
	CreatedAt   time.Time  `json:"createdAt"`
	Version     int32      `json:"-"`
}

type ExceptionKind string

const (
	ExceptionAbsence ExceptionKind = "absence" // 请假等，当天不在岗
	ExceptionExtra   ExceptionKind = "extra"   // 临时加班，当天额外在岗
)

type ScheduleException struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userID"`
	ShiftTypeID int64         `json:"shiftTypeID"`
	Date        time.Time     `json:"date"`
	Kind        ExceptionKind `json:"kind"`
	Reason      string        `json:"reason"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ShiftAssignment 是单次排班，通常来自补班或者认领空缺
type ShiftAssignment struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userID"`
	ShiftTypeID int64     `json:"shiftTypeID"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

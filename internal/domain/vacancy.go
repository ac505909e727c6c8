package domain

import "time"

type AlertStatus string

const (
	AlertStatusOpen    AlertStatus = "open"
	AlertStatusFilled  AlertStatus = "filled"
	AlertStatusExpired AlertStatus = "expired"
)

type VacancyAlert struct {
	ID              int64       `json:"id"`
	ShiftTypeID     int64       `json:"shiftTypeID"`
	Date            time.Time   `json:"date"`
	CurrentStaffing int32       `json:"currentStaffing"`
	MinimumRequired int32       `json:"minimumRequired"`
	Status          AlertStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	Version         int32       `json:"-"`
}

// Shortage 是一次评估中发现的缺员记录，只在内存中传递
type Shortage struct {
	ShiftTypeID             int64          `json:"shiftTypeID"`
	ShiftName               string         `json:"shiftName"`
	Date                    time.Time      `json:"date"`
	StartTime               string         `json:"startTime"`
	EndTime                 string         `json:"endTime"`
	CurrentOfficers         int32          `json:"currentOfficers"`
	CurrentSupervisors      int32          `json:"currentSupervisors"`
	MinOfficers             int32          `json:"minOfficers"`
	MinSupervisors          int32          `json:"minSupervisors"`
	CurrentStaffing         int32          `json:"currentStaffing"`
	MinimumRequired         int32          `json:"minimumRequired"`
	OfficersUnderstaffed    bool           `json:"officersUnderstaffed"`
	SupervisorsUnderstaffed bool           `json:"supervisorsUnderstaffed"`
	PositionShortfall       string         `json:"positionShortfall"` // 例如 "2 Supervisor(s), 1 Officer(s)"
	Roster                  []RosterMember `json:"roster"`
}

// DayResult 区分"当天没有缺员"和"当天评估失败被跳过"这两种情况
type DayResult struct {
	Date       time.Time  `json:"date"`
	Shortages  []Shortage `json:"shortages"`
	Skipped    bool       `json:"skipped"`
	SkipReason string     `json:"skipReason,omitempty"`
}

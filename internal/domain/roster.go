package domain

import "time"

type RosterMember struct {
	UserID       int64  `json:"userID"`
	Name         string `json:"name"`
	IsSupervisor bool   `json:"isSupervisor"`
}

// ScheduledMember 是聚合查询的结果行：某个日期某个班次的一名在岗人员
type ScheduledMember struct {
	ShiftTypeID int64  `json:"shiftTypeID"`
	UserID      int64  `json:"userID"`
	FullName    string `json:"fullName"`
	Role        Role   `json:"role"`
}

// ShiftSnapshot 是某个日期某个班次的实际在岗情况，只在一次评估中存在，不落库
type ShiftSnapshot struct {
	ShiftTypeID        int64          `json:"shiftTypeID"`
	Date               time.Time      `json:"date"`
	Name               string         `json:"name"`
	StartTime          string         `json:"startTime"`
	EndTime            string         `json:"endTime"`
	CurrentOfficers    int32          `json:"currentOfficers"`
	CurrentSupervisors int32          `json:"currentSupervisors"`
	Roster             []RosterMember `json:"roster"`
}
